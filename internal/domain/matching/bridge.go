package matching

import (
	"sort"

	"skill-bridge/internal/domain/course"
	"skill-bridge/internal/domain/skill"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
)

type CourseRecommendation struct {
	CourseID         string   `json:"course_id"`
	CourseName       string   `json:"course_name"`
	Description      string   `json:"description"`
	DurationHours    int      `json:"duration_hours"`
	Cost             float64  `json:"cost"`
	Provider         string   `json:"provider"`
	URL              string   `json:"url"`
	FillsGaps        []string `json:"fills_gaps"`
	GapsCount        int      `json:"gaps_count"`
	HasPrerequisites bool     `json:"has_prerequisites"`
	Efficiency       float64  `json:"efficiency"`
	Priority         Priority `json:"priority"`
}

type BridgeRecommender struct {
	courses []course.Course
}

func NewBridgeRecommender(courses []course.Course) *BridgeRecommender {
	return &BridgeRecommender{courses: append([]course.Course(nil), courses...)}
}

func (b *BridgeRecommender) Courses() []course.Course {
	return append([]course.Course(nil), b.courses...)
}

// Recommend returns every course that teaches at least one gap skill.
// Courses whose prerequisites are met rank above the rest; within each group
// higher gaps-per-hour ranks first and catalog order breaks ties.
func (b *BridgeRecommender) Recommend(gaps, userSkills []string) []CourseRecommendation {
	out := make([]CourseRecommendation, 0)
	if len(gaps) == 0 {
		return out
	}

	gapSet := skill.Index(gaps)
	userSet := skill.Index(userSkills)

	for _, c := range b.courses {
		fills := make([]string, 0, len(c.BridgesTo))
		for _, id := range skill.Unique(c.BridgesTo) {
			if _, ok := gapSet[id]; ok {
				fills = append(fills, id)
			}
		}
		if len(fills) == 0 {
			continue
		}

		hasPrereq := prerequisitesMet(c.BridgesFrom, userSet)
		priority := PriorityMedium
		if hasPrereq && len(fills) >= 2 {
			priority = PriorityHigh
		}

		out = append(out, CourseRecommendation{
			CourseID:         c.ID,
			CourseName:       c.Name,
			Description:      c.Description,
			DurationHours:    c.DurationHours,
			Cost:             c.Cost,
			Provider:         c.Provider,
			URL:              c.URL,
			FillsGaps:        fills,
			GapsCount:        len(fills),
			HasPrerequisites: hasPrereq,
			Efficiency:       float64(len(fills)) / float64(c.DurationHours+1),
			Priority:         priority,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HasPrerequisites != out[j].HasPrerequisites {
			return out[i].HasPrerequisites
		}
		return out[i].Efficiency > out[j].Efficiency
	})
	return out
}

// An empty prerequisite list counts as met.
func prerequisitesMet(from []string, userSet map[string]struct{}) bool {
	if len(from) == 0 {
		return true
	}
	for _, id := range from {
		if _, ok := userSet[id]; ok {
			return true
		}
	}
	return false
}
