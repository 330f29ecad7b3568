package dto

import (
	"skill-bridge/internal/domain/course"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
)

type SkillResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

type PayRangeResponse struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

type RoleResponse struct {
	RoleID         string            `json:"role_id"`
	RoleName       string            `json:"role_name"`
	Description    string            `json:"description"`
	Icon           string            `json:"icon"`
	RequiredSkills []string          `json:"required_skills"`
	SoftSkills     []string          `json:"soft_skills"`
	PayRange       string            `json:"pay_range"`
	Pay            *PayRangeResponse `json:"pay,omitempty"`
	Demand         string            `json:"demand"`
}

type CourseResponse struct {
	CourseID      string   `json:"course_id"`
	CourseName    string   `json:"course_name"`
	Description   string   `json:"description"`
	DurationHours int      `json:"duration_hours"`
	Cost          float64  `json:"cost"`
	Free          bool     `json:"free"`
	Provider      string   `json:"provider"`
	URL           string   `json:"url"`
	BridgesTo     []string `json:"bridges_to"`
	BridgesFrom   []string `json:"bridges_from"`
}

func NewSkillResponses(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SkillResponse{
			ID:       it.ID,
			Name:     it.Name,
			Category: string(it.Category),
			Keywords: nonNil(it.Keywords),
		})
	}
	return out
}

func NewRoleResponses(items []role.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(items))
	for _, r := range items {
		res := RoleResponse{
			RoleID:         r.ID,
			RoleName:       r.Name,
			Description:    r.Description,
			Icon:           r.Icon,
			RequiredSkills: nonNil(r.RequiredSkills),
			SoftSkills:     nonNil(r.SoftSkills),
			PayRange:       r.PayRange,
			Demand:         string(r.Demand),
		}
		if pay, err := r.Pay(); err == nil {
			res.Pay = &PayRangeResponse{Low: pay.Low, High: pay.High}
		}
		out = append(out, res)
	}
	return out
}

func NewCourseResponses(items []course.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(items))
	for _, c := range items {
		out = append(out, CourseResponse{
			CourseID:      c.ID,
			CourseName:    c.Name,
			Description:   c.Description,
			DurationHours: c.DurationHours,
			Cost:          c.Cost,
			Free:          c.Free(),
			Provider:      c.Provider,
			URL:           c.URL,
			BridgesTo:     nonNil(c.BridgesTo),
			BridgesFrom:   nonNil(c.BridgesFrom),
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
