package extractor

import (
	"strings"

	"skill-bridge/internal/domain/skill"
)

// Extractor turns free text into the set of ontology skills it mentions.
type Extractor interface {
	Extract(text string) skill.Set
}

type SkillSource interface {
	Skills() []skill.Skill
}

// SubstringExtractor reports a skill when any of its keywords occurs in the
// lower-cased text. Matching is plain containment with no word boundaries, so
// short keywords can fire inside unrelated words.
type SubstringExtractor struct {
	skills []skill.Skill
}

func NewSubstringExtractor(src SkillSource) *SubstringExtractor {
	if src == nil {
		return &SubstringExtractor{}
	}
	return &SubstringExtractor{skills: src.Skills()}
}

func (e *SubstringExtractor) Extract(text string) skill.Set {
	out := skill.NewSet()
	if e == nil || text == "" {
		return out
	}
	lower := strings.ToLower(text)

	seen := make(map[string]struct{}, len(e.skills))
	for _, s := range e.skills {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		if !containsAny(lower, s.Keywords) {
			continue
		}
		seen[s.ID] = struct{}{}
		switch s.Category {
		case skill.CategorySoft:
			out.SoftSkills = append(out.SoftSkills, s.ID)
		default:
			out.HardSkills = append(out.HardSkills, s.ID)
		}
	}
	return out
}

func containsAny(textLower string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(textLower, kw) {
			return true
		}
	}
	return false
}
