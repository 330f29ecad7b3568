package ontology

import (
	"errors"
	"fmt"
	"strings"

	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/pkg/document"
)

var ErrInvalidOntology = errors.New("invalid skill ontology")

type Document struct {
	HardSkills []Entry `json:"hard_skills" yaml:"hard_skills"`
	SoftSkills []Entry `json:"soft_skills" yaml:"soft_skills"`
}

type Entry struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Ontology is read-only after construction and safe for concurrent use.
type Ontology struct {
	skills []skill.Skill
	byID   map[string]int
	names  map[string]struct{}
}

func Load(path string) (*Ontology, error) {
	var doc Document
	if err := document.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOntology, err)
	}
	return FromDocument(doc)
}

func FromDocument(doc Document) (*Ontology, error) {
	skills := make([]skill.Skill, 0, len(doc.HardSkills)+len(doc.SoftSkills))
	for _, e := range doc.HardSkills {
		skills = append(skills, e.toSkill(skill.CategoryHard))
	}
	for _, e := range doc.SoftSkills {
		skills = append(skills, e.toSkill(skill.CategorySoft))
	}
	return New(skills)
}

func (e Entry) toSkill(cat skill.Category) skill.Skill {
	return skill.Skill{
		ID:       strings.TrimSpace(e.ID),
		Name:     strings.TrimSpace(e.Name),
		Category: cat,
		Keywords: append([]string{}, e.Keywords...),
	}
}

func New(skills []skill.Skill) (*Ontology, error) {
	o := &Ontology{
		skills: make([]skill.Skill, 0, len(skills)),
		byID:   make(map[string]int, len(skills)),
		names:  make(map[string]struct{}, len(skills)),
	}

	var errs []error
	for i, s := range skills {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("skill #%d: empty id", i))
			continue
		}
		if _, dup := o.byID[s.ID]; dup {
			errs = append(errs, fmt.Errorf("skill %q: duplicate id", s.ID))
			continue
		}
		if s.Category != skill.CategoryHard && s.Category != skill.CategorySoft {
			errs = append(errs, fmt.Errorf("skill %q: unknown category %q", s.ID, s.Category))
			continue
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		kws := make([]string, 0, len(s.Keywords))
		for _, kw := range s.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			kws = append(kws, kw)
		}
		if len(kws) == 0 {
			errs = append(errs, fmt.Errorf("skill %q: no keywords", s.ID))
			continue
		}
		s.Keywords = kws

		o.byID[s.ID] = len(o.skills)
		o.names[s.Name] = struct{}{}
		o.skills = append(o.skills, s)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOntology, errors.Join(errs...))
	}
	return o, nil
}

// Skills returns the skills in ontology order: hard skills first, then soft.
func (o *Ontology) Skills() []skill.Skill {
	if o == nil {
		return nil
	}
	out := make([]skill.Skill, len(o.skills))
	copy(out, o.skills)
	return out
}

func (o *Ontology) Len() int {
	if o == nil {
		return 0
	}
	return len(o.skills)
}

func (o *Ontology) Lookup(id string) (skill.Skill, bool) {
	if o == nil {
		return skill.Skill{}, false
	}
	i, ok := o.byID[id]
	if !ok {
		return skill.Skill{}, false
	}
	return o.skills[i], true
}

func (o *Ontology) Has(id string) bool {
	_, ok := o.Lookup(id)
	return ok
}

// Name resolves an id to its display name, falling back to the id itself.
func (o *Ontology) Name(id string) string {
	if s, ok := o.Lookup(id); ok {
		return s.Name
	}
	return id
}

// IsSkillName reports whether name is the display name of a defined skill.
func (o *Ontology) IsSkillName(name string) bool {
	if o == nil {
		return false
	}
	_, ok := o.names[name]
	return ok
}

func (o *Ontology) Names(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, o.Name(id))
	}
	return out
}

// Unknown lists the ids in ids that the ontology does not define.
func (o *Ontology) Unknown(ids []string) []string {
	var out []string
	for _, id := range ids {
		if !o.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
