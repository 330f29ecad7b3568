package usecase

import (
	"skill-bridge/internal/catalog"
	"skill-bridge/internal/domain/course"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
)

type CatalogUsecase interface {
	Skills() []skill.Skill
	Roles() []role.Role
	Courses() []course.Course
}

type Catalog struct {
	c *catalog.Catalog
}

func NewCatalogUsecase(c *catalog.Catalog) *Catalog {
	return &Catalog{c: c}
}

func (u *Catalog) Skills() []skill.Skill {
	if u == nil || u.c == nil || u.c.Ontology == nil {
		return []skill.Skill{}
	}
	return u.c.Ontology.Skills()
}

func (u *Catalog) Roles() []role.Role {
	if u == nil || u.c == nil {
		return []role.Role{}
	}
	return append([]role.Role{}, u.c.Roles...)
}

func (u *Catalog) Courses() []course.Course {
	if u == nil || u.c == nil {
		return []course.Course{}
	}
	return append([]course.Course{}, u.c.Courses...)
}
