package seeder

import "skill-bridge/internal/catalog"

// ForCatalog seeds skills before roles and courses, which reference them.
func ForCatalog(c *catalog.Catalog) []Seeder {
	if c == nil {
		return nil
	}
	return []Seeder{
		SkillsSeeder{Skills: c.Ontology.Skills()},
		RolesSeeder{Roles: c.Roles},
		CoursesSeeder{Courses: c.Courses},
	}
}
