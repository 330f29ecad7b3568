package seeder

import (
	"context"
	"fmt"

	"skill-bridge/internal/database"
	"skill-bridge/internal/domain/course"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
)

type SkillsSeeder struct {
	Skills []skill.Skill
}

func (SkillsSeeder) Name() string { return "skills" }

func (s SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "keywords", "position"); err != nil {
		return err
	}
	ids := make([]string, 0, len(s.Skills))
	return inTx(ctx, db, func(tx database.Tx) error {
		for i, sk := range s.Skills {
			ids = append(ids, sk.ID)
			if _, err := tx.Exec(ctx, `
INSERT INTO skills (id, name, category, keywords, position, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	category = EXCLUDED.category,
	keywords = EXCLUDED.keywords,
	position = EXCLUDED.position,
	updated_at = now()`,
				sk.ID, sk.Name, string(sk.Category), sk.Keywords, i,
			); err != nil {
				return fmt.Errorf("upsert skill %s: %w", sk.ID, err)
			}
		}
		_, err := tx.Exec(ctx, `DELETE FROM skills WHERE NOT (id = ANY($1))`, ids)
		return err
	})
}

type RolesSeeder struct {
	Roles []role.Role
}

func (RolesSeeder) Name() string { return "roles" }

func (s RolesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "roles", "id", "name", "description", "icon", "required_skills", "soft_skills", "pay_range", "demand", "position"); err != nil {
		return err
	}
	ids := make([]string, 0, len(s.Roles))
	return inTx(ctx, db, func(tx database.Tx) error {
		for i, r := range s.Roles {
			ids = append(ids, r.ID)
			if _, err := tx.Exec(ctx, `
INSERT INTO roles (id, name, description, icon, required_skills, soft_skills, pay_range, demand, position, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	icon = EXCLUDED.icon,
	required_skills = EXCLUDED.required_skills,
	soft_skills = EXCLUDED.soft_skills,
	pay_range = EXCLUDED.pay_range,
	demand = EXCLUDED.demand,
	position = EXCLUDED.position,
	updated_at = now()`,
				r.ID, r.Name, r.Description, r.Icon, nonNil(r.RequiredSkills), nonNil(r.SoftSkills), r.PayRange, string(r.Demand), i,
			); err != nil {
				return fmt.Errorf("upsert role %s: %w", r.ID, err)
			}
		}
		_, err := tx.Exec(ctx, `DELETE FROM roles WHERE NOT (id = ANY($1))`, ids)
		return err
	})
}

type CoursesSeeder struct {
	Courses []course.Course
}

func (CoursesSeeder) Name() string { return "courses" }

func (s CoursesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "courses", "id", "name", "description", "duration_hours", "cost", "provider", "url", "bridges_to", "bridges_from", "position"); err != nil {
		return err
	}
	ids := make([]string, 0, len(s.Courses))
	return inTx(ctx, db, func(tx database.Tx) error {
		for i, c := range s.Courses {
			ids = append(ids, c.ID)
			if _, err := tx.Exec(ctx, `
INSERT INTO courses (id, name, description, duration_hours, cost, provider, url, bridges_to, bridges_from, position, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	duration_hours = EXCLUDED.duration_hours,
	cost = EXCLUDED.cost,
	provider = EXCLUDED.provider,
	url = EXCLUDED.url,
	bridges_to = EXCLUDED.bridges_to,
	bridges_from = EXCLUDED.bridges_from,
	position = EXCLUDED.position,
	updated_at = now()`,
				c.ID, c.Name, c.Description, c.DurationHours, c.Cost, c.Provider, c.URL, nonNil(c.BridgesTo), nonNil(c.BridgesFrom), i,
			); err != nil {
				return fmt.Errorf("upsert course %s: %w", c.ID, err)
			}
		}
		_, err := tx.Exec(ctx, `DELETE FROM courses WHERE NOT (id = ANY($1))`, ids)
		return err
	})
}

func inTx(ctx context.Context, db database.DB, fn func(tx database.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// text[] columns are NOT NULL; pgx encodes a nil slice as NULL.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
