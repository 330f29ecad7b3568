package repository

import (
	"context"
	"fmt"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/database"
	"skill-bridge/internal/ontology"
)

// CatalogRepository reads the reference catalog from the tables filled by
// cmd/seed. Rows come back in seeded document order.
type CatalogRepository interface {
	OntologyDocument(ctx context.Context) (ontology.Document, error)
	RoleEntries(ctx context.Context) ([]catalog.RoleEntry, error)
	CourseEntries(ctx context.Context) ([]catalog.CourseEntry, error)
}

type PostgresCatalogRepository struct {
	db   database.DB
	opts catalog.Options
}

func NewPostgresCatalogRepository(db database.DB, opts catalog.Options) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db, opts: opts}
}

// Load satisfies catalog.Source.
func (r *PostgresCatalogRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	doc, err := r.OntologyDocument(ctx)
	if err != nil {
		return nil, err
	}
	ont, err := ontology.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	roles, err := r.RoleEntries(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := r.CourseEntries(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Build(ont, roles, courses, r.opts)
}

func (r *PostgresCatalogRepository) OntologyDocument(ctx context.Context) (ontology.Document, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category, keywords FROM skills ORDER BY position ASC, id ASC`)
	if err != nil {
		return ontology.Document{}, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	doc := ontology.Document{HardSkills: []ontology.Entry{}, SoftSkills: []ontology.Entry{}}
	for rows.Next() {
		var (
			e        ontology.Entry
			category string
		)
		if err := rows.Scan(&e.ID, &e.Name, &category, &e.Keywords); err != nil {
			return ontology.Document{}, err
		}
		switch category {
		case "hard":
			doc.HardSkills = append(doc.HardSkills, e)
		case "soft":
			doc.SoftSkills = append(doc.SoftSkills, e)
		default:
			return ontology.Document{}, fmt.Errorf("%w: skill %q has category %q", ontology.ErrInvalidOntology, e.ID, category)
		}
	}
	if err := rows.Err(); err != nil {
		return ontology.Document{}, err
	}
	return doc, nil
}

func (r *PostgresCatalogRepository) RoleEntries(ctx context.Context) ([]catalog.RoleEntry, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, name, description, icon, required_skills, soft_skills, pay_range, demand
FROM roles
ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.RoleEntry, 0)
	for rows.Next() {
		var e catalog.RoleEntry
		if err := rows.Scan(&e.RoleID, &e.RoleName, &e.Description, &e.Icon, &e.RequiredSkills, &e.SoftSkills, &e.PayRange, &e.Demand); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCatalogRepository) CourseEntries(ctx context.Context) ([]catalog.CourseEntry, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, name, description, duration_hours, cost, provider, url, bridges_to, bridges_from
FROM courses
ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.CourseEntry, 0)
	for rows.Next() {
		var e catalog.CourseEntry
		if err := rows.Scan(&e.CourseID, &e.CourseName, &e.Description, &e.DurationHours, &e.Cost, &e.Provider, &e.URL, &e.BridgesTo, &e.BridgesFrom); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
