package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skill-bridge/internal/domain/course"
	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/ontology"
	"skill-bridge/internal/pkg/document"
	"skill-bridge/internal/pkg/logger"
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrUnknownSkill   = errors.New("unknown skill reference")
)

// Catalog is the reference data every analysis reads. It is immutable after
// Build returns.
type Catalog struct {
	Ontology *ontology.Ontology
	Roles    []role.Role
	Courses  []course.Course
}

type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

type RoleEntry struct {
	RoleID         string   `json:"role_id" yaml:"role_id"`
	RoleName       string   `json:"role_name" yaml:"role_name"`
	Description    string   `json:"description" yaml:"description"`
	Icon           string   `json:"icon" yaml:"icon"`
	RequiredSkills []string `json:"required_skills" yaml:"required_skills"`
	SoftSkills     []string `json:"soft_skills" yaml:"soft_skills"`
	PayRange       string   `json:"pay_range" yaml:"pay_range"`
	Demand         string   `json:"demand" yaml:"demand"`
}

type CourseEntry struct {
	CourseID      string   `json:"course_id" yaml:"course_id"`
	CourseName    string   `json:"course_name" yaml:"course_name"`
	Description   string   `json:"description" yaml:"description"`
	DurationHours int      `json:"duration_hours" yaml:"duration_hours"`
	Cost          float64  `json:"cost" yaml:"cost"`
	Provider      string   `json:"provider" yaml:"provider"`
	URL           string   `json:"url" yaml:"url"`
	BridgesTo     []string `json:"bridges_to" yaml:"bridges_to"`
	BridgesFrom   []string `json:"bridges_from" yaml:"bridges_from"`
}

type Paths struct {
	Ontology string
	Roles    string
	Courses  string
}

type Options struct {
	// Strict rejects roles and courses that reference skills missing from
	// the ontology. Otherwise those references are logged and kept.
	Strict bool
	Logger *logger.Logger
}

func LoadFiles(paths Paths, opts Options) (*Catalog, error) {
	ont, err := ontology.Load(paths.Ontology)
	if err != nil {
		return nil, err
	}

	var roles []RoleEntry
	if err := document.DecodeFile(paths.Roles, &roles); err != nil {
		return nil, fmt.Errorf("%w: roles: %w", ErrInvalidCatalog, err)
	}
	var courses []CourseEntry
	if err := document.DecodeFile(paths.Courses, &courses); err != nil {
		return nil, fmt.Errorf("%w: courses: %w", ErrInvalidCatalog, err)
	}

	return Build(ont, roles, courses, opts)
}

// Build converts raw entries into domain records. Structural problems are
// always fatal; unknown skill references are fatal only in strict mode.
func Build(ont *ontology.Ontology, roleEntries []RoleEntry, courseEntries []CourseEntry, opts Options) (*Catalog, error) {
	if ont == nil {
		return nil, fmt.Errorf("%w: ontology is required", ErrInvalidCatalog)
	}

	var problems, unknown []error

	roles := make([]role.Role, 0, len(roleEntries))
	seenRoles := make(map[string]struct{}, len(roleEntries))
	for i, e := range roleEntries {
		r, errs := buildRole(e)
		if len(errs) > 0 {
			problems = append(problems, prefixed(fmt.Sprintf("role[%d] %q", i, e.RoleID), errs)...)
			continue
		}
		if _, dup := seenRoles[r.ID]; dup {
			problems = append(problems, fmt.Errorf("role[%d]: duplicate role_id %q", i, r.ID))
			continue
		}
		seenRoles[r.ID] = struct{}{}
		for _, id := range ont.Unknown(r.Required()) {
			unknown = append(unknown, fmt.Errorf("%w: role %q references %q", ErrUnknownSkill, r.ID, id))
		}
		roles = append(roles, r)
	}

	courses := make([]course.Course, 0, len(courseEntries))
	seenCourses := make(map[string]struct{}, len(courseEntries))
	for i, e := range courseEntries {
		c, errs := buildCourse(e)
		if len(errs) > 0 {
			problems = append(problems, prefixed(fmt.Sprintf("course[%d] %q", i, e.CourseID), errs)...)
			continue
		}
		if _, dup := seenCourses[c.ID]; dup {
			problems = append(problems, fmt.Errorf("course[%d]: duplicate course_id %q", i, c.ID))
			continue
		}
		seenCourses[c.ID] = struct{}{}
		for _, id := range ont.Unknown(append(append([]string{}, c.BridgesTo...), c.BridgesFrom...)) {
			unknown = append(unknown, fmt.Errorf("%w: course %q references %q", ErrUnknownSkill, c.ID, id))
		}
		courses = append(courses, c)
	}

	if opts.Strict {
		problems = append(problems, unknown...)
	} else {
		for _, err := range unknown {
			opts.Logger.Warn("catalog integrity", "error", err)
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(problems...))
	}

	return &Catalog{Ontology: ont, Roles: roles, Courses: courses}, nil
}

func buildRole(e RoleEntry) (role.Role, []error) {
	var errs []error
	id := strings.TrimSpace(e.RoleID)
	if id == "" {
		errs = append(errs, errors.New("empty role_id"))
	}
	name := strings.TrimSpace(e.RoleName)
	if name == "" {
		name = id
	}
	demand, err := role.ParseDemand(e.Demand)
	if err != nil {
		errs = append(errs, err)
	}
	if _, err := role.ParsePayRange(e.PayRange); err != nil {
		errs = append(errs, err)
	}

	return role.Role{
		ID:             id,
		Name:           name,
		Description:    e.Description,
		Icon:           e.Icon,
		RequiredSkills: trimAll(e.RequiredSkills),
		SoftSkills:     trimAll(e.SoftSkills),
		PayRange:       e.PayRange,
		Demand:         demand,
	}, errs
}

func buildCourse(e CourseEntry) (course.Course, []error) {
	var errs []error
	id := strings.TrimSpace(e.CourseID)
	if id == "" {
		errs = append(errs, errors.New("empty course_id"))
	}
	name := strings.TrimSpace(e.CourseName)
	if name == "" {
		name = id
	}
	if e.DurationHours < 0 {
		errs = append(errs, fmt.Errorf("negative duration_hours %d", e.DurationHours))
	}
	if e.Cost < 0 {
		errs = append(errs, fmt.Errorf("negative cost %v", e.Cost))
	}

	return course.Course{
		ID:            id,
		Name:          name,
		Description:   e.Description,
		DurationHours: e.DurationHours,
		Cost:          e.Cost,
		Provider:      e.Provider,
		URL:           e.URL,
		BridgesTo:     trimAll(e.BridgesTo),
		BridgesFrom:   trimAll(e.BridgesFrom),
	}, errs
}

func (c *Catalog) RoleEntries() []RoleEntry {
	out := make([]RoleEntry, 0, len(c.Roles))
	for _, r := range c.Roles {
		out = append(out, RoleEntry{
			RoleID:         r.ID,
			RoleName:       r.Name,
			Description:    r.Description,
			Icon:           r.Icon,
			RequiredSkills: append([]string{}, r.RequiredSkills...),
			SoftSkills:     append([]string{}, r.SoftSkills...),
			PayRange:       r.PayRange,
			Demand:         string(r.Demand),
		})
	}
	return out
}

func (c *Catalog) CourseEntries() []CourseEntry {
	out := make([]CourseEntry, 0, len(c.Courses))
	for _, co := range c.Courses {
		out = append(out, CourseEntry{
			CourseID:      co.ID,
			CourseName:    co.Name,
			Description:   co.Description,
			DurationHours: co.DurationHours,
			Cost:          co.Cost,
			Provider:      co.Provider,
			URL:           co.URL,
			BridgesTo:     append([]string{}, co.BridgesTo...),
			BridgesFrom:   append([]string{}, co.BridgesFrom...),
		})
	}
	return out
}

func (c *Catalog) Role(id string) (role.Role, bool) {
	for _, r := range c.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return role.Role{}, false
}

func prefixed(prefix string, errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		out = append(out, fmt.Errorf("%s: %w", prefix, err))
	}
	return out
}

func trimAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

type FileSource struct {
	Paths   Paths
	Options Options
}

func NewFileSource(paths Paths, opts Options) *FileSource {
	return &FileSource{Paths: paths, Options: opts}
}

func (s *FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFiles(s.Paths, s.Options)
}
