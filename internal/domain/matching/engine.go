package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"skill-bridge/internal/domain/role"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/embedding"
)

const (
	SimilarityWeight = 0.7
	CoverageWeight   = 0.3

	DefaultLimit = 5
	// NoLimit returns every role.
	NoLimit = -1

	warmConcurrency = 4
)

type RoleMatch struct {
	RoleID        string      `json:"role_id"`
	RoleName      string      `json:"role_name"`
	Description   string      `json:"description"`
	Icon          string      `json:"icon"`
	Similarity    float64     `json:"similarity"`
	Coverage      float64     `json:"coverage"`
	CombinedScore float64     `json:"combined_score"`
	Gaps          []string    `json:"gaps"`
	MatchedSkills []string    `json:"matched_skills"`
	PayRange      string      `json:"pay_range"`
	Demand        role.Demand `json:"demand"`
}

// RoleMatcher ranks a fixed role catalog against a user profile. Role
// vectors are computed once and reused.
type RoleMatcher struct {
	roles []role.Role
	agg   *Aggregator

	mu      sync.RWMutex
	vectors map[string]embedding.Vector
}

func NewRoleMatcher(roles []role.Role, agg *Aggregator) *RoleMatcher {
	return &RoleMatcher{
		roles:   append([]role.Role(nil), roles...),
		agg:     agg,
		vectors: make(map[string]embedding.Vector, len(roles)),
	}
}

func (m *RoleMatcher) Roles() []role.Role {
	return append([]role.Role(nil), m.roles...)
}

// Warm embeds every role profile concurrently. Match gives the same ranking
// whether or not Warm ran first.
func (m *RoleMatcher) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, r := range m.roles {
		g.Go(func() error {
			_, err := m.roleVector(gctx, r)
			return err
		})
	}
	return g.Wait()
}

func (m *RoleMatcher) roleVector(ctx context.Context, r role.Role) (embedding.Vector, error) {
	m.mu.RLock()
	v, ok := m.vectors[r.ID]
	m.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := m.agg.EmbedProfile(ctx, r.Listed())
	if err != nil {
		return nil, fmt.Errorf("embed role %s: %w", r.ID, err)
	}

	m.mu.Lock()
	m.vectors[r.ID] = v
	m.mu.Unlock()
	return v, nil
}

// Match scores every role as 0.7*similarity + 0.3*coverage and returns the
// best limit of them. limit 0 means DefaultLimit; a negative limit returns
// all roles. Equal scores keep catalog order.
func (m *RoleMatcher) Match(ctx context.Context, userVec embedding.Vector, userSkills []string, limit int) ([]RoleMatch, error) {
	if len(userVec) != m.agg.Dimensions() {
		return nil, fmt.Errorf("%w: user vector has %d, want %d", embedding.ErrDimensionMismatch, len(userVec), m.agg.Dimensions())
	}

	userSet := skill.Index(userSkills)
	out := make([]RoleMatch, 0, len(m.roles))
	for _, r := range m.roles {
		roleVec, err := m.roleVector(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, score(r, userVec, roleVec, userSet))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CombinedScore > out[j].CombinedScore
	})

	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func score(r role.Role, userVec, roleVec embedding.Vector, userSet map[string]struct{}) RoleMatch {
	required := r.Required()
	matched := make([]string, 0, len(required))
	gaps := make([]string, 0, len(required))
	for _, id := range required {
		if _, ok := userSet[id]; ok {
			matched = append(matched, id)
			continue
		}
		gaps = append(gaps, id)
	}

	similarity := clamp01(Cosine(userVec, roleVec))
	coverage := 0.0
	if len(required) > 0 {
		coverage = float64(len(matched)) / float64(len(required))
	}

	return RoleMatch{
		RoleID:        r.ID,
		RoleName:      r.Name,
		Description:   r.Description,
		Icon:          r.Icon,
		Similarity:    similarity,
		Coverage:      coverage,
		CombinedScore: SimilarityWeight*similarity + CoverageWeight*coverage,
		Gaps:          gaps,
		MatchedSkills: matched,
		PayRange:      r.PayRange,
		Demand:        r.Demand,
	}
}
