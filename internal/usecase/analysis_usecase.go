package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/skill"
	"skill-bridge/internal/extractor"
	"skill-bridge/internal/ingest"
	"skill-bridge/internal/pkg/logger"
)

// MaxLimit caps caller supplied result limits.
const MaxLimit = 50

type AnalysisResult struct {
	Skills     skill.Set                       `json:"skills"`
	Matches    []matching.RoleMatch            `json:"matches"`
	TargetRole string                          `json:"target_role,omitempty"`
	Bridges    []matching.CourseRecommendation `json:"bridges"`
}

type AnalysisUsecase interface {
	ExtractSkills(text string) skill.Set
	MatchRoles(ctx context.Context, skillIDs []string, limit int) ([]matching.RoleMatch, error)
	RecommendBridges(gapIDs, userSkillIDs []string, limit int) ([]matching.CourseRecommendation, error)
	Analyze(ctx context.Context, text string, limit int) (AnalysisResult, error)
	AnalyzeDocument(ctx context.Context, mimeType string, data []byte, limit int) (AnalysisResult, error)
	AnalyzeObject(ctx context.Context, key, mimeType string, limit int) (AnalysisResult, error)
}

type DocumentFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type Limits struct {
	Match  int
	Bridge int
}

type Analysis struct {
	extractor extractor.Extractor
	profiles  *matching.Aggregator
	roles     *matching.RoleMatcher
	bridges   *matching.BridgeRecommender
	fetcher   DocumentFetcher
	limits    Limits
	logger    *logger.Logger
}

func NewAnalysisUsecase(
	ext extractor.Extractor,
	profiles *matching.Aggregator,
	roles *matching.RoleMatcher,
	bridges *matching.BridgeRecommender,
	fetcher DocumentFetcher,
	limits Limits,
	log *logger.Logger,
) *Analysis {
	if limits.Match <= 0 {
		limits.Match = matching.DefaultLimit
	}
	if limits.Bridge <= 0 {
		limits.Bridge = matching.DefaultLimit
	}
	return &Analysis{
		extractor: ext,
		profiles:  profiles,
		roles:     roles,
		bridges:   bridges,
		fetcher:   fetcher,
		limits:    limits,
		logger:    log,
	}
}

func (u *Analysis) ExtractSkills(text string) skill.Set {
	return u.extractor.Extract(text)
}

func (u *Analysis) MatchRoles(ctx context.Context, skillIDs []string, limit int) ([]matching.RoleMatch, error) {
	limit, err := normalizeLimit(limit, u.limits.Match)
	if err != nil {
		return nil, err
	}

	listed := trimIDs(skillIDs)
	vec, err := u.profiles.EmbedProfile(ctx, listed)
	if err != nil {
		u.logger.Error("embed profile failed", "skills", len(listed), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	matches, err := u.roles.Match(ctx, vec, skill.Unique(listed), limit)
	if err != nil {
		u.logger.Error("match roles failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return matches, nil
}

func (u *Analysis) RecommendBridges(gapIDs, userSkillIDs []string, limit int) ([]matching.CourseRecommendation, error) {
	limit, err := normalizeLimit(limit, u.limits.Bridge)
	if err != nil {
		return nil, err
	}
	recs := u.bridges.Recommend(skill.Unique(trimIDs(gapIDs)), skill.Unique(trimIDs(userSkillIDs)))
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Analyze runs extraction, role matching and bridge recommendation for the
// best matching role.
func (u *Analysis) Analyze(ctx context.Context, text string, limit int) (AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return AnalysisResult{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	set := u.ExtractSkills(text)
	userSkills := set.All()

	matches, err := u.MatchRoles(ctx, userSkills, limit)
	if err != nil {
		return AnalysisResult{}, err
	}

	res := AnalysisResult{
		Skills:  set,
		Matches: matches,
		Bridges: []matching.CourseRecommendation{},
	}
	if len(matches) == 0 {
		return res, nil
	}

	best := matches[0]
	res.TargetRole = best.RoleID
	res.Bridges, err = u.RecommendBridges(best.Gaps, userSkills, 0)
	if err != nil {
		return AnalysisResult{}, err
	}

	u.logger.Debug("analysis completed",
		"hard_skills", len(set.HardSkills),
		"soft_skills", len(set.SoftSkills),
		"target_role", best.RoleID,
		"bridges", len(res.Bridges),
	)
	return res, nil
}

func (u *Analysis) AnalyzeDocument(ctx context.Context, mimeType string, data []byte, limit int) (AnalysisResult, error) {
	text, err := ingest.Ingest(mimeType, data)
	if err != nil {
		if !errors.Is(err, ingest.ErrUnsupportedType) && !errors.Is(err, ingest.ErrEmptyDocument) {
			u.logger.Warn("resume text extraction failed", "mime", mimeType, "error", err)
		}
		return AnalysisResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return u.Analyze(ctx, text, limit)
}

func (u *Analysis) AnalyzeObject(ctx context.Context, key, mimeType string, limit int) (AnalysisResult, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return AnalysisResult{}, fmt.Errorf("%w: object key is required", ErrInvalidInput)
	}
	if mimeType == "" {
		mimeType = ingest.MimeFromFilename(key)
	}
	if u.fetcher == nil {
		return AnalysisResult{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, ingest.ErrStorageDisabled)
	}

	data, err := u.fetcher.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, ingest.ErrObjectTooLarge) {
			return AnalysisResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		u.logger.Warn("resume download failed", "key", key, "error", err)
		return AnalysisResult{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return u.AnalyzeDocument(ctx, mimeType, data, limit)
}

// normalizeLimit maps 0 to def and rejects negative or oversized limits.
func normalizeLimit(limit, def int) (int, error) {
	switch {
	case limit == 0:
		return def, nil
	case limit < 0 || limit > MaxLimit:
		return 0, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	default:
		return limit, nil
	}
}

func trimIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strings.TrimSpace(id))
	}
	return out
}
