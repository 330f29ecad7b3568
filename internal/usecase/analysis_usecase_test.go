package usecase

import (
	"context"
	"errors"
	"slices"
	"testing"

	"skill-bridge/internal/ingest"
)

func TestAnalysis_ExtractSkills(t *testing.T) {
	u := newTestAnalysis(t, nil)
	set := u.ExtractSkills(resumeText)

	for _, id := range []string{"python", "sql", "statistics"} {
		if !slices.Contains(set.HardSkills, id) {
			t.Fatalf("expected hard skill %q in %v", id, set.HardSkills)
		}
	}
	for _, id := range []string{"communication", "teamwork"} {
		if !slices.Contains(set.SoftSkills, id) {
			t.Fatalf("expected soft skill %q in %v", id, set.SoftSkills)
		}
	}
}

func TestAnalysis_MatchRoles_Limits(t *testing.T) {
	u := newTestAnalysis(t, nil)
	ctx := context.Background()

	got, err := u.MatchRoles(ctx, []string{"python", "sql"}, 0)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected default limit 5, got %d", len(got))
	}

	got, err = u.MatchRoles(ctx, []string{"python", "sql"}, 50)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected whole catalog of 10 roles, got %d", len(got))
	}

	for _, limit := range []int{-1, 51} {
		if _, err := u.MatchRoles(ctx, nil, limit); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("limit %d: expected ErrInvalidInput, got %v", limit, err)
		}
	}
}

func TestAnalysis_MatchRoles_EmptyProfileScoresZero(t *testing.T) {
	u := newTestAnalysis(t, nil)
	got, err := u.MatchRoles(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	want := []string{"ml_engineer", "data_scientist", "data_analyst"}
	for i, m := range got {
		if m.CombinedScore != 0 {
			t.Fatalf("%s: expected zero score, got %v", m.RoleID, m.CombinedScore)
		}
		if m.RoleID != want[i] {
			t.Fatalf("expected catalog order %v, got %s at %d", want, m.RoleID, i)
		}
	}
}

func TestAnalysis_RecommendBridges(t *testing.T) {
	u := newTestAnalysis(t, nil)

	got, err := u.RecommendBridges(nil, []string{"python"}, 0)
	if err != nil || len(got) != 0 || got == nil {
		t.Fatalf("expected empty non-nil list, got %v, %v", got, err)
	}

	got, err = u.RecommendBridges([]string{"sql", "docker", "mlops", "spark", "pytorch", "llm"}, []string{"python"}, 2)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(got))
	}

	if _, err := u.RecommendBridges([]string{"sql"}, nil, 100); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalysis_Analyze(t *testing.T) {
	u := newTestAnalysis(t, nil)

	if _, err := u.Analyze(context.Background(), "   ", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	res, err := u.Analyze(context.Background(), resumeText, 3)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(res.Matches))
	}
	best := res.Matches[0]
	if res.TargetRole != best.RoleID {
		t.Fatalf("target role %q is not the best match %q", res.TargetRole, best.RoleID)
	}
	if len(res.Bridges) > 5 {
		t.Fatalf("bridges exceed default limit: %d", len(res.Bridges))
	}
	for _, b := range res.Bridges {
		for _, id := range b.FillsGaps {
			if !slices.Contains(best.Gaps, id) {
				t.Fatalf("course %s fills %q which is not a gap of %s", b.CourseID, id, best.RoleID)
			}
		}
	}

	again, err := u.Analyze(context.Background(), resumeText, 3)
	if err != nil {
		t.Fatalf("analyze again: %v", err)
	}
	for i := range res.Matches {
		if res.Matches[i].RoleID != again.Matches[i].RoleID || res.Matches[i].CombinedScore != again.Matches[i].CombinedScore {
			t.Fatalf("analysis is not deterministic at %d", i)
		}
	}
}

func TestAnalysis_AnalyzeDocument(t *testing.T) {
	u := newTestAnalysis(t, nil)

	res, err := u.AnalyzeDocument(context.Background(), ingest.MimePlain, []byte(resumeText), 0)
	if err != nil {
		t.Fatalf("analyze document: %v", err)
	}
	if !slices.Contains(res.Skills.HardSkills, "python") {
		t.Fatalf("expected python in %v", res.Skills.HardSkills)
	}

	if _, err := u.AnalyzeDocument(context.Background(), "image/png", []byte{1, 2}, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unsupported type, got %v", err)
	}
	if _, err := u.AnalyzeDocument(context.Background(), ingest.MimePlain, []byte("  \n "), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty document, got %v", err)
	}
}

func TestAnalysis_AnalyzeObject(t *testing.T) {
	ctx := context.Background()

	if _, err := newTestAnalysis(t, nil).AnalyzeObject(ctx, "cv.txt", "", 0); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable without storage, got %v", err)
	}

	f := &fakeFetcher{data: map[string][]byte{"resumes/cv.txt": []byte(resumeText)}}
	res, err := newTestAnalysis(t, f).AnalyzeObject(ctx, "resumes/cv.txt", "", 0)
	if err != nil {
		t.Fatalf("analyze object: %v", err)
	}
	if f.calls != 1 || res.TargetRole == "" {
		t.Fatalf("expected one fetch and a target role, got calls=%d target=%q", f.calls, res.TargetRole)
	}

	failing := &fakeFetcher{err: errors.New("connection reset")}
	if _, err := newTestAnalysis(t, failing).AnalyzeObject(ctx, "cv.pdf", "", 0); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}

	if _, err := newTestAnalysis(t, f).AnalyzeObject(ctx, " ", "", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty key, got %v", err)
	}
}

func TestCatalogUsecase(t *testing.T) {
	c := loadTestCatalog(t)
	u := NewCatalogUsecase(c)

	if len(u.Skills()) != c.Ontology.Len() {
		t.Fatalf("expected %d skills, got %d", c.Ontology.Len(), len(u.Skills()))
	}
	roles := u.Roles()
	roles[0].Name = "mutated"
	if c.Roles[0].Name == "mutated" {
		t.Fatalf("roles must be copied")
	}
	if len(u.Courses()) != len(c.Courses) {
		t.Fatalf("course count mismatch")
	}

	var empty *Catalog
	if len(empty.Skills()) != 0 || len(empty.Roles()) != 0 || len(empty.Courses()) != 0 {
		t.Fatalf("nil usecase must return empty lists")
	}
}
