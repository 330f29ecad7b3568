package usecase

import (
	"context"
	"testing"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/embedding"
	"skill-bridge/internal/extractor"
	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/session"
)

const resumeText = "Built ETL jobs in Python and SQL, ran regression statistics, " +
	"strong communication and teamwork."

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadFiles(catalog.Paths{
		Ontology: "../../data/skill_ontology.json",
		Roles:    "../../data/role_catalog.json",
		Courses:  "../../data/course_catalog.json",
	}, catalog.Options{Strict: true, Logger: logger.NewNop()})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func newTestAnalysis(t *testing.T, fetcher DocumentFetcher) *Analysis {
	t.Helper()
	c := loadTestCatalog(t)
	agg := matching.NewAggregator(embedding.NewHashProvider(64), c.Ontology)
	return NewAnalysisUsecase(
		extractor.NewSubstringExtractor(c.Ontology),
		agg,
		matching.NewRoleMatcher(c.Roles, agg),
		matching.NewBridgeRecommender(c.Courses),
		fetcher,
		Limits{},
		logger.NewNop(),
	)
}

type fakeFetcher struct {
	data  map[string][]byte
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, key string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data[key], nil
}

type recordingNotifier struct {
	events []session.Event
}

func (r *recordingNotifier) NotifySession(_ context.Context, evt session.Event) error {
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingNotifier) statuses() []session.Status {
	out := make([]session.Status, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Status)
	}
	return out
}
