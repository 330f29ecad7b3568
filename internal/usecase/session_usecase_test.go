package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"skill-bridge/internal/ingest"
	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/session"
)

func newTestSessions(t *testing.T, fetcher DocumentFetcher) (*Sessions, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	u := NewSessionUsecase(session.NewMemoryStore(time.Hour), session.NewMemoryLocker(), newTestAnalysis(t, fetcher), n, logger.NewNop())
	return u, n
}

func TestSessions_CreateAndGet(t *testing.T) {
	u, n := newTestSessions(t, nil)
	ctx := context.Background()

	s, err := u.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.Status != session.StatusPending {
		t.Fatalf("expected pending, got %s", s.Status)
	}

	got, err := u.Get(ctx, s.ID)
	if err != nil || got.ID != s.ID {
		t.Fatalf("get: %v %v", got.ID, err)
	}
	if len(n.events) != 1 || n.events[0].Status != session.StatusPending {
		t.Fatalf("expected a pending event, got %v", n.events)
	}

	if _, err := u.Get(ctx, "not-a-uuid"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := u.Get(ctx, "6f1c2b7e-8a43-4b7a-9d0c-1e2f3a4b5c6d"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessions_Analyze_Completes(t *testing.T) {
	u, n := newTestSessions(t, nil)
	ctx := context.Background()
	s, _ := u.Create(ctx)

	done, err := u.Analyze(ctx, s.ID, AnalyzeRequest{Text: resumeText})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if done.Status != session.StatusCompleted || done.TargetRole == "" || len(done.Matches) == 0 {
		t.Fatalf("unexpected session: %+v", done)
	}

	want := []session.Status{session.StatusPending, session.StatusProcessing, session.StatusCompleted}
	if !reflect.DeepEqual(n.statuses(), want) {
		t.Fatalf("expected events %v, got %v", want, n.statuses())
	}

	stored, _ := u.Get(ctx, s.ID)
	if stored.Status != session.StatusCompleted || stored.TargetRole != done.TargetRole {
		t.Fatalf("stored session differs: %+v", stored)
	}

	again, err := u.Analyze(ctx, s.ID, AnalyzeRequest{Text: "led a team through agile delivery"})
	if err != nil {
		t.Fatalf("re-analyze: %v", err)
	}
	if reflect.DeepEqual(again.Skills, done.Skills) {
		t.Fatalf("expected skills to be replaced on re-analysis")
	}
}

func TestSessions_Analyze_FailureKeepsPreviousResults(t *testing.T) {
	f := &fakeFetcher{data: map[string][]byte{"cv.txt": []byte(resumeText), "blank.txt": []byte(" ")}}
	u, n := newTestSessions(t, f)
	ctx := context.Background()
	s, _ := u.Create(ctx)

	first, err := u.Analyze(ctx, s.ID, AnalyzeRequest{ObjectKey: "cv.txt"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	failed, err := u.Analyze(ctx, s.ID, AnalyzeRequest{ObjectKey: "blank.txt", Mime: ingest.MimePlain})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if failed.Status != session.StatusFailed {
		t.Fatalf("expected failed, got %s", failed.Status)
	}
	if failed.TargetRole != first.TargetRole {
		t.Fatalf("failed analysis must keep previous results")
	}
	if last := n.events[len(n.events)-1]; last.Status != session.StatusFailed || last.Message == "" {
		t.Fatalf("expected failed event with message, got %+v", last)
	}
}

func TestSessions_Analyze_Validation(t *testing.T) {
	u, _ := newTestSessions(t, nil)
	ctx := context.Background()
	s, _ := u.Create(ctx)

	if _, err := u.Analyze(ctx, s.ID, AnalyzeRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := u.Analyze(ctx, "6f1c2b7e-8a43-4b7a-9d0c-1e2f3a4b5c6d", AnalyzeRequest{Text: "python"}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	if ok, _ := u.locker.Lock(ctx, s.ID); !ok {
		t.Fatalf("lock failed")
	}
	if _, err := u.Analyze(ctx, s.ID, AnalyzeRequest{Text: "python"}); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}
	u.locker.Unlock(ctx, s.ID)
}

func TestSessions_Analyze_RecoversStaleProcessing(t *testing.T) {
	u, _ := newTestSessions(t, nil)
	ctx := context.Background()
	s, _ := u.Create(ctx)

	s.Status = session.StatusProcessing
	if err := u.store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	done, err := u.Analyze(ctx, s.ID, AnalyzeRequest{Text: resumeText})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if done.Status != session.StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
}
