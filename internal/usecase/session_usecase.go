package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/session"

	"github.com/google/uuid"
)

// AnalyzeRequest carries either raw text or a stored resume reference.
type AnalyzeRequest struct {
	Text      string
	ObjectKey string
	Mime      string
	Limit     int
}

type SessionUsecase interface {
	Create(ctx context.Context) (session.Session, error)
	Get(ctx context.Context, id string) (session.Session, error)
	Analyze(ctx context.Context, id string, req AnalyzeRequest) (session.Session, error)
}

type Sessions struct {
	store    session.Store
	locker   session.Locker
	analysis AnalysisUsecase
	notifier session.Notifier
	logger   *logger.Logger
	now      func() time.Time
}

func NewSessionUsecase(store session.Store, locker session.Locker, analysis AnalysisUsecase, notifier session.Notifier, log *logger.Logger) *Sessions {
	if locker == nil {
		locker = session.NewMemoryLocker()
	}
	return &Sessions{
		store:    store,
		locker:   locker,
		analysis: analysis,
		notifier: notifier,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Sessions) Create(ctx context.Context) (session.Session, error) {
	s := session.New(uuid.NewString(), u.now())
	if err := u.store.Create(ctx, s); err != nil {
		u.logger.Error("create session failed", "error", err)
		return session.Session{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	u.notify(ctx, s, "session created")
	return s, nil
}

func (u *Sessions) Get(ctx context.Context, id string) (session.Session, error) {
	id, err := parseSessionID(id)
	if err != nil {
		return session.Session{}, err
	}
	s, err := u.store.Get(ctx, id)
	if err != nil {
		return session.Session{}, mapStoreError(err)
	}
	return s, nil
}

// Analyze runs the full analysis for a session and stores the result. The
// session ends up completed or failed; a failed session keeps the previous
// results.
func (u *Sessions) Analyze(ctx context.Context, id string, req AnalyzeRequest) (session.Session, error) {
	id, err := parseSessionID(id)
	if err != nil {
		return session.Session{}, err
	}
	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.ObjectKey) == "" {
		return session.Session{}, fmt.Errorf("%w: text or object_key is required", ErrInvalidInput)
	}

	locked, err := u.locker.Lock(ctx, id)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if !locked {
		return session.Session{}, ErrSessionBusy
	}
	defer u.locker.Unlock(ctx, id)

	s, err := u.store.Get(ctx, id)
	if err != nil {
		return session.Session{}, mapStoreError(err)
	}
	if s.Status == session.StatusProcessing {
		// The lock is ours, so no analysis is running; a crashed holder left this.
		u.logger.Warn("recovering stale session", "session_id", id)
		s.Status = session.StatusFailed
	}
	if err := s.Transition(session.StatusProcessing, u.now()); err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrSessionBusy, err)
	}
	s.Message = "analysis started"
	if err := u.store.Save(ctx, s); err != nil {
		return session.Session{}, mapStoreError(err)
	}
	u.notify(ctx, s, s.Message)

	var res AnalysisResult
	if strings.TrimSpace(req.ObjectKey) != "" {
		res, err = u.analysis.AnalyzeObject(ctx, req.ObjectKey, req.Mime, req.Limit)
	} else {
		res, err = u.analysis.Analyze(ctx, req.Text, req.Limit)
	}

	if err != nil {
		_ = s.Transition(session.StatusFailed, u.now())
		s.Message = failureMessage(err)
		u.logger.Warn("session analysis failed", "session_id", id, "error", err)
	} else {
		_ = s.Transition(session.StatusCompleted, u.now())
		s.Message = "analysis completed"
		s.Skills = res.Skills
		s.Matches = res.Matches
		s.TargetRole = res.TargetRole
		s.Bridges = res.Bridges
	}

	if saveErr := u.store.Save(ctx, s); saveErr != nil {
		u.logger.Error("save session failed", "session_id", id, "error", saveErr)
		return session.Session{}, mapStoreError(saveErr)
	}
	u.notify(ctx, s, s.Message)
	return s, err
}

func (u *Sessions) notify(ctx context.Context, s session.Session, msg string) {
	if u.notifier == nil {
		return
	}
	_ = u.notifier.NotifySession(ctx, session.Event{
		SessionID: s.ID,
		Status:    s.Status,
		Message:   msg,
		Timestamp: u.now(),
	})
}

func parseSessionID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", ErrSessionNotFound
	}
	return parsed.String(), nil
}

func mapStoreError(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return ErrSessionNotFound
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	case errors.Is(err, ErrSourceUnavailable):
		return "resume source unavailable"
	default:
		return "analysis failed"
	}
}
