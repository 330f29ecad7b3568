package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/skill"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid session status transition")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Session holds one user's analysis. Stores hand out copies, so concurrent
// sessions never share slices.
type Session struct {
	ID         string                          `json:"id"`
	Status     Status                          `json:"status"`
	Message    string                          `json:"message,omitempty"`
	Skills     skill.Set                       `json:"skills"`
	Matches    []matching.RoleMatch            `json:"matches"`
	TargetRole string                          `json:"target_role,omitempty"`
	Bridges    []matching.CourseRecommendation `json:"bridges"`
	CreatedAt  time.Time                       `json:"created_at"`
	UpdatedAt  time.Time                       `json:"updated_at"`
}

func New(id string, now time.Time) Session {
	return Session{
		ID:        id,
		Status:    StatusPending,
		Skills:    skill.NewSet(),
		Matches:   []matching.RoleMatch{},
		Bridges:   []matching.CourseRecommendation{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the session to next or reports ErrInvalidTransition.
// A finished session may be analyzed again.
func (s *Session) Transition(next Status, now time.Time) error {
	ok := false
	switch s.Status {
	case StatusPending, StatusCompleted, StatusFailed:
		ok = next == StatusProcessing
	case StatusProcessing:
		ok = next == StatusCompleted || next == StatusFailed
	}
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, next)
	}
	s.Status = next
	s.UpdatedAt = now
	return nil
}

func (s Session) Clone() Session {
	out := s
	out.Skills = s.Skills.Clone()

	out.Matches = make([]matching.RoleMatch, len(s.Matches))
	for i, m := range s.Matches {
		m.Gaps = append([]string{}, m.Gaps...)
		m.MatchedSkills = append([]string{}, m.MatchedSkills...)
		out.Matches[i] = m
	}

	out.Bridges = make([]matching.CourseRecommendation, len(s.Bridges))
	for i, b := range s.Bridges {
		b.FillsGaps = append([]string{}, b.FillsGaps...)
		out.Bridges[i] = b
	}
	return out
}

type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
}
