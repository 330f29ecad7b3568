package session

import (
	"context"
	"time"

	"skill-bridge/internal/pkg/logger"
)

// Event is the status update pushed to websocket clients and the session
// exchange.
type Event struct {
	SessionID string    `json:"session_id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier interface {
	NotifySession(ctx context.Context, evt Event) error
}

// Fanout delivers an event to every notifier. Failures are logged and never
// block the analysis.
type Fanout struct {
	notifiers []Notifier
	logger    *logger.Logger
}

func NewFanout(log *logger.Logger, notifiers ...Notifier) *Fanout {
	out := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return &Fanout{notifiers: out, logger: log}
}

func (f *Fanout) NotifySession(ctx context.Context, evt Event) error {
	if f == nil {
		return nil
	}
	for _, n := range f.notifiers {
		if err := n.NotifySession(ctx, evt); err != nil {
			f.logger.Warn("session notify failed", "session_id", evt.SessionID, "status", evt.Status, "error", err)
		}
	}
	return nil
}
