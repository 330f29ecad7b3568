package ws

import (
	"context"
	"encoding/json"

	"skill-bridge/internal/session"
)

// NotifySession broadcasts a session event to that session's subscribers.
func (h *Hub) NotifySession(_ context.Context, evt session.Event) error {
	if h == nil {
		return nil
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	h.Broadcast(evt.SessionID, b)
	return nil
}
