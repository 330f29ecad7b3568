package queue

import (
	"errors"
	"strings"

	"skill-bridge/internal/usecase"
)

var ErrInvalidMessage = errors.New("invalid analysis message")

// AnalysisMessage asks a worker to analyze one session, either from raw text
// or from a stored resume.
type AnalysisMessage struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
	Mime      string `json:"mime,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

func (m AnalysisMessage) Validate() error {
	if strings.TrimSpace(m.SessionID) == "" {
		return errors.Join(ErrInvalidMessage, errors.New("session_id is required"))
	}
	if strings.TrimSpace(m.Text) == "" && strings.TrimSpace(m.ObjectKey) == "" {
		return errors.Join(ErrInvalidMessage, errors.New("text or object_key is required"))
	}
	return nil
}

func (m AnalysisMessage) Request() usecase.AnalyzeRequest {
	return usecase.AnalyzeRequest{
		Text:      m.Text,
		ObjectKey: m.ObjectKey,
		Mime:      m.Mime,
		Limit:     m.Limit,
	}
}

func RoutingKey(sessionID string) string {
	return "session." + sessionID
}
