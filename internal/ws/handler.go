package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type SessionLookup interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

type Handler struct {
	hub      *Hub
	sessions SessionLookup
	logger   *logger.Logger
}

func NewHandler(hub *Hub, sessions SessionLookup, log *logger.Logger) *Handler {
	return &Handler{hub: hub, sessions: sessions, logger: log}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/ws/sessions/:id", h.HandleSessionWS)
}

// HandleSessionWS streams events for one session. The current state is sent
// first so late subscribers do not miss a finished analysis.
func (h *Handler) HandleSessionWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.sessions == nil {
		return fiber.ErrServiceUnavailable
	}

	s, err := h.sessions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fiber.ErrNotFound
	}
	snapshot, err := json.Marshal(session.Event{
		SessionID: s.ID,
		Status:    s.Status,
		Message:   s.Message,
		Timestamp: s.UpdatedAt,
	})
	if err != nil {
		return err
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", "session_id", s.ID, "error", err)
			return
		}

		client := NewClient(h.hub, s.ID, conn)
		client.send <- snapshot
		h.hub.Register(s.ID, client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
