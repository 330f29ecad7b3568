package handler

import (
	"context"
	"errors"

	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/queue"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AnalysisEnqueuer interface {
	EnqueueAnalysis(ctx context.Context, msg queue.AnalysisMessage) error
}

type SessionHandler struct {
	uc    usecase.SessionUsecase
	queue AnalysisEnqueuer
}

// NewSessionHandler accepts a nil queue; async requests then fail with 503.
func NewSessionHandler(uc usecase.SessionUsecase, q AnalysisEnqueuer) *SessionHandler {
	return &SessionHandler{uc: uc, queue: q}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/sessions")
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/analyze", h.Analyze)
}

func (h *SessionHandler) Create(c fiber.Ctx) error {
	s, err := h.uc.Create(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, s)
}

func (h *SessionHandler) Get(c fiber.Ctx) error {
	s, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}

func (h *SessionHandler) Analyze(c fiber.Ctx) error {
	var req dto.SessionAnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	if req.Async {
		return h.enqueue(c, req)
	}

	s, err := h.uc.Analyze(c.Context(), c.Params("id"), usecase.AnalyzeRequest{
		Text:      req.Text,
		ObjectKey: req.ObjectKey,
		Mime:      req.Mime,
		Limit:     req.Limit,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}

func (h *SessionHandler) enqueue(c fiber.Ctx, req dto.SessionAnalyzeRequest) error {
	if h.queue == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, queue.ErrQueueDisabled)
	}

	s, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}

	err = h.queue.EnqueueAnalysis(c.Context(), queue.AnalysisMessage{
		SessionID: s.ID,
		Text:      req.Text,
		ObjectKey: req.ObjectKey,
		Mime:      req.Mime,
		Limit:     req.Limit,
	})
	if err != nil {
		if errors.Is(err, queue.ErrInvalidMessage) {
			return middleware.NewAppError(fiber.StatusBadRequest, "text or object_key is required", nil, err)
		}
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, err)
	}
	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, s)
}
