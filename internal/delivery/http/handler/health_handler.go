package handler

import (
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	catalog usecase.CatalogUsecase
	model   string
	cache   func() bool
}

type healthResponse struct {
	Status         string `json:"status"`
	Skills         int    `json:"skills"`
	Roles          int    `json:"roles"`
	Courses        int    `json:"courses"`
	EmbeddingModel string `json:"embedding_model"`
	Cache          bool   `json:"cache"`
}

// NewHealthHandler reports catalog sizes, the embedding model and whether the
// shared cache is reachable.
func NewHealthHandler(catalog usecase.CatalogUsecase, model string, cache func() bool) *HealthHandler {
	return &HealthHandler{catalog: catalog, model: model, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	out := healthResponse{Status: "ok", EmbeddingModel: h.model}
	if h.catalog != nil {
		out.Skills = len(h.catalog.Skills())
		out.Roles = len(h.catalog.Roles())
		out.Courses = len(h.catalog.Courses())
	}
	if h.cache != nil {
		out.Cache = h.cache()
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
