package routes

import (
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health   *handler.HealthHandler
	Catalog  *handler.CatalogHandler
	Analysis *handler.AnalysisHandler
	Sessions *handler.SessionHandler
	WS       *ws.Handler
}

type Registry struct {
	h Handlers
}

func NewRegistry(h Handlers) *Registry {
	return &Registry{h: h}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.h.WS != nil {
		r.h.WS.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.h)
}
