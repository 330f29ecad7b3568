package routes

import "github.com/gofiber/fiber/v3"

func RegisterV1(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Catalog != nil {
		h.Catalog.RegisterRoutes(r)
	}
	if h.Analysis != nil {
		h.Analysis.RegisterRoutes(r)
	}
	if h.Sessions != nil {
		h.Sessions.RegisterRoutes(r)
	}
}
