package handler

import (
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/skills", h.ListSkills)
	r.Get("/roles", h.ListRoles)
	r.Get("/courses", h.ListCourses)
}

func (h *CatalogHandler) ListSkills(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponses(h.uc.Skills()))
}

func (h *CatalogHandler) ListRoles(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoleResponses(h.uc.Roles()))
}

func (h *CatalogHandler) ListCourses(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCourseResponses(h.uc.Courses()))
}
