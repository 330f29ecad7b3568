package handler

import (
	"io"
	"strings"

	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/ingest"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AnalysisHandler struct {
	uc usecase.AnalysisUsecase
}

func NewAnalysisHandler(uc usecase.AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

func (h *AnalysisHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/skills/extract", h.ExtractSkills)
	r.Post("/roles/match", h.MatchRoles)
	r.Post("/bridges/recommend", h.RecommendBridges)
	r.Post("/analyze", h.Analyze)
	r.Post("/resumes/analyze", h.AnalyzeResume)
}

func (h *AnalysisHandler) ExtractSkills(c fiber.Ctx) error {
	var req dto.ExtractSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.ExtractSkills(req.Text))
}

func (h *AnalysisHandler) MatchRoles(c fiber.Ctx) error {
	var req dto.MatchRolesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	res, err := h.uc.MatchRoles(c.Context(), req.SkillIDs, req.Limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AnalysisHandler) RecommendBridges(c fiber.Ctx) error {
	var req dto.RecommendBridgesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	res, err := h.uc.RecommendBridges(req.GapIDs, req.UserSkillIDs, req.Limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	res, err := h.uc.Analyze(c.Context(), req.Text, req.Limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// AnalyzeResume accepts a multipart "file" upload or a JSON reference to a
// stored object.
func (h *AnalysisHandler) AnalyzeResume(c fiber.Ctx) error {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var req dto.ResumeObjectRequest
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
		res, err := h.uc.AnalyzeObject(c.Context(), req.ObjectKey, req.Mime, req.Limit)
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, res)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(err)
	}
	if fh.Size > ingest.MaxDocumentBytes {
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "", nil, ingest.ErrObjectTooLarge)
	}

	mimeType := fh.Header.Get(fiber.HeaderContentType)
	if mimeType == "" || mimeType == fiber.MIMEOctetStream {
		mimeType = ingest.MimeFromFilename(fh.Filename)
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, ingest.MaxDocumentBytes+1))
	if err != nil {
		return badRequest(err)
	}
	if len(data) > ingest.MaxDocumentBytes {
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "", nil, ingest.ErrObjectTooLarge)
	}

	limit := fiber.Query[int](c, "limit", 0)
	res, err := h.uc.AnalyzeDocument(c.Context(), mimeType, data, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
