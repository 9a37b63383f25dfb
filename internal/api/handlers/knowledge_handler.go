package handlers

import (
	"errors"

	"agent-kb/internal/dto"
	"agent-kb/internal/service"
	"agent-kb/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type KnowledgeHandler struct {
	knowledgeService *service.KnowledgeService
	logger           *zap.Logger
}

func NewKnowledgeHandler(knowledgeService *service.KnowledgeService, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledgeService: knowledgeService,
		logger:           logger,
	}
}

// GetKnowledgeBase godoc
// @Summary Get the knowledge base
// @Description Returns the caller's knowledge base with both the structured sections and the compiled text. A business that never saved gets an empty default.
// @Tags knowledge-base
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.KnowledgeBaseResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/knowledge-base [get]
func (h *KnowledgeHandler) GetKnowledgeBase(c *fiber.Ctx) error {
	kb, err := h.knowledgeService.LoadOrDefault(c.UserContext(), middleware.BusinessID(c))
	if err != nil {
		return h.fail(c, err, "Failed to load knowledge base")
	}

	return c.JSON(dto.NewKnowledgeBaseResponse(kb))
}

// SaveKnowledgeBase godoc
// @Summary Save the knowledge base
// @Description Normalizes the submitted title and sections, recompiles the text and stores both. Every field is optional.
// @Tags knowledge-base
// @Accept json
// @Produce json
// @Param request body dto.SaveKnowledgeBaseRequest true "Knowledge base"
// @Security Bearer
// @Success 200 {object} dto.KnowledgeBaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/knowledge-base [put]
func (h *KnowledgeHandler) SaveKnowledgeBase(c *fiber.Ctx) error {
	var req dto.SaveKnowledgeBaseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	kb, err := h.knowledgeService.Save(c.UserContext(), middleware.BusinessID(c), req.Title, req.Sections)
	if err != nil {
		return h.fail(c, err, "Failed to save knowledge base")
	}

	return c.JSON(dto.NewKnowledgeBaseResponse(kb))
}

// GetCompiledText godoc
// @Summary Get the compiled knowledge base text
// @Description Returns the flat document the calling agent ingests.
// @Tags knowledge-base
// @Produce plain
// @Security Bearer
// @Success 200 {string} string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/knowledge-base/compiled [get]
func (h *KnowledgeHandler) GetCompiledText(c *fiber.Ctx) error {
	kb, err := h.knowledgeService.LoadOrDefault(c.UserContext(), middleware.BusinessID(c))
	if err != nil {
		return h.fail(c, err, "Failed to load knowledge base")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(kb.RawText)
}

func (h *KnowledgeHandler) fail(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, service.ErrBusinessNotResolved) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No business associated with this account",
		})
	}
	h.logger.Error(message, zap.String("business_id", middleware.BusinessID(c)), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}
