package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/chat"
	"github.com/ops-agent/backend/pkg/logger"
)

type ChatHandler struct {
	service *chat.Service
}

func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req struct {
		Message  string `json:"message"`
		UserID   string `json:"user_id"`
		Approved bool   `json:"approved"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	response, err := h.service.Process(c.Context(), chat.Request{
		Message:  req.Message,
		UserID:   req.UserID,
		Approved: req.Approved,
	})
	if err != nil {
		logger.Error("Failed to process message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	return c.JSON(response)
}

func (h *ChatHandler) GetChatHistory(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be an integer",
			})
		}
		limit = parsed
	}

	records, err := h.service.History(userID, limit)
	if err != nil {
		logger.Error("Failed to get chat history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get chat history",
		})
	}

	return c.JSON(fiber.Map{
		"history": records,
	})
}

func (h *ChatHandler) GetStats(c *fiber.Ctx) error {
	counts, err := h.service.IntentCounts(24 * time.Hour)
	if err != nil {
		logger.Error("Failed to aggregate stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to aggregate stats",
		})
	}

	return c.JSON(fiber.Map{
		"period":  "24h",
		"intents": counts,
	})
}

func (h *ChatHandler) HandleFeedback(c *fiber.Ctx) error {
	var req struct {
		QueryID       string `json:"query_id"`
		Helpful       bool   `json:"helpful"`
		IssueCategory string `json:"issue_category"`
		Comment       string `json:"comment"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.QueryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query_id is required",
		})
	}

	if err := h.service.StoreFeedback(req.QueryID, req.Helpful, req.IssueCategory, req.Comment); err != nil {
		logger.Error("Failed to store feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	return c.JSON(fiber.Map{
		"status": "recorded",
	})
}
