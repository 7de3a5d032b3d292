package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/zabbix"
	"github.com/ops-agent/backend/pkg/logger"
)

type HostsHandler struct {
	client *zabbix.Client
}

func NewHostsHandler(client *zabbix.Client) *HostsHandler {
	return &HostsHandler{
		client: client,
	}
}

func (h *HostsHandler) ListHosts(c *fiber.Ctx) error {
	if h.client == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Monitoring API is not configured",
		})
	}

	hosts, err := h.client.GetHosts(c.Context())
	if err != nil {
		logger.Error("Failed to list hosts", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to list hosts",
		})
	}

	return c.JSON(fiber.Map{
		"hosts": hosts,
		"count": len(hosts),
	})
}

func (h *HostsHandler) GetProblems(c *fiber.Ctx) error {
	if h.client == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Monitoring API is not configured",
		})
	}

	host := c.Query("host")

	problems, err := h.client.GetProblems(c.Context(), host)
	if err != nil {
		logger.Error("Failed to list problems", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to list problems",
		})
	}

	return c.JSON(fiber.Map{
		"problems": problems,
	})
}
