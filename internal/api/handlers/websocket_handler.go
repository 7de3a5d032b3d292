package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/chat"
	"github.com/ops-agent/backend/internal/metrics"
	"github.com/ops-agent/backend/pkg/logger"
)

type WebSocketHandler struct {
	service *chat.Service
}

func NewWebSocketHandler(service *chat.Service) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")
	metrics.WebsocketConnections.Inc()

	defer func() {
		c.Close()
		metrics.WebsocketConnections.Dec()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type     string `json:"type"`
			Content  string `json:"content"`
			UserID   string `json:"user_id"`
			Approved bool   `json:"approved"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "message" {
			continue
		}

		logger.Info("Processing WebSocket message", zap.String("message", msg.Content))

		err = h.streamResponse(c, chat.Request{
			Message:  msg.Content,
			UserID:   msg.UserID,
			Approved: msg.Approved,
		})
		if err != nil {
			logger.Error("Failed to stream response", zap.Error(err))
			h.sendError(c, "Failed to process message")
		}
	}
}

// streamResponse sends the narrative word by word, then a final frame
// carrying the full structured response.
func (h *WebSocketHandler) streamResponse(c *websocket.Conn, req chat.Request) error {
	h.sendChunk(c, "status", "Analisando consulta...")

	response, err := h.service.Process(context.Background(), req)
	if err != nil {
		return err
	}

	words := strings.Fields(response.Narrative)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}

		if err := h.sendChunk(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":     "complete",
		"response": response,
	})
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}
