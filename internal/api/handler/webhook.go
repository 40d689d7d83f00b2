package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/freecyberhawk/hakobot/internal/pkg/response"
)

// UpdateHandler consumes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type WebhookHandler struct {
	updates UpdateHandler
}

func NewWebhookHandler(updates UpdateHandler) *WebhookHandler {
	return &WebhookHandler{updates: updates}
}

// Receive decodes an update pushed by Telegram and handles it before
// answering, so Telegram redelivers if the process dies mid-update.
// POST /telegram/webhook/:secret
func (h *WebhookHandler) Receive(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		response.ParamError(c, "malformed update")
		return
	}

	h.updates.HandleUpdate(c.Request.Context(), update)
	response.Success(c, nil)
}
