package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peace-adamu/inventory-management-system/internal/command"
)

type CommandHandler struct {
	dispatcher *command.Dispatcher
}

func NewCommandHandler(dispatcher *command.Dispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: dispatcher}
}

type commandRequest struct {
	Text string `json:"text" binding:"required"`
}

// Ask runs a natural-language command and returns the rendered reply.
func (h *CommandHandler) Ask(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	cmd, output, err := h.dispatcher.Ask(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err, "command failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":    cmd.Kind,
		"command": cmd,
		"output":  output,
	})
}
