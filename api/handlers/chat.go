package handlers

import (
	"log/slog"
	"net/http"

	"github.com/BinLe1988/soulmap-journal/models"
	"github.com/BinLe1988/soulmap-journal/pkg/ai"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	drafter *ai.Drafter
	logger  *slog.Logger
}

func NewChatHandler(client ai.Completer, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{drafter: ai.NewDrafter(client, logger), logger: logger}
}

// RegisterRoutes 注册路由
func (h *ChatHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	chat := authorized.Group("/chat")
	{
		chat.POST("/message", h.Message)
		chat.POST("/summarize", h.Summarize)
	}
}

// Message 根据对话历史生成下一条回复
func (h *ChatHandler) Message(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.drafter.Reply(c.Request.Context(), req.Messages)
	if err != nil {
		respondAIError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Summarize 把对话整理成日记草稿
func (h *ChatHandler) Summarize(c *gin.Context) {
	var req models.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.drafter.Draft(c.Request.Context(), req.Messages)
	if err != nil {
		respondAIError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}
