package handlers

import (
	"net/http"

	"github.com/BinLe1988/soulmap-journal/pkg/ai"

	"github.com/gin-gonic/gin"
)

// ModelInfo 可用模型
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
}

type SettingsHandler struct {
	client ai.Completer
	model  string
}

func NewSettingsHandler(client ai.Completer, model string) *SettingsHandler {
	return &SettingsHandler{client: client, model: model}
}

// RegisterRoutes 注册路由
func (h *SettingsHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	authorized.GET("/settings/models", h.Models)
}

// Models 列出可用模型，未配置密钥时列表为空
func (h *SettingsHandler) Models(c *gin.Context) {
	models := make([]ModelInfo, 0, 1)
	if h.client.Configured() {
		models = append(models, ModelInfo{
			ID:          h.model,
			Name:        "Gemini",
			Provider:    "google",
			Description: "高速・無料",
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"models":  models,
		"current": h.model,
	})
}
