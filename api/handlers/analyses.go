package handlers

import (
	"log/slog"
	"net/http"

	"github.com/BinLe1988/soulmap-journal/api/middleware"
	"github.com/BinLe1988/soulmap-journal/database"
	"github.com/BinLe1988/soulmap-journal/models"
	"github.com/BinLe1988/soulmap-journal/pkg/ai"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	store        *database.Store
	analyzer     *ai.Analyzer
	aggregator   *ai.Aggregator
	modelVersion string
	logger       *slog.Logger
}

func NewAnalysisHandler(store *database.Store, client ai.Completer, modelVersion string, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		store:        store,
		analyzer:     ai.NewAnalyzer(client, logger),
		aggregator:   ai.NewAggregator(client, logger),
		modelVersion: modelVersion,
		logger:       logger,
	}
}

// RegisterRoutes 注册路由
func (h *AnalysisHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	analyses := authorized.Group("/analyses")
	{
		analyses.POST("/create", h.Create)
		analyses.GET("/post/:post_id", h.GetForPost)
		analyses.GET("/user/summary", h.UserSummary)
	}
}

// Create 分析投稿并保存结果
func (h *AnalysisHandler) Create(c *gin.Context) {
	var req models.CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	post, err := h.store.GetPost(ctx, req.PostID, userID)
	if err != nil {
		respondStoreError(c, h.logger, err, postNotFound)
		return
	}

	result, tokens, err := h.analyzer.Analyze(ctx, post.Title, post.Content)
	if err != nil {
		respondAIError(c, h.logger, err)
		return
	}

	analysis, err := models.NewAnalysis(post.ID, userID, result, tokens, h.modelVersion)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode analysis"})
		return
	}
	if err := h.store.CreateAnalysis(ctx, analysis); err != nil {
		respondStoreError(c, h.logger, err, postNotFound)
		return
	}

	h.logger.InfoContext(ctx, "post analyzed", "post_id", post.ID, "tokens_used", tokens)
	c.JSON(http.StatusOK, analysis)
}

// GetForPost 获取投稿最新的分析结果，不调用模型
func (h *AnalysisHandler) GetForPost(c *gin.Context) {
	postID, ok := parseUUIDParam(c, "post_id", "Invalid post ID")
	if !ok {
		return
	}

	analysis, err := h.store.LatestAnalysisForPost(c.Request.Context(), postID, middleware.CurrentUserID(c))
	if err != nil {
		respondStoreError(c, h.logger, err, "Analysis not found")
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// UserSummary 根据最近的分析生成用户整体倾向
func (h *AnalysisHandler) UserSummary(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	analyses, err := h.store.RecentAnalyses(ctx, userID, ai.MaxSummaries)
	if err != nil {
		respondStoreError(c, h.logger, err, "")
		return
	}
	total, err := h.store.CountAnalyses(ctx, userID)
	if err != nil {
		respondStoreError(c, h.logger, err, "")
		return
	}

	summaries := make([]string, 0, len(analyses))
	for i := range analyses {
		summaries = append(summaries, analyses[i].Summary())
	}

	summary, err := h.aggregator.Summarize(ctx, ai.JoinSummaries(summaries))
	if err != nil {
		respondAIError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.UserSummaryResponse{
		UserID:             userID,
		TotalPostsAnalyzed: total,
		Summary:            summary,
	})
}
