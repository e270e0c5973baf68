package handlers

import (
	"log/slog"
	"net/http"

	"github.com/BinLe1988/soulmap-journal/api/middleware"
	"github.com/BinLe1988/soulmap-journal/database"
	"github.com/BinLe1988/soulmap-journal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const postNotFound = "Post not found"

type PostHandler struct {
	store  *database.Store
	logger *slog.Logger
}

func NewPostHandler(store *database.Store, logger *slog.Logger) *PostHandler {
	return &PostHandler{store: store, logger: logger}
}

// RegisterRoutes 注册路由
func (h *PostHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	posts := authorized.Group("/posts")
	{
		posts.GET("", h.List)
		posts.POST("", h.Create)
		posts.GET("/:id", h.Get)
		posts.PUT("/:id", h.Update)
		posts.DELETE("/:id", h.Delete)
	}
}

// List 分页获取投稿
func (h *PostHandler) List(c *gin.Context) {
	var q models.PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	posts, total, err := h.store.ListPosts(c.Request.Context(), middleware.CurrentUserID(c), q)
	if err != nil {
		respondStoreError(c, h.logger, err, postNotFound)
		return
	}

	page, perPage := database.NormalizePage(q.Page, q.PerPage)
	c.JSON(http.StatusOK, models.PostListResponse{
		Posts:   posts,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Create 创建投稿
func (h *PostHandler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		UserID:  middleware.CurrentUserID(c),
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
	}
	post.SetImageURLs(req.ImageURLs)

	if err := h.store.CreatePost(c.Request.Context(), &post); err != nil {
		respondStoreError(c, h.logger, err, postNotFound)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Get 获取单篇投稿
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "Invalid post ID")
	if !ok {
		return
	}

	post, err := h.store.GetPost(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondStoreError(c, h.logger, err, postNotFound)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update 更新投稿
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "Invalid post ID")
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.store.UpdatePost(c.Request.Context(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		respondStoreError(c, h.logger, err, postNotFound)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete 删除投稿
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "Invalid post ID")
	if !ok {
		return
	}

	if err := h.store.DeletePost(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		respondStoreError(c, h.logger, err, postNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func parseUUIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return uuid.Nil, false
	}
	return id, true
}
