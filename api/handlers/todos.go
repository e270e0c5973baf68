package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/BinLe1988/soulmap-journal/api/middleware"
	"github.com/BinLe1988/soulmap-journal/database"
	"github.com/BinLe1988/soulmap-journal/models"

	"github.com/gin-gonic/gin"
)

const todoNotFound = "Todo not found"

type TodoHandler struct {
	store  *database.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewTodoHandler(store *database.Store, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{store: store, logger: logger, now: time.Now}
}

// RegisterRoutes 注册路由
func (h *TodoHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	todos := authorized.Group("/todos")
	{
		todos.GET("", h.List)
		todos.POST("", h.Create)
		todos.PUT("/:id", h.Update)
		todos.DELETE("/:id", h.Delete)
	}
}

// List 获取指定日期的待办，默认今天
func (h *TodoHandler) List(c *gin.Context) {
	date := c.Query("target_date")
	if date == "" {
		date = h.now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_date must be YYYY-MM-DD"})
		return
	}

	todos, err := h.store.ListTodos(c.Request.Context(), middleware.CurrentUserID(c), date)
	if err != nil {
		respondStoreError(c, h.logger, err, todoNotFound)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// Create 创建待办
func (h *TodoHandler) Create(c *gin.Context) {
	var req models.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo := models.Todo{
		UserID: middleware.CurrentUserID(c),
		Title:  req.Title,
		Date:   req.Date,
	}
	if err := h.store.CreateTodo(c.Request.Context(), &todo); err != nil {
		respondStoreError(c, h.logger, err, todoNotFound)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Update 更新待办
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseTodoID(c)
	if !ok {
		return
	}

	var req models.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.store.UpdateTodo(c.Request.Context(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		respondStoreError(c, h.logger, err, todoNotFound)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Delete 删除待办
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseTodoID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteTodo(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		respondStoreError(c, h.logger, err, todoNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}

func parseTodoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID"})
		return 0, false
	}
	return uint(id), true
}
