package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BinLe1988/soulmap-journal/api/middleware"
	"github.com/BinLe1988/soulmap-journal/database"
	"github.com/BinLe1988/soulmap-journal/models"
	"github.com/BinLe1988/soulmap-journal/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	store  *database.Store
	logger *slog.Logger
}

func NewAuthHandler(store *database.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, logger: logger}
}

// RegisterRoutes 注册路由，public 需要挂限流，authorized 已经过认证
func (h *AuthHandler) RegisterRoutes(public, authorized *gin.RouterGroup) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	authorized.GET("/auth/me", h.Me)
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 哈希密码
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}

	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		respondStoreError(c, h.logger, err, "")
		return
	}

	h.respondToken(c, http.StatusOK, &user)
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondStoreError(c, h.logger, err, "")
		return
	}

	// 验证密码
	if !utils.CheckPassword(user.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "User is inactive"})
		return
	}

	h.respondToken(c, http.StatusOK, user)
}

// Me 获取当前用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) respondToken(c *gin.Context, status int, user *models.User) {
	// 生成JWT令牌
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to generate token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(status, models.AuthResponse{AccessToken: token, TokenType: "bearer"})
}
