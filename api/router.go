package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BinLe1988/soulmap-journal/api/handlers"
	"github.com/BinLe1988/soulmap-journal/api/middleware"
	"github.com/BinLe1988/soulmap-journal/configs"
	"github.com/BinLe1988/soulmap-journal/database"
	"github.com/BinLe1988/soulmap-journal/pkg/ai"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps 路由依赖
type Deps struct {
	Config *configs.Config
	Store  *database.Store
	AI     ai.Completer
	// Model 记录到分析结果里的模型版本
	Model  string
	Logger *slog.Logger
}

// NewRouter 创建Gin实例并设置API路由，ctx 结束时释放限流器
func NewRouter(ctx context.Context, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger))
	router.Use(cors.New(corsConfig(deps.Config.Server.CORSOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static(handlers.UploadURLPrefix, deps.Config.Server.UploadDir)

	limiter := middleware.NewRateLimiter(ctx,
		rate.Limit(deps.Config.RateLimit.AuthRPS), deps.Config.RateLimit.AuthBurst)

	// 公共API
	public := router.Group("/api/v1")
	public.Use(limiter.Middleware())

	// 需要认证的API
	authorized := router.Group("/api/v1")
	authorized.Use(middleware.Auth(deps.Store))

	handlers.NewAuthHandler(deps.Store, deps.Logger).RegisterRoutes(public, authorized)
	handlers.NewPostHandler(deps.Store, deps.Logger).RegisterRoutes(authorized)
	handlers.NewTodoHandler(deps.Store, deps.Logger).RegisterRoutes(authorized)
	handlers.NewUploadHandler(deps.Config.Server.UploadDir, deps.Logger).RegisterRoutes(authorized)
	handlers.NewAnalysisHandler(deps.Store, deps.AI, deps.Model, deps.Logger).RegisterRoutes(authorized)
	handlers.NewChatHandler(deps.AI, deps.Logger).RegisterRoutes(authorized)
	handlers.NewSettingsHandler(deps.AI, deps.Model).RegisterRoutes(authorized)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
