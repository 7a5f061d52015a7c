package routes

import (
	"net/http"

	"memo-api/src/config"
	"memo-api/src/interface/handler"
	"memo-api/src/logger"
	"memo-api/src/middleware"
	"memo-api/src/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Memo   *handler.MemoHandler
	Admin  *handler.AdminHandler
	Auth   *handler.AuthHandler
	Health *handler.HealthHandler
}

// Options configures the cross-cutting parts of the router
type Options struct {
	// UploadDir is served under /uploads; empty disables static media
	UploadDir     string
	AllowedOrigin string
	RateLimit     config.RateLimitConfig
	JWTService    service.JWTService
}

// NewRouter builds the gin engine with every API route
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigin))

	r.NoRoute(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("404: ルートが見つかりません")
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "memo-api", "status": "running"})
	})
	r.GET("/health", h.Health.Health)

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	api := r.Group("/api")
	if opts.RateLimit.Enabled {
		api.Use(middleware.RateLimitMiddleware(opts.RateLimit.RequestsPerSecond, opts.RateLimit.Burst))
	}

	memo := api.Group("/memo")
	{
		memo.POST("/register", h.Memo.CreateMemo)
		memo.GET("/", h.Memo.CountMemos)
		memo.GET("/:userId", h.Memo.ListTextMemosByUser)
		memo.GET("/getvoice/:userId", h.Memo.ListVoiceMemosByUser)
		memo.GET("/view/:memoId", h.Memo.ViewMemo)
		memo.DELETE("/deleteTextMemo/:id", h.Memo.DeleteTextMemo)
		memo.DELETE("/deleteVoiceMemo/:id", h.Memo.DeleteVoiceMemo)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/all", h.Admin.ListUsers)
		admin.GET("/allmemos", h.Admin.ListAllMemos)
		admin.GET("/allvoice", h.Admin.ListAllVoiceMemos)
		admin.DELETE("/deleteUser/:userId", h.Admin.DeleteUser)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/", h.Auth.CountUsers)
		auth.GET("/all", h.Auth.ListUsers)
		auth.GET("/me", middleware.AuthMiddleware(opts.JWTService), h.Auth.CurrentUser)
		auth.GET("/:userId", h.Auth.GetUser)
	}

	return r
}
