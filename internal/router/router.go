package router

import (
	"time"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/auth"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/extraction"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/imagegen"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth       *auth.Handler
	Extraction *extraction.Handler
	ImageGen   *imagegen.Handler
}

func New(h Handlers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	menu := r.Group("/menu")
	menu.Use(middleware.AuthMiddleware())
	{
		menu.POST("/extract", h.Extraction.Extract)
		menu.POST("/preview", h.Extraction.Preview)
	}

	menus := r.Group("/menus")
	menus.Use(middleware.AuthMiddleware())
	{
		menus.POST("/upload", h.Extraction.Upload)
		menus.GET("/:id/status", h.Extraction.GetStatus)
		menus.POST("/:id/retry", h.Extraction.Retry)
	}

	images := r.Group("/images")
	images.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole("MERCHANT", "ADMIN"),
	)
	{
		images.POST("/generate", h.ImageGen.Generate)
	}

	return r
}
