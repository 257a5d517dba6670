package http

import (
	"github.com/deds0099/nexaapp/config"
	"github.com/deds0099/nexaapp/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, validator TokenValidator, m *metrics.Metrics) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Multipart parts beyond this stay on disk instead of memory
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(validator))
	{
		v1.POST("/scans", handler.AnalyzeScan)

		diets := v1.Group("/diets")
		{
			diets.POST("", handler.GenerateDiet)
			diets.GET("", handler.ListDiets)
			diets.GET("/:id", handler.GetDiet)
			diets.DELETE("/:id", handler.DeleteDiet)
		}
	}

	return router
}
