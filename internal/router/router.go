package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "evidencelens/docs"
	"evidencelens/internal/handler"
	"evidencelens/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Analysis *handler.AnalysisHandler
	Chat     *handler.ChatHandler
	Media    *handler.MediaHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string, maxUploadBytes int64, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and operational endpoints
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	analyses := v1.Group("/analyses")
	analyses.POST("", h.Analysis.Create)
	analyses.GET("", h.Analysis.List)
	analyses.GET("/:id", h.Analysis.GetByID)
	analyses.DELETE("/:id", h.Analysis.Delete)
	analyses.GET("/:id/sources/:index/url", h.Analysis.GetSourceURL)
	analyses.POST("/:id/session", h.Chat.RestoreSession)
	analyses.GET("/:id/turns", h.Chat.ListTurns)
	analyses.POST("/:id/narration", h.Media.Narration)

	v1.POST("/chat/turns", h.Chat.SendTurn)

	v1.POST("/speech", h.Media.Speech)
	v1.POST("/transcriptions", h.Media.Transcribe)
	v1.POST("/images", h.Media.Image)

	return r
}
