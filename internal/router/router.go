package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"declarant/internal/handler"
	"declarant/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	allowedOrigins []string,
	sessionH *handler.SessionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.Get)
	sessions.DELETE("/:id", sessionH.Delete)

	// Document slots
	sessions.PUT("/:id/documents/:role", sessionH.UploadDocument)
	sessions.GET("/:id/documents/:role", sessionH.GetDocument)

	// Analysis and export
	sessions.POST("/:id/analyze", sessionH.Analyze)
	sessions.GET("/:id/result", sessionH.Result)
	sessions.GET("/:id/checks", sessionH.Checks)
	sessions.GET("/:id/sheets", sessionH.Sheets)
	sessions.GET("/:id/workbook", sessionH.Workbook)
	sessions.GET("/:id/goods.csv", sessionH.GoodsCSV)

	return r
}
