package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-backend/internal/config"
	"github.com/ignatzorin/proposal-backend/internal/http/handlers"
	"github.com/ignatzorin/proposal-backend/internal/http/middleware"
)

// SetupRouter собирает все маршруты сервиса.
func SetupRouter(
	cfg *config.Config,
	proposalHandler *handlers.ProposalHandler,
	catalogHandler *handlers.CatalogHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Публичные справочники для первого шага мастера
	api.GET("/templates", catalogHandler.ListTemplates)
	api.GET("/currencies", catalogHandler.ListCurrencies)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.AuthJWTSecret))
	{
		// Генерация лимитируется отдельно: за каждым запросом вызов модели
		generateRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.POST("/generate", generateRateLimit, proposalHandler.Generate)

		protected.GET("/proposals", proposalHandler.List)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Get)
		protected.PATCH("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Update)
		protected.DELETE("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Delete)

		protected.GET("/stats", proposalHandler.Stats)
	}

	return r
}
