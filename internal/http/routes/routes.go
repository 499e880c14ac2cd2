package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/bootstrap"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/badge"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/certificate"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/learning"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/progress"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/quiz"
	"github.com/mo-amir99/lms-progress-server-go/internal/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/config"
	"github.com/mo-amir99/lms-progress-server-go/pkg/health"
)

// Register wires all feature routes onto the engine. cachePinger may be nil.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, services *bootstrap.Services, cachePinger health.Pinger, logger *slog.Logger) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, cachePinger, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	api := engine.Group("/api")
	auth := middleware.Authenticate(cfg.JWTSecret, logger)

	learning.RegisterRoutes(api, learning.NewHandler(services.Learning, logger), auth)
	progress.RegisterRoutes(api, progress.NewHandler(services.Progress, services.Catalog, logger), auth)
	quiz.RegisterRoutes(api, quiz.NewHandler(services.Quizzes, logger), auth)
	certificate.RegisterRoutes(api, certificate.NewHandler(services.Certificates, services.Catalog, logger), auth)
	badge.RegisterRoutes(api, badge.NewHandler(services.Badges, logger), auth)
}
