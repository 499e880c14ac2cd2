package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/lms-progress-server-go/internal/bootstrap"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/badge"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/notification"
	"github.com/mo-amir99/lms-progress-server-go/internal/http/routes"
	"github.com/mo-amir99/lms-progress-server-go/pkg/clock"
	"github.com/mo-amir99/lms-progress-server-go/pkg/config"
	"github.com/mo-amir99/lms-progress-server-go/pkg/database"
	"github.com/mo-amir99/lms-progress-server-go/pkg/email"
	"github.com/mo-amir99/lms-progress-server-go/pkg/jobs"
	"github.com/mo-amir99/lms-progress-server-go/pkg/logger"
	"github.com/mo-amir99/lms-progress-server-go/pkg/metrics"
	"github.com/mo-amir99/lms-progress-server-go/pkg/middleware"
	"github.com/mo-amir99/lms-progress-server-go/pkg/request"
	socketioserver "github.com/mo-amir99/lms-progress-server-go/pkg/socketio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	if err := bootstrap.ApplyDatabaseMigrations(ctx, db, cfg, appLogger); err != nil {
		appLogger.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheClient := bootstrap.NewCache(cfg.Redis, appLogger)
	defer cacheClient.Close()

	emailClient := email.NewClient(
		cfg.Email.Host,
		cfg.Email.Port,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.From,
		cfg.Email.Secure,
	)

	var (
		socketIOServer *socketioserver.Server
		emitter        notification.Emitter
	)
	if cfg.Realtime.Enabled {
		socketIOServer = socketioserver.NewServer(appLogger, cfg.JWTSecret)
		defer socketIOServer.Close()
		emitter = socketIOServer
		appLogger.Info("socket.io server initialized")
	}

	services := bootstrap.NewServices(bootstrap.Deps{
		Config:  cfg,
		DB:      db,
		Cache:   cacheClient,
		Mailer:  emailClient,
		Emitter: emitter,
		Clock:   clock.System{},
	}, appLogger)

	if cfg.Badges.ReconcileInterval > 0 {
		scheduler := jobs.NewScheduler(appLogger)
		scheduler.AddJob(badge.NewReconcileJob(services.Enrollments, services.Badges, appLogger), cfg.Badges.ReconcileInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := gin.New()

	// Socket.IO gets only recovery and CORS; the rest of the stack would
	// interfere with long polling.
	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	if socketIOServer != nil {
		router.GET("/socket.io/*any", gin.WrapH(socketIOServer.GetHandler()))
		router.POST("/socket.io/*any", gin.WrapH(socketIOServer.GetHandler()))
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(appLogger, time.Second))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.RequestSizeLimit(1 << 20))
	router.Use(metrics.Middleware())
	router.Use(request.Handler(appLogger))

	// Rate limiting (100 requests per minute per IP)
	rateLimiter := middleware.NewRateLimiter(100, time.Minute)
	defer rateLimiter.Stop()
	router.Use(rateLimiter.Middleware())

	routes.Register(router, cfg, db, services, cacheClient, appLogger)

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}
