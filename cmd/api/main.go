package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/api/handlers"
	"github.com/edu-agent/backend/internal/auth"
	"github.com/edu-agent/backend/internal/cache/redis"
	"github.com/edu-agent/backend/internal/llm"
	authmw "github.com/edu-agent/backend/internal/middleware/auth"
	"github.com/edu-agent/backend/internal/middleware/ratelimit"
	"github.com/edu-agent/backend/internal/middleware/security"
	"github.com/edu-agent/backend/internal/middleware/validation"
	"github.com/edu-agent/backend/internal/metrics"
	"github.com/edu-agent/backend/internal/query"
	"github.com/edu-agent/backend/internal/storage/datastore"
	"github.com/edu-agent/backend/internal/storage/sqlite"
	"github.com/edu-agent/backend/pkg/config"
	appLogger "github.com/edu-agent/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting student records assistant API server")

	metrics.Init()

	store, err := datastore.NewStore(cfg.Data.StudentsPath, cfg.Data.AdminsPath)
	if err != nil {
		appLogger.Fatal("Failed to load dataset snapshot", zap.Error(err))
	}

	auditClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer auditClient.Close()

	if err := auditClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var answerCache *redis.Client
	if cfg.Redis.Enabled {
		answerCache, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer answerCache.Close()
	}

	var analyzer llm.Analyzer
	if cfg.LLM.Enabled {
		analyzer = llm.NewClient(
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
			cfg.LLM.TimeoutSec,
		)
	} else {
		appLogger.Warn("AI analysis disabled; free-form queries use the deterministic fallback only")
	}

	sessions := query.NewManager(store, analyzer, auditClient, answerCache)
	authService := auth.NewService(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMins)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 60,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	authHandler := handlers.NewAuthHandler(authService, store)
	queryHandler := handlers.NewQueryHandler(sessions, auditClient)
	adminHandler := handlers.NewAdminHandler(store)
	exportHandler := handlers.NewExportHandler(store)
	wsHandler := handlers.NewWebSocketHandler(sessions, authService)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})
	app.Get("/metrics", metrics.MetricsHandler())

	api.Post("/auth/login", limiter.Middleware(), authHandler.Login)
	api.Get("/auth/admins", authHandler.ListAdmins)

	protected := api.Group("", authmw.Middleware(authService), limiter.Middleware())

	protected.Post("/query",
		validation.Middleware(validation.Config{Logger: appLogger.GetLogger()}),
		queryHandler.HandleQuery,
	)
	protected.Get("/query/history", queryHandler.GetQueryHistory)
	protected.Get("/conversation", queryHandler.GetConversation)
	protected.Delete("/conversation", queryHandler.ResetConversation)
	protected.Get("/admin", adminHandler.GetAdminInfo)
	protected.Get("/analytics", adminHandler.GetAnalytics)
	protected.Get("/analytics/support", adminHandler.GetSupportList)
	protected.Get("/analytics/high-performers", adminHandler.GetHighPerformers)
	protected.Get("/export", exportHandler.Export)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
