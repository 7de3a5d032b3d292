package main

import (
	"context"
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

	"github.com/ops-agent/backend/internal/api/handlers"
	"github.com/ops-agent/backend/internal/cache/redis"
	"github.com/ops-agent/backend/internal/chat"
	"github.com/ops-agent/backend/internal/execute"
	"github.com/ops-agent/backend/internal/llm"
	"github.com/ops-agent/backend/internal/metrics"
	"github.com/ops-agent/backend/internal/middleware/ratelimit"
	"github.com/ops-agent/backend/internal/middleware/security"
	"github.com/ops-agent/backend/internal/middleware/validation"
	"github.com/ops-agent/backend/internal/nlq"
	"github.com/ops-agent/backend/internal/storage/sqlite"
	"github.com/ops-agent/backend/internal/zabbix"
	"github.com/ops-agent/backend/pkg/config"
	appLogger "github.com/ops-agent/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Ops Agent API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	engine := nlq.NewEngine(
		nlq.WithDefaults(cfg.Engine.DefaultThreshold, cfg.Engine.DefaultDurationMin),
	)

	serviceOpts := []chat.Option{}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(
			fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer cacheClient.Close()
			serviceOpts = append(serviceOpts, chat.WithCache(cacheClient))
		}
	}

	var sqlExecutor *execute.Executor
	if cfg.MySQL.Enabled {
		sqlExecutor, err = execute.NewExecutor(
			cfg.MySQL.Host,
			cfg.MySQL.Port,
			cfg.MySQL.User,
			cfg.MySQL.Password,
			cfg.MySQL.Database,
		)
		if err != nil {
			appLogger.Warn("MySQL replica unavailable, SQL execution disabled", zap.Error(err))
		} else {
			defer sqlExecutor.Close()
			serviceOpts = append(serviceOpts, chat.WithExecutor(sqlExecutor))
		}
	}

	var zabbixClient *zabbix.Client
	if cfg.Zabbix.URL != "" && cfg.Zabbix.Password != "" {
		zabbixClient = zabbix.NewClient(
			cfg.Zabbix.URL,
			cfg.Zabbix.Username,
			cfg.Zabbix.Password,
			cfg.Zabbix.TimeoutSec,
		)

		loginCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := zabbixClient.Login(loginCtx); err != nil {
			appLogger.Warn("Zabbix login failed, RPC execution disabled", zap.Error(err))
			zabbixClient = nil
		} else {
			appLogger.Info("Connected to Zabbix API",
				zap.String("version", zabbixClient.APIVersion()),
			)
			serviceOpts = append(serviceOpts,
				chat.WithZabbix(zabbix.NewExecutor(zabbixClient, cfg.Zabbix.DryRun)),
			)
		}
		cancel()
	}

	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		llmClient := llm.NewClient(
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
			time.Duration(cfg.LLM.TimeoutSec)*time.Second,
		)
		serviceOpts = append(serviceOpts, chat.WithLLM(llmClient))
	}

	chatService := chat.NewService(engine, sqliteClient, serviceOpts...)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	rateLimiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 60,
		Logger:               appLogger.GetLogger(),
	})
	defer rateLimiter.Stop()

	chatHandler := handlers.NewChatHandler(chatService)
	hostsHandler := handlers.NewHostsHandler(zabbixClient)
	wsHandler := handlers.NewWebSocketHandler(chatService)

	api := app.Group("/api/v1")
	api.Use(rateLimiter.Middleware())
	api.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	api.Post("/chat", chatHandler.HandleChat)
	api.Get("/chat/history", chatHandler.GetChatHistory)
	api.Post("/feedback", chatHandler.HandleFeedback)
	api.Get("/stats", chatHandler.GetStats)
	api.Get("/hosts", hostsHandler.ListHosts)
	api.Get("/problems", hostsHandler.GetProblems)

	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	app.Get("/metrics", metrics.MetricsHandler())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/ready", func(c *fiber.Ctx) error {
		checks := fiber.Map{"sqlite": "ok"}

		if cacheClient != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := cacheClient.Ping(ctx); err != nil {
				checks["redis"] = "unavailable"
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "degraded",
					"checks": checks,
				})
			}
			checks["redis"] = "ok"
		}

		if sqlExecutor != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := sqlExecutor.Ping(ctx); err != nil {
				checks["mysql"] = "unavailable"
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "degraded",
					"checks": checks,
				})
			}
			checks["mysql"] = "ok"
		}

		return c.JSON(fiber.Map{
			"status": "ready",
			"checks": checks,
		})
	})

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
