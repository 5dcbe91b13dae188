package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/desirekokuvi/bablit/internal/conversations"
	"github.com/desirekokuvi/bablit/internal/detect"
	"github.com/desirekokuvi/bablit/internal/events"
	"github.com/desirekokuvi/bablit/internal/preferences"
	"github.com/desirekokuvi/bablit/internal/router"
	"github.com/desirekokuvi/bablit/internal/sms"
	"github.com/desirekokuvi/bablit/internal/translate"
	"github.com/desirekokuvi/bablit/pkg/common"
	"github.com/desirekokuvi/bablit/pkg/config"
	"github.com/desirekokuvi/bablit/pkg/database"
	"github.com/desirekokuvi/bablit/pkg/logger"
	"github.com/desirekokuvi/bablit/pkg/middleware"
	"github.com/desirekokuvi/bablit/pkg/redis"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load("bablit")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
		}); err != nil {
			logger.Warn("Failed to init sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	healthChecks := map[string]func() error{}

	// Preference store: Redis when configured, in-memory otherwise
	var prefsRepo preferences.RepositoryInterface = preferences.NewMemoryRepository()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		prefsRepo = preferences.NewRedisRepository(redisClient.Client)
		healthChecks["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		}
		logger.Info("Preference store: redis")
	}

	// Conversation store: Postgres when configured, in-memory otherwise
	var convsRepo conversations.RepositoryInterface = conversations.NewMemoryRepository()
	if cfg.Database.Enabled {
		pool, err := database.NewPostgresPool(&cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close(pool)

		pgRepo := conversations.NewPostgresRepository(pool)
		if err := pgRepo.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("Failed to ensure schema", zap.Error(err))
		}
		convsRepo = pgRepo
		healthChecks["postgres"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(ctx)
		}
		logger.Info("Conversation store: postgres")
	}

	// Translation provider chain, priority order: Google first (the
	// statistical workhorse), then DeepL, then the LLM providers.
	providerTimeout := time.Duration(cfg.Providers.TimeoutSeconds) * time.Second
	var providers []translate.Provider
	if cfg.Providers.GoogleAPIKey != "" {
		providers = append(providers, translate.NewGoogleProvider(cfg.Providers.GoogleAPIKey, providerTimeout))
	}
	if cfg.Providers.DeepLAPIKey != "" {
		providers = append(providers, translate.NewDeepLProvider(cfg.Providers.DeepLAPIKey, providerTimeout))
	}
	if cfg.Providers.AnthropicAPIKey != "" {
		providers = append(providers, translate.NewClaudeProvider(cfg.Providers.AnthropicAPIKey, providerTimeout))
	}
	if cfg.Providers.OpenAIAPIKey != "" {
		providers = append(providers, translate.NewOpenAIProvider(cfg.Providers.OpenAIAPIKey, providerTimeout))
	}
	chain := translate.NewChain(providers, providerTimeout)
	logger.Info("Translation chain configured", zap.Strings("providers", chain.Providers()))

	detector := detect.NewGoogleDetector(cfg.Providers.GoogleAPIKey, providerTimeout)

	// Event publisher
	var publisher events.Publisher = events.NewNoopPublisher()
	if cfg.NATS.Enabled {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		publisher = natsPublisher
		logger.Info("Event publisher: nats", zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()

	// Services
	prefsService := preferences.NewService(prefsRepo)
	convsService := conversations.NewService(convsRepo)
	routerService := router.NewService(
		prefsService, convsService, chain, detector, publisher,
		cfg.Server.DefaultLanguage,
	)

	// Optional SMS auto-send
	var sender sms.Sender
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		sender = sms.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
		logger.Info("SMS sender: twilio", zap.Bool("auto_send", cfg.Twilio.AutoSend))
	}

	// Handlers
	routerHandler := router.NewHandler(routerService, sender, cfg.Twilio.AutoSend)
	prefsHandler := preferences.NewHandler(prefsService)
	convsHandler := conversations.NewHandler(convsService)

	// Set up Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.CorrelationID())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.Metrics(cfg.Server.ServiceName))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	if cfg.Sentry.DSN != "" {
		engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	// Health check and metrics (no auth required)
	engine.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, serviceVersion, healthChecks))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Webhook ingestion, bounded by a per-request timeout
	webhooks := engine.Group("/webhook")
	webhooks.Use(middleware.WebhookSecret(cfg.Server.WebhookSecret))
	webhooks.Use(webhookTimeout(time.Duration(cfg.Server.WebhookTimeout) * time.Second))
	routerHandler.RegisterWebhookRoutes(webhooks)

	// Management API
	api := engine.Group("/api/v1")
	{
		routerHandler.RegisterAPIRoutes(api)
		prefsHandler.RegisterRoutes(api)
		convsHandler.RegisterRoutes(api)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("bablit translation engine starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

// corsConfig builds the CORS policy from the comma-separated origin list.
func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader, middleware.WebhookSecretHeader}

	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = strings.Split(origins, ",")
	return cfg
}

// webhookTimeout bounds webhook requests so a slow provider chain cannot
// hold platform callbacks open indefinitely.
func webhookTimeout(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithHandler(func(c *gin.Context) { c.Next() }),
		timeout.WithResponse(func(c *gin.Context) {
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"success": false,
				"error":   "request timed out",
			})
		}),
	)
}
