package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/chatleadhq/chatlead-platform/cmd/mainconfig"
	"github.com/chatleadhq/chatlead-platform/internal/accounts"
	"github.com/chatleadhq/chatlead-platform/internal/ai"
	"github.com/chatleadhq/chatlead-platform/internal/api/router"
	appconfig "github.com/chatleadhq/chatlead-platform/internal/config"
	"github.com/chatleadhq/chatlead-platform/internal/entity"
	"github.com/chatleadhq/chatlead-platform/internal/export"
	"github.com/chatleadhq/chatlead-platform/internal/intent"
	"github.com/chatleadhq/chatlead-platform/internal/leads"
	"github.com/chatleadhq/chatlead-platform/internal/messages"
	"github.com/chatleadhq/chatlead-platform/internal/notify"
	"github.com/chatleadhq/chatlead-platform/internal/observability/metrics"
	"github.com/chatleadhq/chatlead-platform/internal/pipeline"
	"github.com/chatleadhq/chatlead-platform/internal/stats"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting chatlead-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Storage. Without a database URL everything runs in memory, which is
	// enough for local development.
	var (
		msgRepo   messages.Repository
		leadRepo  leads.Repository
		orgRepo   accounts.OrgRepository
		orgBase   accounts.OrgRepository
		knowledge ai.KnowledgeStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		msgRepo = messages.NewPostgresRepository(pool)
		leadRepo = leads.NewPostgresRepository(pool)
		orgBase = accounts.NewPostgresRepository(pool)
		knowledge = ai.NewPostgresKnowledgeStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		msgRepo = messages.NewInMemoryRepository()
		leadRepo = leads.NewInMemoryRepository()
		orgBase = accounts.NewInMemoryRepository()
	}

	// Organization settings cache
	orgRepo = orgBase
	if cfg.RedisAddr != "" {
		redisOpts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOpts)
		orgRepo = accounts.NewOrgCache(redisClient, orgBase, cfg.OrgCacheTTL)
		defer func() { _ = redisClient.Close() }()
	}

	// AI collaborator
	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	geminiClient, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = geminiClient.Close() }()

	assistant := ai.NewAssistant(geminiClient, knowledge, logger)

	// Spreadsheet export
	var exporter export.Appender
	if cfg.SheetsEnabled && cfg.GoogleCredentialsJSON != "" {
		sheetsExporter, err := export.NewSheetsExporter(ctx, []byte(cfg.GoogleCredentialsJSON), logger)
		if err != nil {
			logger.Error("failed to create sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheetsExporter
	} else {
		logger.Info("sheet export disabled")
	}

	// Operator notifications
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		sender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(sender, cfg.LeadNotifyMinScore, logger)

	// Pipeline
	pipelineMetrics := metrics.NewPipelineMetrics(nil)
	proc := pipeline.New(pipeline.Deps{
		Classifier: intent.NewClassifier(geminiClient),
		Extractor:  entity.NewExtractor(geminiClient),
		Assistant:  assistant,
		Messages:   msgRepo,
		Leads:      leadRepo,
		Orgs:       orgRepo,
		Exporter:   exporter,
		Notifier:   notifier,
		Metrics:    pipelineMetrics,
		Logger:     logger,
	})

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		PipelineHandler:    pipeline.NewHandler(proc, logger),
		MessagesHandler:    messages.NewHandler(msgRepo, logger),
		LeadsHandler:       leads.NewHandler(leadRepo, logger),
		StatsHandler:       stats.NewHandler(stats.NewService(msgRepo), logger),
		OrgHandler:         accounts.NewHandler(orgRepo, logger),
		MetricsHandler:     promhttp.Handler(),
		JWTSecret:          cfg.JWTSecret,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if knowledge != nil {
		routerCfg.KnowledgeHandler = ai.NewKnowledgeHandler(knowledge, logger)
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
