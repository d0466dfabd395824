package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreypavlenko/jobmatch/api"
	"github.com/andreypavlenko/jobmatch/domain/candidateprofile"
	"github.com/andreypavlenko/jobmatch/domain/company"
	"github.com/andreypavlenko/jobmatch/domain/jobposting"
	"github.com/andreypavlenko/jobmatch/domain/matchstats"
	"github.com/andreypavlenko/jobmatch/internal/config"
	"github.com/andreypavlenko/jobmatch/internal/matching/orchestrator"
	"github.com/andreypavlenko/jobmatch/internal/matching/queue"
	"github.com/andreypavlenko/jobmatch/internal/matching/resilience"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
	"github.com/andreypavlenko/jobmatch/internal/matching/selector"
	"github.com/andreypavlenko/jobmatch/internal/matching/store"
	"github.com/andreypavlenko/jobmatch/internal/matching/travel"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
	"github.com/andreypavlenko/jobmatch/internal/matching/weights"
	"github.com/andreypavlenko/jobmatch/internal/platform/auth"
	"github.com/andreypavlenko/jobmatch/internal/platform/httpx"
	"github.com/andreypavlenko/jobmatch/internal/platform/logger"
	"github.com/andreypavlenko/jobmatch/internal/platform/postgres"
	"github.com/andreypavlenko/jobmatch/internal/platform/redis"
	"github.com/andreypavlenko/jobmatch/internal/platform/storage"

	"github.com/gin-gonic/gin"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	appLog.Info("starting matching orchestration engine",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		appLog.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()

	if err := postgres.RunMigrations(ctx, cfg.Database, appLog, "./migrations"); err != nil {
		appLog.Fatal("failed to run database migrations", zap.Error(err))
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		appLog.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	var blobStore *storage.S3Client
	if cfg.S3.Endpoint != "" && cfg.S3.Bucket != "" {
		blobStore, err = storage.NewS3Client(cfg.S3)
		if err != nil {
			appLog.Warn("failed to initialize S3 client, blob tier disabled", zap.Error(err))
		}
	} else {
		appLog.Info("S3 configuration not provided, blob tier disabled")
	}

	reporter, err := resilience.NewReporter(cfg.Sentry.DSN, cfg.Sentry.Environment)
	if err != nil {
		appLog.Fatal("failed to initialize error reporter", zap.Error(err))
	}
	defer reporter.Flush()

	// Travel-Time Provider (C2).
	breaker := resilience.NewCircuitBreaker(cfg.Circuit.FailMax, cfg.Circuit.ResetAfter)
	simulated := travel.NewSimulatedEstimator()
	var realClient *travel.RealClient
	if cfg.Travel.APIBaseURL != "" && cfg.Travel.APIKey != "" {
		realClient = travel.NewRealClient(cfg.Travel.APIBaseURL, cfg.Travel.APIKey, cfg.Travel.Timeout)
	}
	travelCache := travel.NewCache(cfg.Travel.CacheTTL, cfg.Travel.CacheMaxLen)
	travelProvider := travel.New(
		travel.Mode(cfg.Travel.Mode), realClient, simulated, travelCache,
		travel.WithBreaker(breaker),
		travel.WithRetryConfig(resilience.RetryConfig{MaxAttempts: cfg.Circuit.MaxRetries, BaseDelay: time.Second}),
		travel.WithFallbackObserver(func(reason string) {
			appLog.Sugar().Infow("travel provider fell back to simulated estimate", "reason", reason)
		}),
	)

	// Scoring Primitives (C3) + Algorithm Variants (C5).
	rules, err := scoring.LoadRules(cfg.Match.RulesPath)
	if err != nil {
		appLog.Warn("failed to load scoring rules file, using defaults", zap.Error(err), zap.String("path", cfg.Match.RulesPath))
		rules = scoring.DefaultRules()
	}
	registry := variants.Registry(variants.Deps{Rules: rules, Resolver: travelProvider})

	comparisonNames := make([]variants.Name, 0, len(cfg.Match.ComparisonVariants))
	for _, v := range cfg.Match.ComparisonVariants {
		comparisonNames = append(comparisonNames, variants.Name(v))
	}
	sel := selector.New(registry, comparisonNames, nil)
	orch := orchestrator.New(registry, sel, weights.DefaultBase(), reporter, appLog, cfg.Match)

	// Job Queue & Workers (C9) / Result Store (C10) collaborators the
	// synchronous API's async routes (§6.2) enqueue onto.
	resultStore := store.New(redisClient.Client, pgClient.Pool, blobStore, cfg.Queue.ResultTTL, cfg.Match.LargeResultThresholdByte, appLog)
	jobQueue := queue.New(redisClient.Client, cfg.Queue.ResultTTL, cfg.Queue.MaxRetries)
	_ = resultStore // the worker binary (cmd/worker) owns draining the queue and writing through the store

	// Persistence surface (§2b) feeding the async API's by-id lookups.
	jobRepo := jobposting.NewPostgresRepository(pgClient.Pool)
	jobSvc := jobposting.NewService(jobRepo)
	companyRepo := company.NewPostgresRepository(pgClient.Pool)
	companySvc := company.NewService(companyRepo)
	_ = companySvc // enrichment only; no direct route consumes it yet
	candidateRepo := candidateprofile.NewPostgresRepository(pgClient.Pool)
	candidateSvc := candidateprofile.NewService(candidateRepo)
	statsRepo := matchstats.NewPostgresRepository(pgClient.Pool)
	statsSvc := matchstats.NewService(statsRepo)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpx.RequestIDMiddleware())
	router.Use(httpx.LoggerMiddleware(appLog))
	router.Use(httpx.CORSMiddleware())
	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Expiry)
	authMiddleware := auth.Middleware(tokens)

	server := api.NewServer(orch, sel, registry, jobQueue, jobSvc, candidateSvc, statsSvc, appLog)
	server.RegisterRoutes(router.Group(""), authMiddleware)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLog.Info("server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal("server forced to shutdown", zap.Error(err))
	}

	appLog.Info("server exited")
}
