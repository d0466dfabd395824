package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"github.com/andreypavlenko/jobmatch/internal/platform/logger"
	"github.com/andreypavlenko/jobmatch/internal/platform/postgres"
	"github.com/andreypavlenko/jobmatch/internal/platform/redis"
	"github.com/andreypavlenko/jobmatch/internal/platform/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// worker is the queue-draining binary behind §4.9's Job Queue & Workers:
// it pulls TaskMatch/TaskFindCandidates jobs off the Redis-backed priority
// queue, runs the Match Orchestrator, writes through the three-tier Result
// Store, and delivers the signed webhook callback on completion or
// exhausted retry.
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

	appLog.Info("starting matching worker pool", zap.String("env", cfg.Server.Env))

	ctx := context.Background()

	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		appLog.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()

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
	}

	reporter, err := resilience.NewReporter(cfg.Sentry.DSN, cfg.Sentry.Environment)
	if err != nil {
		appLog.Fatal("failed to initialize error reporter", zap.Error(err))
	}
	defer reporter.Flush()

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

	resultStore := store.New(redisClient.Client, pgClient.Pool, blobStore, cfg.Queue.ResultTTL, cfg.Match.LargeResultThresholdByte, appLog)
	jobQueue := queue.New(redisClient.Client, cfg.Queue.ResultTTL, cfg.Queue.MaxRetries)
	webhookDeliverer := queue.NewWebhookDeliverer(cfg.Webhook.Secret, cfg.Webhook.Timeout, cfg.Webhook.MaxRetries)

	pool := queue.NewPool(jobQueue, orch, resultStore, webhookDeliverer, appLog, []string{"matching_default"}, cfg.Queue.JobTimeout, cfg.Queue.WorkerCount)

	runCtx, cancel := context.WithCancel(context.Background())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		appLog.Info("shutting down worker pool, waiting for in-flight jobs to finish...")
		cancel()
	}()

	pool.Run(runCtx)

	appLog.Info("worker pool exited")
}
