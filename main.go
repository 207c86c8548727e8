package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	apperrors "github.com/yuvalsigall-cpu/menu-cleaner/common/errors"
	"github.com/yuvalsigall-cpu/menu-cleaner/common/logger"
	"github.com/yuvalsigall-cpu/menu-cleaner/common/middleware"
	"github.com/yuvalsigall-cpu/menu-cleaner/controllers"
	awspkg "github.com/yuvalsigall-cpu/menu-cleaner/pkg/aws"
	"github.com/yuvalsigall-cpu/menu-cleaner/repository"
	"github.com/yuvalsigall-cpu/menu-cleaner/routes"
	"github.com/yuvalsigall-cpu/menu-cleaner/services"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "catalog-cleaner"

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Initialize("development")
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	awsCfg, err := awspkg.LoadAWSConfig(context.Background(), cfg.AWS)
	if err != nil {
		logger.Initialize(cfg.AppEnv)
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}

	// --- 1. Logging ---
	var logSink *awspkg.CloudWatchLogsClient
	if cfg.CloudWatchEnabled {
		logSink, err = awspkg.NewCloudWatchLogsClient(context.Background(), awsCfg, cfg.CloudWatchLogGroup, serviceName)
	}
	if logSink != nil {
		logger.InitializeWithWriter(cfg.AppEnv, logSink)
	} else {
		logger.Initialize(cfg.AppEnv)
	}
	defer logger.Log.Sync()
	if err != nil {
		zap.L().Warn("CloudWatch Logs unavailable, logging to stdout only", zap.Error(err))
	}

	zap.L().Info("AWS Configuration",
		zap.String("AWS_ENDPOINT", cfg.AWS.Endpoint),
		zap.String("AWS_S3_ENDPOINT", cfg.AWS.S3Endpoint),
		zap.String("AWS_REGION", cfg.AWS.Region),
	)

	// --- 2. Stores ---
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379", DB: 0}
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zap.L().Warn("Redis not reachable yet", zap.Error(err))
	}

	s3Client := awspkg.NewS3Client(awsCfg, cfg.AWS.S3Endpoint)
	artifacts := repository.NewS3Store(s3Client, awspkg.NewPresignClient(s3Client), cfg.Bucket, cfg.Prefix)

	ddbClient := awspkg.NewDynamoDBClient(awsCfg, cfg.AWS.Endpoint)
	runs := repository.NewDynamoRunAdapter(ddbClient, cfg.RunsTable)

	jobs := repository.NewRedisJobStore(rdb)
	metricsClient := awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)

	// --- 3. Service, worker and handlers ---
	cleaner := services.NewCleanerService(jobs, artifacts, runs, metricsClient)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	services.StartCleanWorker(workerCtx, jobs, cleaner)

	validator := controllers.NewRequestValidator(cfg.MaxUploadBytes())
	catalogHandler := controllers.NewCatalogHandler(cleaner, validator)
	jobHandler := controllers.NewJobHandler(cleaner, validator)

	// --- 4. HTTP Server & Middleware ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(middleware.ParseOrigins(cfg.AllowedOrigins)))

	limiter := middleware.NewRateLimiter(rate.Limit(5), 20, 10*time.Minute)
	stopSweeper := make(chan struct{})
	limiter.StartSweeper(stopSweeper)
	r.Use(middleware.RateLimitMiddleware(limiter))

	r.Use(middleware.MetricsMiddleware(metricsClient, serviceName))
	r.Use(apperrors.ErrorMiddleware())

	if cfg.APIKey == "" {
		zap.L().Warn("CLEANER_API_KEY not set, /catalog routes are unauthenticated")
	}
	routes.RegisterRoutes(r, catalogHandler, jobHandler, middleware.APIKeyAuth(cfg.APIKey))

	// --- 5. Graceful Shutdown ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog Cleaner starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Catalog Cleaner...")

	stopWorker()
	close(stopSweeper)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if err := rdb.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}

	zap.L().Info("Catalog Cleaner stopped gracefully")
}
