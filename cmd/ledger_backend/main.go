package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/smart_ledger/internal/adapters/archive"
	"github.com/SscSPs/smart_ledger/internal/adapters/categorizer"
	"github.com/SscSPs/smart_ledger/internal/adapters/lock"
	"github.com/SscSPs/smart_ledger/internal/adapters/statement"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/core/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/handlers"
	"github.com/SscSPs/smart_ledger/internal/middleware"
	"github.com/SscSPs/smart_ledger/internal/platform/config"
	"github.com/SscSPs/smart_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/smart_ledger/internal/utils"
	"github.com/SscSPs/smart_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// @title Smart Ledger API
// @version 1.0
// @description Bank statement ingestion, categorization and running-balance ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool, logger)
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dto.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisClient := connectRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	deps, err := buildCollaborators(ctx, cfg, redisClient, posthogClient, logger)
	if err != nil {
		logger.Error("Failed to initialize collaborators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, deps)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	rateLimiter, err := newRateLimiter(cfg, redisClient)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, dbPool)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// connectRedis returns nil when no address is configured or the server is unreachable.
func connectRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddress == "" {
		logger.Info("REDIS_ADDRESS not set, using in-process locks and rate limiting")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
		PoolSize: 100,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to redis, falling back to in-process locks",
			slog.String("address", cfg.RedisAddress),
			slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	logger.Info("Connected to redis", slog.String("address", cfg.RedisAddress))
	return client
}

func buildCollaborators(
	ctx context.Context,
	cfg *config.Config,
	redisClient *redis.Client,
	events *utils.PosthogClientWrapper,
	logger *slog.Logger,
) (services.Collaborators, error) {
	deps := services.Collaborators{
		Decoder: statement.NewDecoder(),
		Events:  events,
	}

	if redisClient != nil {
		deps.Locker = lock.NewRedisLocker(redisClient, 0, logger)
	} else {
		deps.Locker = lock.NewMemoryLocker()
	}

	gemini, err := categorizer.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SampleMaxChars, logger)
	if err != nil {
		return deps, err
	}
	deps.Categorizer = gemini

	fileArchive, err := newArchive(ctx, cfg, logger)
	if err != nil {
		return deps, err
	}
	deps.Archive = fileArchive
	return deps, nil
}

// newArchive returns a nil FileArchive when neither a bucket nor a directory is configured.
func newArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portssvc.FileArchive, error) {
	switch {
	case cfg.ArchiveBucket != "":
		a, err := archive.NewGCSArchive(ctx, cfg.ArchiveBucket, cfg.GCSCredentialsJSON)
		if err != nil {
			return nil, err
		}
		logger.Info("Archiving statements to GCS", slog.String("bucket", cfg.ArchiveBucket))
		return a, nil
	case cfg.ArchiveDir != "":
		a, err := archive.NewLocalArchive(cfg.ArchiveDir)
		if err != nil {
			return nil, err
		}
		logger.Info("Archiving statements to local directory", slog.String("dir", cfg.ArchiveDir))
		return a, nil
	}
	logger.Info("No statement archive configured")
	return nil, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && strings.TrimSpace(cfg.CORSOrigins[0]) == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
		c.AllowCredentials = true
	}
	c.AddAllowHeaders("Authorization")
	c.AddExposeHeaders("Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset")
	return c
}

func newRateLimiter(cfg *config.Config, redisClient *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "smart_ledger_limiter"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}
