package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/actuallystonmai/movie-recommender/internal/cache"
	"github.com/actuallystonmai/movie-recommender/internal/config"
	"github.com/actuallystonmai/movie-recommender/internal/handler"
	"github.com/actuallystonmai/movie-recommender/internal/logging"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
	"github.com/actuallystonmai/movie-recommender/internal/model"
	"github.com/actuallystonmai/movie-recommender/internal/recommend"
	"github.com/actuallystonmai/movie-recommender/internal/repository"
	"github.com/actuallystonmai/movie-recommender/internal/router"
	"github.com/actuallystonmai/movie-recommender/internal/service"
	"github.com/actuallystonmai/movie-recommender/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.Logging)

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to parse database config: %v", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		logger.Fatalf("database not ready: %v", err)
	}
	logger.Info("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := runMigration(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			logger.Fatalf("failed to migrate down: %v", err)
		}
		logger.Info("migrations dropped")
		return
	}

	if err := runMigration(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		logger.Fatalf("failed to migrate up: %v", err)
	}
	logger.Info("migrations applied")

	repo := repository.New(pool)

	// ------------ Setup Seed Data ---------------
	if cfg.Seed {
		if err := checkSeed(ctx, pool, repo, logger); err != nil {
			logger.Fatalf("failed to check seed: %v", err)
		}
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatalf("failed to parse redis url: %v", err)
	}
	// the keyword cache is optional; fail fast when redis is unreachable
	if redisOpts.DialTimeout == 0 {
		redisOpts.DialTimeout = 500 * time.Millisecond
	}
	if redisOpts.ReadTimeout == 0 {
		redisOpts.ReadTimeout = 200 * time.Millisecond
	}
	if redisOpts.WriteTimeout == 0 {
		redisOpts.WriteTimeout = 200 * time.Millisecond
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// ------------ Embedding model ---------------
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatalf("failed to register metrics: %v", err)
	}

	encoder, modelName := newEncoder(cfg, logger)
	keywordCache := cache.NewKeywordCache(redisClient, modelName, cfg.KeywordCacheTTL)
	if err := keywordCache.Ping(ctx); err != nil {
		logger.WithError(err).Warn("redis unavailable, keyword embeddings will not be cached")
	}
	if len(os.Args) > 1 && os.Args[1] == "clear-keyword-cache" {
		if err := keywordCache.Clear(ctx); err != nil {
			logger.Fatalf("failed to clear keyword cache: %v", err)
		}
		logger.WithField("model", modelName).Info("keyword cache cleared")
		return
	}

	embeddings := recommend.NewEmbeddingCache(encoder)
	svc := service.NewService(
		repo,
		recommend.NewRelationalScorer(0),
		recommend.NewSemanticScorer(model.NewCachedEncoder(encoder, keywordCache, logger), embeddings, 0, cfg.Embedding.Concurrency),
		cfg.Batch.Concurrency,
		logger,
	)

	// ---------------- Server --------------------
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router.Setup(handler.NewHandler(svc, logger), logger),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed to start: %v", err)
		}
	}()
	logger.WithFields(logrus.Fields{
		"addr":               cfg.Addr(),
		"embedding_provider": cfg.Embedding.Provider,
	}).Info("server running")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited")
}

// newEncoder returns the movie/keyword encoder and the model name used to
// namespace cached keyword vectors.
func newEncoder(cfg *config.Config, logger *logrus.Logger) (model.Encoder, string) {
	if cfg.Embedding.Provider == "http" {
		client := model.NewClient(cfg.Embedding)
		return model.NewBreakerEncoder(client, cfg.Breaker, logger), cfg.Embedding.Model
	}
	return model.NewHashingEncoder(cfg.Embedding.Dimensions), fmt.Sprintf("hashing-%d", cfg.Embedding.Dimensions)
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Infof("waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, repo *repository.Repository, logger *logrus.Logger) error {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		logger.Infof("database already seeded (%d users), skipping", count)
		return nil
	}
	return seeds.Setup(ctx, pool, logger)
}
