package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/cache"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/logging"
	"github.com/jonathan/jobmatch/internal/metrics"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/sqlitestore"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/rs/zerolog"
)

// persistentStore is implemented by both database backends.
type persistentStore interface {
	ranking.Store
	SaveJobKeywords(ctx context.Context, jobID uuid.UUID, keywords []string) error
	UpsertJob(ctx context.Context, job *types.JobPosting) error
	UpsertResumeFeatures(ctx context.Context, f *types.CandidateFeatures) error
	AddApplication(ctx context.Context, jobID, resumeID uuid.UUID) error
}

var (
	_ persistentStore = (*db.DB)(nil)
	_ persistentStore = (*sqlitestore.Store)(nil)
)

// openedStore is a database store plus its cleanup.
type openedStore struct {
	persistentStore
	driver string
	close  func()
}

// openStore connects to the database named by cfg.DatabaseURL.
func openStore(ctx context.Context, cfg *config.Config) (*openedStore, error) {
	switch cfg.DatabaseDriver() {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &openedStore{persistentStore: database, driver: config.DriverPostgres, close: database.Close}, nil
	case config.DriverSQLite:
		store, err := sqlitestore.Open(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		return &openedStore{persistentStore: store, driver: config.DriverSQLite, close: func() { _ = store.Close() }}, nil
	case "":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL is required: set DATABASE_URL or JOBMATCH_DATABASE_URL")
		}
	}
	return nil, fmt.Errorf("unsupported database URL: %s", cfg.DatabaseURL)
}

// newPoolCache wraps store with the pool cache. Redis is used when configured and
// reachable; otherwise pools are cached in process memory. A zero TTL disables caching.
func newPoolCache(ctx context.Context, cfg *config.Config, store ranking.Store, logger zerolog.Logger, m *metrics.Metrics) (*cache.Store, func()) {
	cacheLogger := logging.Component(logger, "cache")
	opts := []cache.Option{cache.WithLogger(cacheLogger), cache.WithMetrics(m)}

	if cfg.CacheTTL <= 0 {
		cacheLogger.Info().Msg("pool cache disabled")
		return cache.NewStore(store, nil, 0, opts...), func() {}
	}

	if cfg.RedisURL != "" {
		backend, err := cache.NewRedisBackend(ctx, cfg.RedisURL)
		if err == nil {
			cacheLogger.Info().Dur("ttl", cfg.CacheTTL).Msg("pool cache using redis")
			return cache.NewStore(store, backend, cfg.CacheTTL, opts...), func() { _ = backend.Close() }
		}
		cacheLogger.Warn().Err(err).Msg("redis unavailable, falling back to in-memory pool cache")
	}

	cacheLogger.Info().Dur("ttl", cfg.CacheTTL).Msg("pool cache using process memory")
	return cache.NewStore(store, cache.NewMemoryBackend(), cfg.CacheTTL, opts...), func() {}
}
