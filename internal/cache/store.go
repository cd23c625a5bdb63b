package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/metrics"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/rs/zerolog"
)

// Pool names used in cache keys and metrics.
const (
	PoolActiveJobs     = "active_jobs"
	PoolRecentFeatures = "recent_features"
)

const keyPrefix = "jobmatch:pool:"

// ErrKeywordsReadOnly is returned by SaveJobKeywords when the wrapped store cannot save keywords.
var ErrKeywordsReadOnly = errors.New("store does not support saving job keywords")

type keywordSaver interface {
	SaveJobKeywords(ctx context.Context, jobID uuid.UUID, keywords []string) error
}

// Store decorates a ranking store, caching the active-job and recent-feature pools
// per requested limit for ttl. Every other call passes through.
// Cache failures are logged and fall back to the wrapped store.
type Store struct {
	inner   ranking.Store
	backend Backend
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the cache logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics records hits and misses.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore wraps inner. A nil backend or non-positive ttl disables caching.
func NewStore(inner ranking.Store, backend Backend, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		inner:   inner,
		backend: backend,
		ttl:     ttl,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) enabled() bool {
	return s.backend != nil && s.ttl > 0
}

func poolKey(pool string, limit int) string {
	return keyPrefix + pool + ":" + strconv.Itoa(limit)
}

// ListActiveJobs returns the cached pool or fetches and caches it.
func (s *Store) ListActiveJobs(ctx context.Context, limit int) ([]types.JobPosting, error) {
	return cachedList(ctx, s, PoolActiveJobs, limit, s.inner.ListActiveJobs)
}

// ListRecentResumeFeatures returns the cached pool or fetches and caches it.
func (s *Store) ListRecentResumeFeatures(ctx context.Context, limit int) ([]types.CandidateFeatures, error) {
	return cachedList(ctx, s, PoolRecentFeatures, limit, s.inner.ListRecentResumeFeatures)
}

func cachedList[T any](ctx context.Context, s *Store, pool string, limit int,
	fetch func(context.Context, int) ([]T, error)) ([]T, error) {
	if !s.enabled() {
		return fetch(ctx, limit)
	}

	key := poolKey(pool, limit)
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("pool", pool).Msg("cache get failed")
	}
	if ok {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			s.metrics.ObserveCache(pool, true)
			return items, nil
		}
		s.logger.Warn().Str("pool", pool).Msg("discarding corrupt cache entry")
	}
	s.metrics.ObserveCache(pool, false)

	items, err := fetch(ctx, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := s.backend.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("pool", pool).Msg("cache set failed")
		}
	}
	return items, nil
}

// InvalidateJobs drops every cached active-job pool.
func (s *Store) InvalidateJobs(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	return s.backend.DeletePrefix(ctx, keyPrefix+PoolActiveJobs+":")
}

// InvalidateResumes drops every cached candidate-feature pool.
func (s *Store) InvalidateResumes(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	return s.backend.DeletePrefix(ctx, keyPrefix+PoolRecentFeatures+":")
}

// GetResumeFeatures passes through.
func (s *Store) GetResumeFeatures(ctx context.Context, resumeID uuid.UUID) (*types.CandidateFeatures, error) {
	return s.inner.GetResumeFeatures(ctx, resumeID)
}

// GetJob passes through.
func (s *Store) GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error) {
	return s.inner.GetJob(ctx, jobID)
}

// ListApplicantFeatures passes through.
func (s *Store) ListApplicantFeatures(ctx context.Context, jobID uuid.UUID) ([]types.CandidateFeatures, error) {
	return s.inner.ListApplicantFeatures(ctx, jobID)
}

// GetJobKeywords passes through.
func (s *Store) GetJobKeywords(ctx context.Context, jobID uuid.UUID) ([]string, error) {
	return s.inner.GetJobKeywords(ctx, jobID)
}

// SaveJobKeywords passes through when the wrapped store supports it.
func (s *Store) SaveJobKeywords(ctx context.Context, jobID uuid.UUID, keywords []string) error {
	saver, ok := s.inner.(keywordSaver)
	if !ok {
		return ErrKeywordsReadOnly
	}
	return saver.SaveJobKeywords(ctx, jobID, keywords)
}
