// Package ranking scores jobs and candidates against each other and returns ordered,
// truncated result lists.
package ranking

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/metrics"
	"github.com/rs/zerolog"
)

// Operation names used in logs and metrics.
const (
	OpRecommendJobs    = "recommend_jobs"
	OpRecommendResumes = "recommend_resumes"
	OpRankKeywords     = "rank_keywords"
	OpMatchJobs        = "match_jobs"
	OpMatchCandidates  = "match_candidates"
)

// Result size defaults.
const (
	DefaultTopK       = 10
	DefaultMatchLimit = 20
)

// PoolLimits caps how many entities each operation fetches before scoring.
type PoolLimits struct {
	RecommendJobs    int
	RecommendResumes int
	MatchJobs        int
	MatchCandidates  int
}

// DefaultPoolLimits returns the production pool caps.
func DefaultPoolLimits() PoolLimits {
	return PoolLimits{
		RecommendJobs:    500,
		RecommendResumes: 1000,
		MatchJobs:        200,
		MatchCandidates:  500,
	}
}

// Engine runs ranking pipelines against a Store. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	store   Store
	dims    int
	limits  PoolLimits
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithDims sets the embedding dimensionality. Values below 1 keep the default.
func WithDims(dims int) Option {
	return func(e *Engine) {
		if dims > 0 {
			e.dims = dims
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithPoolLimits overrides the pool caps. Zero fields keep their defaults.
func WithPoolLimits(limits PoolLimits) Option {
	return func(e *Engine) {
		if limits.RecommendJobs > 0 {
			e.limits.RecommendJobs = limits.RecommendJobs
		}
		if limits.RecommendResumes > 0 {
			e.limits.RecommendResumes = limits.RecommendResumes
		}
		if limits.MatchJobs > 0 {
			e.limits.MatchJobs = limits.MatchJobs
		}
		if limits.MatchCandidates > 0 {
			e.limits.MatchCandidates = limits.MatchCandidates
		}
	}
}

// NewEngine creates an engine reading from store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		dims:   embedding.DefaultDims,
		limits: DefaultPoolLimits(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dims returns the embedding dimensionality in use.
func (e *Engine) Dims() int {
	return e.dims
}

// observe logs and records the outcome of one operation.
func (e *Engine) observe(op string, start time.Time, poolSize, results int, err error) {
	elapsed := time.Since(start)
	status := statusOf(err)
	e.metrics.ObserveRanking(op, status, poolSize, elapsed)

	event := e.logger.Debug()
	if status == "error" {
		event = e.logger.Error().Err(err)
	}
	event.
		Str("operation", op).
		Str("status", status).
		Int("pool_size", poolSize).
		Int("results", results).
		Dur("duration", elapsed).
		Msg("ranking completed")
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoKeywords):
		return "rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
