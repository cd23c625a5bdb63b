// Package server provides the HTTP REST API for the matching engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/logging"
	"github.com/jonathan/jobmatch/internal/metrics"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/server/middleware"
	"github.com/jonathan/jobmatch/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// KeywordSaver persists the keyword set used to rank a job's applicants.
type KeywordSaver interface {
	SaveJobKeywords(ctx context.Context, jobID uuid.UUID, keywords []string) error
}

// CacheInvalidator drops cached candidate pools.
type CacheInvalidator interface {
	InvalidateJobs(ctx context.Context) error
	InvalidateResumes(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	engine      *ranking.Engine
	store       ranking.Store
	keywords    KeywordSaver
	cache       CacheInvalidator
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	corsOrigins map[string]bool
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// Config holds server configuration
type Config struct {
	Port        int
	CORSOrigins []string
	RateLimit   float64 // requests per second per client, 0 disables limiting
	RateBurst   int
	JWT         *config.JWTConfig // nil disables the admin endpoints
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Engine   *ranking.Engine
	Store    ranking.Store
	Keywords KeywordSaver     // defaults to Store when it implements KeywordSaver
	Cache    CacheInvalidator // optional
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // defaults to prometheus.DefaultGatherer
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("ranking engine is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	s := &Server{
		engine:      deps.Engine,
		store:       deps.Store,
		keywords:    deps.Keywords,
		cache:       deps.Cache,
		corsOrigins: make(map[string]bool),
		logger:      logging.Component(deps.Logger, "server"),
		metrics:     deps.Metrics,
	}
	if s.keywords == nil {
		if saver, ok := deps.Store.(KeywordSaver); ok {
			s.keywords = saver
		}
	}
	for _, origin := range cfg.CORSOrigins {
		s.corsOrigins[strings.TrimSpace(origin)] = true
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig(cfg.RateLimit, cfg.RateBurst))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Embedding recommendations
	mux.HandleFunc("GET /v1/resumes/{resume_id}/recommended-jobs", s.handleRecommendedJobs)
	mux.HandleFunc("GET /v1/jobs/{job_id}/recommended-resumes", s.handleRecommendedResumes)

	// Skill-overlap matching
	mux.HandleFunc("GET /v1/resumes/{resume_id}/matched-jobs", s.handleMatchedJobs)
	mux.HandleFunc("GET /v1/jobs/{job_id}/matched-candidates", s.handleMatchedCandidates)

	// Admin endpoints
	admin := s.adminOnly(cfg.JWT)
	mux.Handle("POST /v1/jobs/{job_id}/rank-resumes", admin(http.HandlerFunc(s.handleRankResumes)))
	mux.Handle("PUT /v1/jobs/{job_id}/keywords", admin(http.HandlerFunc(s.handleSaveKeywords)))
	mux.Handle("POST /v1/cache/invalidate", admin(http.HandlerFunc(s.handleInvalidateCache)))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and shuts down gracefully when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("server stopped")
	return nil
}

// adminOnly wraps admin handlers with bearer-token auth and the admin role check.
func (s *Server) adminOnly(cfg *config.JWTConfig) func(http.Handler) http.Handler {
	if cfg == nil {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				s.errorResponse(w, http.StatusServiceUnavailable, "admin endpoints are disabled: JWT_SECRET is not configured")
			})
		}
	}

	s.jwtService = NewJWTService(cfg)
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	requireAdmin := middleware.RequireRole(middleware.RoleAdmin)
	return func(next http.Handler) http.Handler {
		return auth(requireAdmin(next))
	}
}

// withCORS adds CORS headers for the configured origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case s.corsOrigins["*"]:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && s.corsOrigins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging and HTTP metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		// r.Pattern is filled in by the mux; unmatched requests keep it empty.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(r.Method, route, rec.status, elapsed)

		event := s.logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", rec.status).
			Str("remote", r.RemoteAddr).
			Dur("duration", elapsed).
			Msg("request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code and writes it. Internal errors are logged
// and never echoed to the client.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	switch {
	case errors.Is(err, ranking.ErrNoKeywords):
		s.errorResponse(w, status, "No keywords provided or saved for this job")
	case status == http.StatusInternalServerError:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.errorResponse(w, status, "internal server error")
	default:
		s.errorResponse(w, status, err.Error())
	}
}

// pathUUID parses the named path value as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: fmt.Sprintf("invalid UUID %q", raw)}
	}
	return id, nil
}

// maxQueryCount bounds top_k and limit query parameters.
const maxQueryCount = 100

// queryCount parses an optional positive integer query parameter.
func queryCount(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: name, Message: "must be an integer"}
	}
	if n < 1 || n > maxQueryCount {
		return 0, &ErrValidation{Field: name, Message: fmt.Sprintf("must be between 1 and %d", maxQueryCount)}
	}
	return n, nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
		retryAfter = max(retryAfter, 1)
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	s.logger.Warn().
		Str("client", clientID).
		Int("limit", info.Limit).
		Time("reset", info.ResetTime).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
