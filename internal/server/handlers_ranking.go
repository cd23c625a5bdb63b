package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/jobmatch/internal/types"
)

// maxBodyBytes caps request bodies on the admin endpoints.
const maxBodyBytes = 1 << 20

// decodeBody decodes an optional JSON body into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

// handleRankResumes handles POST /v1/jobs/{job_id}/rank-resumes
func (s *Server) handleRankResumes(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "job_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.RankResumesRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "keywords", Message: err.Error()})
		return
	}

	result, err := s.engine.RankResumesByKeywords(r.Context(), jobID, req.Keywords)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSaveKeywords handles PUT /v1/jobs/{job_id}/keywords
func (s *Server) handleSaveKeywords(w http.ResponseWriter, r *http.Request) {
	if s.keywords == nil {
		s.errorResponse(w, http.StatusNotImplemented, "keyword storage is not available for this store")
		return
	}

	jobID, err := pathUUID(r, "job_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.SaveKeywordsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "keywords", Message: err.Error()})
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		s.handleError(w, r, fmt.Errorf("failed to get job: %w", err))
		return
	}
	if job == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "job", ID: jobID.String()})
		return
	}

	if err := s.keywords.SaveJobKeywords(r.Context(), jobID, req.Keywords); err != nil {
		s.handleError(w, r, fmt.Errorf("failed to save job keywords: %w", err))
		return
	}

	s.logger.Info().Str("job_id", jobID.String()).Int("keywords", len(req.Keywords)).Msg("job keywords saved")
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobId":    jobID.String(),
		"keywords": req.Keywords,
	})
}

// handleInvalidateCache handles POST /v1/cache/invalidate
func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	invalidated := []string{}
	if s.cache == nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"invalidated": invalidated})
		return
	}

	if err := s.cache.InvalidateJobs(r.Context()); err != nil {
		s.handleError(w, r, fmt.Errorf("failed to invalidate job pools: %w", err))
		return
	}
	invalidated = append(invalidated, "jobs")

	if err := s.cache.InvalidateResumes(r.Context()); err != nil {
		s.handleError(w, r, fmt.Errorf("failed to invalidate resume pools: %w", err))
		return
	}
	invalidated = append(invalidated, "resumes")

	s.logger.Info().Strs("pools", invalidated).Msg("cache invalidated")
	s.jsonResponse(w, http.StatusOK, map[string]any{"invalidated": invalidated})
}
