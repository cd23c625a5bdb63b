package server

import (
	"net/http"

	"github.com/jonathan/jobmatch/internal/ranking"
)

// handleRecommendedJobs handles GET /v1/resumes/{resume_id}/recommended-jobs
func (s *Server) handleRecommendedJobs(w http.ResponseWriter, r *http.Request) {
	resumeID, err := pathUUID(r, "resume_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	topK, err := queryCount(r, "top_k", ranking.DefaultTopK)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	recs, err := s.engine.RecommendJobsForResume(r.Context(), resumeID, topK)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

// handleRecommendedResumes handles GET /v1/jobs/{job_id}/recommended-resumes
func (s *Server) handleRecommendedResumes(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "job_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	topK, err := queryCount(r, "top_k", ranking.DefaultTopK)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	recs, err := s.engine.RecommendResumesForJob(r.Context(), jobID, topK)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

// handleMatchedJobs handles GET /v1/resumes/{resume_id}/matched-jobs
func (s *Server) handleMatchedJobs(w http.ResponseWriter, r *http.Request) {
	resumeID, err := pathUUID(r, "resume_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	limit, err := queryCount(r, "limit", ranking.DefaultMatchLimit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	matches, err := s.engine.MatchJobsForResume(r.Context(), resumeID, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, matches)
}

// handleMatchedCandidates handles GET /v1/jobs/{job_id}/matched-candidates
func (s *Server) handleMatchedCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "job_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	limit, err := queryCount(r, "limit", ranking.DefaultMatchLimit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	matches, err := s.engine.MatchCandidatesForJobID(r.Context(), jobID, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, matches)
}
