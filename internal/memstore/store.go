// Package memstore is an in-process implementation of the ranking store.
// It backs the offline CLI commands and the engine tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/types"
)

// Store keeps jobs, candidate features, applications and saved keywords in memory.
// Insertion order is the tie-break for equal timestamps.
type Store struct {
	mu           sync.RWMutex
	jobs         []types.JobPosting
	features     []types.CandidateFeatures
	applications map[uuid.UUID][]uuid.UUID
	keywords     map[uuid.UUID][]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		applications: make(map[uuid.UUID][]uuid.UUID),
		keywords:     make(map[uuid.UUID][]string),
	}
}

// AddJobs appends jobs, replacing any existing job with the same ID in place.
func (s *Store) AddJobs(jobs ...types.JobPosting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range jobs {
		if i := s.jobIndex(j.ID); i >= 0 {
			s.jobs[i] = j
			continue
		}
		s.jobs = append(s.jobs, j)
	}
}

// AddFeatures appends candidate features, replacing any record with the same resume ID in place.
func (s *Store) AddFeatures(features ...types.CandidateFeatures) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range features {
		if i := s.featureIndex(f.ResumeID); i >= 0 {
			s.features[i] = f
			continue
		}
		s.features = append(s.features, f)
	}
}

// AddApplication records that resumeID applied to jobID.
func (s *Store) AddApplication(jobID, resumeID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[jobID] = append(s.applications[jobID], resumeID)
}

// SaveJobKeywords replaces the saved keywords of a job.
func (s *Store) SaveJobKeywords(_ context.Context, jobID uuid.UUID, keywords []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keywords[jobID] = append([]string(nil), keywords...)
	return nil
}

// GetResumeFeatures returns nil, nil when the resume has no features.
func (s *Store) GetResumeFeatures(ctx context.Context, resumeID uuid.UUID) (*types.CandidateFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.featureIndex(resumeID); i >= 0 {
		f := s.features[i]
		return &f, nil
	}
	return nil, nil
}

// GetJob returns nil, nil when the job does not exist.
func (s *Store) GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.jobIndex(jobID); i >= 0 {
		j := s.jobs[i]
		return &j, nil
	}
	return nil, nil
}

// ListActiveJobs returns up to limit active jobs, most recently posted first.
func (s *Store) ListActiveJobs(ctx context.Context, limit int) ([]types.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	active := make([]types.JobPosting, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.IsActive {
			active = append(active, j)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(active, func(i, k int) bool {
		return active[i].PostedAt.After(active[k].PostedAt)
	})
	return truncate(active, limit), nil
}

// ListRecentResumeFeatures returns up to limit feature records, most recently updated first.
func (s *Store) ListRecentResumeFeatures(ctx context.Context, limit int) ([]types.CandidateFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	recent := append([]types.CandidateFeatures(nil), s.features...)
	s.mu.RUnlock()

	sort.SliceStable(recent, func(i, k int) bool {
		return recent[i].UpdatedAt.After(recent[k].UpdatedAt)
	})
	return truncate(recent, limit), nil
}

// ListApplicantFeatures returns the features of every resume that applied to jobID,
// in application order. Applications without features are skipped.
func (s *Store) ListApplicantFeatures(ctx context.Context, jobID uuid.UUID) ([]types.CandidateFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	out := make([]types.CandidateFeatures, 0, len(s.applications[jobID]))
	for _, resumeID := range s.applications[jobID] {
		if seen[resumeID] {
			continue
		}
		seen[resumeID] = true
		if i := s.featureIndex(resumeID); i >= 0 {
			out = append(out, s.features[i])
		}
	}
	return out, nil
}

// GetJobKeywords returns the saved keywords of a job, or nil.
func (s *Store) GetJobKeywords(ctx context.Context, jobID uuid.UUID) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	kw, ok := s.keywords[jobID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), kw...), nil
}

func (s *Store) jobIndex(id uuid.UUID) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) featureIndex(id uuid.UUID) int {
	for i := range s.features {
		if s.features[i].ResumeID == id {
			return i
		}
	}
	return -1
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
