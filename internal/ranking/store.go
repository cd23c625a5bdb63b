package ranking

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/types"
)

// Store is the read side the engine fetches its targets and pools from.
// Lookups of a single entity return nil, nil when it does not exist.
type Store interface {
	GetResumeFeatures(ctx context.Context, resumeID uuid.UUID) (*types.CandidateFeatures, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error)
	// ListActiveJobs returns active jobs, most recently posted first.
	ListActiveJobs(ctx context.Context, limit int) ([]types.JobPosting, error)
	// ListRecentResumeFeatures returns feature records, most recently updated first.
	ListRecentResumeFeatures(ctx context.Context, limit int) ([]types.CandidateFeatures, error)
	ListApplicantFeatures(ctx context.Context, jobID uuid.UUID) ([]types.CandidateFeatures, error)
	// GetJobKeywords returns nil when no keywords are saved for the job.
	GetJobKeywords(ctx context.Context, jobID uuid.UUID) ([]string, error)
}
