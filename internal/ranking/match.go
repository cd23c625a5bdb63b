package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/similarity"
	"github.com/jonathan/jobmatch/internal/types"
	"golang.org/x/sync/errgroup"
)

// MatchJobsForCandidate ranks active jobs by skill-tag overlap with the candidate.
// limit below 1 falls back to DefaultMatchLimit.
func (e *Engine) MatchJobsForCandidate(ctx context.Context, features *types.CandidateFeatures, limit int) (_ []types.JobMatch, err error) {
	start := time.Now()
	poolSize, results := 0, 0
	defer func() { e.observe(OpMatchJobs, start, poolSize, results, err) }()

	if features == nil {
		return []types.JobMatch{}, nil
	}

	jobs, err := e.store.ListActiveJobs(ctx, e.limits.MatchJobs)
	if err != nil {
		return nil, fetchErr(ctx, fmt.Errorf("failed to list active jobs: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	poolSize = len(jobs)
	out := matchJobs(features, jobs, limit)
	results = len(out)
	return out, nil
}

// MatchJobsForResume looks up the resume's features and matches jobs against them.
// A missing resume yields an empty list.
func (e *Engine) MatchJobsForResume(ctx context.Context, resumeID uuid.UUID, limit int) (_ []types.JobMatch, err error) {
	start := time.Now()
	poolSize, results := 0, 0
	defer func() { e.observe(OpMatchJobs, start, poolSize, results, err) }()

	var features *types.CandidateFeatures
	var jobs []types.JobPosting

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := e.store.GetResumeFeatures(gctx, resumeID)
		if err != nil {
			return fmt.Errorf("failed to get resume features: %w", err)
		}
		features = f
		return nil
	})
	g.Go(func() error {
		j, err := e.store.ListActiveJobs(gctx, e.limits.MatchJobs)
		if err != nil {
			return fmt.Errorf("failed to list active jobs: %w", err)
		}
		jobs = j
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fetchErr(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if features == nil {
		return []types.JobMatch{}, nil
	}
	poolSize = len(jobs)
	out := matchJobs(features, jobs, limit)
	results = len(out)
	return out, nil
}

// MatchCandidatesForJob ranks recent candidates by skill-tag overlap with the job.
// limit below 1 falls back to DefaultMatchLimit.
func (e *Engine) MatchCandidatesForJob(ctx context.Context, job *types.JobPosting, limit int) (_ []types.CandidateMatch, err error) {
	start := time.Now()
	poolSize, results := 0, 0
	defer func() { e.observe(OpMatchCandidates, start, poolSize, results, err) }()

	if job == nil {
		return []types.CandidateMatch{}, nil
	}

	pool, err := e.store.ListRecentResumeFeatures(ctx, e.limits.MatchCandidates)
	if err != nil {
		return nil, fetchErr(ctx, fmt.Errorf("failed to list resume features: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	poolSize = len(pool)
	out := matchCandidates(job, pool, limit)
	results = len(out)
	return out, nil
}

// MatchCandidatesForJobID looks up the job and matches candidates against it.
// A missing job yields an empty list.
func (e *Engine) MatchCandidatesForJobID(ctx context.Context, jobID uuid.UUID, limit int) (_ []types.CandidateMatch, err error) {
	start := time.Now()
	poolSize, results := 0, 0
	defer func() { e.observe(OpMatchCandidates, start, poolSize, results, err) }()

	var job *types.JobPosting
	var pool []types.CandidateFeatures

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		j, err := e.store.GetJob(gctx, jobID)
		if err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}
		job = j
		return nil
	})
	g.Go(func() error {
		p, err := e.store.ListRecentResumeFeatures(gctx, e.limits.MatchCandidates)
		if err != nil {
			return fmt.Errorf("failed to list resume features: %w", err)
		}
		pool = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fetchErr(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if job == nil {
		return []types.CandidateMatch{}, nil
	}
	poolSize = len(pool)
	out := matchCandidates(job, pool, limit)
	results = len(out)
	return out, nil
}

func matchJobs(features *types.CandidateFeatures, jobs []types.JobPosting, limit int) []types.JobMatch {
	if limit < 1 {
		limit = DefaultMatchLimit
	}

	candidates := make([]scored[*types.JobPosting], len(jobs))
	for i := range jobs {
		candidates[i] = scored[*types.JobPosting]{
			item:  &jobs[i],
			score: similarity.OverlapCoefficient(features.Skills, jobs[i].Skills),
		}
	}

	ranked := rankDescending(candidates, false, limit)
	out := make([]types.JobMatch, len(ranked))
	for i, r := range ranked {
		shared := similarity.SharedTags(features.Skills, r.item.Skills)
		out[i] = FormatJobMatch(r.item, r.score, shared)
	}
	return out
}

func matchCandidates(job *types.JobPosting, pool []types.CandidateFeatures, limit int) []types.CandidateMatch {
	if limit < 1 {
		limit = DefaultMatchLimit
	}

	candidates := make([]scored[*types.CandidateFeatures], len(pool))
	for i := range pool {
		candidates[i] = scored[*types.CandidateFeatures]{
			item:  &pool[i],
			score: similarity.OverlapCoefficient(job.Skills, pool[i].Skills),
		}
	}

	ranked := rankDescending(candidates, false, limit)
	out := make([]types.CandidateMatch, len(ranked))
	for i, r := range ranked {
		shared := similarity.SharedTags(job.Skills, r.item.Skills)
		out[i] = FormatCandidateMatch(r.item, r.score, shared)
	}
	return out
}
