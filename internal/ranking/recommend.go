package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/similarity"
	"github.com/jonathan/jobmatch/internal/textproc"
	"github.com/jonathan/jobmatch/internal/types"
	"golang.org/x/sync/errgroup"
)

// RecommendJobsForResume ranks active jobs by cosine similarity to the resume's
// hashed embedding. A missing resume yields an empty list. topK below 1 is treated as 1.
func (e *Engine) RecommendJobsForResume(ctx context.Context, resumeID uuid.UUID, topK int) (_ []types.JobRecommendation, err error) {
	start := time.Now()
	poolSize, results := 0, 0
	defer func() { e.observe(OpRecommendJobs, start, poolSize, results, err) }()

	topK = max(1, topK)

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
		j, err := e.store.ListActiveJobs(gctx, e.limits.RecommendJobs)
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

	if features == nil || len(jobs) == 0 {
		return []types.JobRecommendation{}, nil
	}
	poolSize = len(jobs)

	target := embedding.EmbedOne(textproc.ResumeText(features), e.dims)
	texts := make([]string, len(jobs))
	for i := range jobs {
		texts[i] = textproc.JobText(&jobs[i])
	}
	vectors := embedding.Embed(texts, e.dims)

	candidates := make([]scored[*types.JobPosting], len(jobs))
	for i := range jobs {
		candidates[i] = scored[*types.JobPosting]{item: &jobs[i], score: similarity.Cosine(target, vectors[i])}
	}

	ranked := rankDescending(candidates, false, topK)
	out := make([]types.JobRecommendation, len(ranked))
	for i, r := range ranked {
		out[i] = FormatJobRecommendation(r.item, r.score)
	}
	results = len(out)
	return out, nil
}

// RecommendResumesForJob ranks recent candidate features by cosine similarity to the
// job's hashed embedding. A missing job yields an empty list. topK below 1 is treated as 1.
func (e *Engine) RecommendResumesForJob(ctx context.Context, jobID uuid.UUID, topK int) (_ []types.ResumeRecommendation, err error) {
	start := time.Now()
	poolSize, results := 0, 0
	defer func() { e.observe(OpRecommendResumes, start, poolSize, results, err) }()

	topK = max(1, topK)

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
		p, err := e.store.ListRecentResumeFeatures(gctx, e.limits.RecommendResumes)
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

	if job == nil || len(pool) == 0 {
		return []types.ResumeRecommendation{}, nil
	}
	poolSize = len(pool)

	target := embedding.EmbedOne(textproc.JobText(job), e.dims)
	texts := make([]string, len(pool))
	for i := range pool {
		texts[i] = textproc.ResumeText(&pool[i])
	}
	vectors := embedding.Embed(texts, e.dims)

	candidates := make([]scored[*types.CandidateFeatures], len(pool))
	for i := range pool {
		candidates[i] = scored[*types.CandidateFeatures]{item: &pool[i], score: similarity.Cosine(target, vectors[i])}
	}

	ranked := rankDescending(candidates, false, topK)
	out := make([]types.ResumeRecommendation, len(ranked))
	for i, r := range ranked {
		out[i] = FormatResumeRecommendation(r.item, r.score)
	}
	results = len(out)
	return out, nil
}
