package main

import (
	"fmt"

	"github.com/jonathan/jobmatch/internal/logging"
	"github.com/jonathan/jobmatch/internal/memstore"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/spf13/cobra"
)

// Scoring modes of the score command.
const (
	modeEmbed   = "embed"
	modeOverlap = "overlap"
)

type scoreOptions struct {
	candidates string
	jobs       string
	mode       string
	resume     string
	topK       int
	dims       int
	out        string
}

func newScoreCmd(global *globalOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank fixture jobs for a fixture candidate without a database",
		Long: "Loads schema-validated candidate and job fixture files into memory and ranks every active job " +
			"for one candidate, by hashed-embedding cosine (embed) or skill overlap (overlap).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.candidates, "candidates", "c", "", "Path to candidate features JSON file (required)")
	cmd.Flags().StringVarP(&opts.jobs, "jobs", "j", "", "Path to job postings JSON file (required)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", modeEmbed, "Scoring mode: embed or overlap")
	cmd.Flags().StringVar(&opts.resume, "resume", "", "Resume ID to score (default: first candidate)")
	cmd.Flags().IntVar(&opts.topK, "top-k", ranking.DefaultTopK, "Number of results (embed mode top_k, overlap mode limit)")
	cmd.Flags().IntVar(&opts.dims, "dims", 0, "Embedding dimensions (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")
	markRequired(cmd, "candidates", "jobs")
	return cmd
}

func runScore(cmd *cobra.Command, global *globalOptions, opts *scoreOptions) error {
	if opts.mode != modeEmbed && opts.mode != modeOverlap {
		return fmt.Errorf("invalid --mode %q: must be %s or %s", opts.mode, modeEmbed, modeOverlap)
	}

	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	logger := global.logger(cfg)

	candidates, err := loadCandidates(opts.candidates)
	if err != nil {
		return err
	}
	jobs, err := loadJobs(opts.jobs)
	if err != nil {
		return err
	}

	target, err := selectCandidate(candidates, opts.resume)
	if err != nil {
		return err
	}

	store := memstore.New()
	store.AddJobs(jobs...)
	store.AddFeatures(candidates...)

	dims := cfg.Dims
	if opts.dims > 0 {
		dims = opts.dims
	}
	engine := ranking.NewEngine(store,
		ranking.WithDims(dims),
		ranking.WithLogger(logging.Component(logger, "ranking")),
	)

	var result any
	switch opts.mode {
	case modeEmbed:
		result, err = engine.RecommendJobsForResume(cmd.Context(), target.ResumeID, opts.topK)
	case modeOverlap:
		result, err = engine.MatchJobsForCandidate(cmd.Context(), target, opts.topK)
	}
	if err != nil {
		return fmt.Errorf("failed to score jobs: %w", err)
	}

	logger.Debug().
		Str("mode", opts.mode).
		Str("resume_id", target.ResumeID.String()).
		Int("jobs", len(jobs)).
		Msg("scored fixture jobs")

	return global.writeResult(cmd.OutOrStdout(), opts.out, result)
}

// selectCandidate returns the candidate with the given resume ID, or the first one when id is empty.
func selectCandidate(candidates []types.CandidateFeatures, id string) (*types.CandidateFeatures, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("candidates file contains no candidates")
	}
	if id == "" {
		return &candidates[0], nil
	}

	resumeID, err := parseID("resume", id)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].ResumeID == resumeID {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("resume %s not found in candidates file", resumeID)
}

