package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/jobmatch/internal/logging"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/spf13/cobra"
)

// withEngine opens the configured store, builds an engine over it and runs fn.
func withEngine(ctx context.Context, global *globalOptions, fn func(*ranking.Engine) error) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	logger := global.logger(cfg)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.close()

	engine := ranking.NewEngine(store,
		ranking.WithDims(cfg.Dims),
		ranking.WithLogger(logging.Component(logger, "ranking")),
	)
	return fn(engine)
}

func parseID(flag, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return id, nil
}

func newRecommendJobsCmd(global *globalOptions) *cobra.Command {
	var resumeID, out string
	var topK int

	cmd := &cobra.Command{
		Use:   "recommend-jobs",
		Short: "Recommend active jobs for a resume by embedding similarity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("resume", resumeID)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), global, func(e *ranking.Engine) error {
				recs, err := e.RecommendJobsForResume(cmd.Context(), id, topK)
				if err != nil {
					return fmt.Errorf("failed to recommend jobs: %w", err)
				}
				return global.writeResult(cmd.OutOrStdout(), out, recs)
			})
		},
	}

	cmd.Flags().StringVar(&resumeID, "resume", "", "Resume ID (required)")
	cmd.Flags().IntVar(&topK, "top-k", ranking.DefaultTopK, "Number of jobs to return")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	markRequired(cmd, "resume")
	return cmd
}

func newRecommendResumesCmd(global *globalOptions) *cobra.Command {
	var jobID, out string
	var topK int

	cmd := &cobra.Command{
		Use:   "recommend-resumes",
		Short: "Recommend recent resumes for a job by embedding similarity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("job", jobID)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), global, func(e *ranking.Engine) error {
				recs, err := e.RecommendResumesForJob(cmd.Context(), id, topK)
				if err != nil {
					return fmt.Errorf("failed to recommend resumes: %w", err)
				}
				return global.writeResult(cmd.OutOrStdout(), out, recs)
			})
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Job ID (required)")
	cmd.Flags().IntVar(&topK, "top-k", ranking.DefaultTopK, "Number of resumes to return")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	markRequired(cmd, "job")
	return cmd
}

func newMatchJobsCmd(global *globalOptions) *cobra.Command {
	var resumeID, out string
	var limit int

	cmd := &cobra.Command{
		Use:   "match-jobs",
		Short: "Match active jobs to a resume by skill overlap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("resume", resumeID)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), global, func(e *ranking.Engine) error {
				matches, err := e.MatchJobsForResume(cmd.Context(), id, limit)
				if err != nil {
					return fmt.Errorf("failed to match jobs: %w", err)
				}
				return global.writeResult(cmd.OutOrStdout(), out, matches)
			})
		},
	}

	cmd.Flags().StringVar(&resumeID, "resume", "", "Resume ID (required)")
	cmd.Flags().IntVar(&limit, "limit", ranking.DefaultMatchLimit, "Maximum number of matches")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	markRequired(cmd, "resume")
	return cmd
}

func newMatchCandidatesCmd(global *globalOptions) *cobra.Command {
	var jobID, out string
	var limit int

	cmd := &cobra.Command{
		Use:   "match-candidates",
		Short: "Match recent candidates to a job by skill overlap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("job", jobID)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), global, func(e *ranking.Engine) error {
				matches, err := e.MatchCandidatesForJobID(cmd.Context(), id, limit)
				if err != nil {
					return fmt.Errorf("failed to match candidates: %w", err)
				}
				return global.writeResult(cmd.OutOrStdout(), out, matches)
			})
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Job ID (required)")
	cmd.Flags().IntVar(&limit, "limit", ranking.DefaultMatchLimit, "Maximum number of matches")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	markRequired(cmd, "job")
	return cmd
}

func newRankResumesCmd(global *globalOptions) *cobra.Command {
	var jobID, out string
	var keywords []string

	cmd := &cobra.Command{
		Use:   "rank-resumes",
		Short: "Rank a job's applicants by keyword Jaccard similarity",
		Long:  "Rank every applicant of a job against --keyword values, or the job's saved keywords when none are given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("job", jobID)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), global, func(e *ranking.Engine) error {
				result, err := e.RankResumesByKeywords(cmd.Context(), id, keywords)
				if err != nil {
					return fmt.Errorf("failed to rank resumes: %w", err)
				}
				return global.writeResult(cmd.OutOrStdout(), out, result)
			})
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Job ID (required)")
	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "Keyword to rank by (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	markRequired(cmd, "job")
	return cmd
}
