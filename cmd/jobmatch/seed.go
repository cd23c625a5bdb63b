package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type seedOptions struct {
	candidates   string
	jobs         string
	applications string
}

func newSeedCmd(global *globalOptions) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture jobs, candidates and applications into the database",
		Long: "Upserts schema-validated job and candidate fixtures, and optionally job applications, " +
			"into the configured database. Intended for local SQLite setups and demos.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.candidates, "candidates", "c", "", "Path to candidate features JSON file")
	cmd.Flags().StringVarP(&opts.jobs, "jobs", "j", "", "Path to job postings JSON file")
	cmd.Flags().StringVarP(&opts.applications, "applications", "a", "", "Path to applications JSON file ([{\"job_id\",\"resume_id\"}])")
	cmd.MarkFlagsOneRequired("candidates", "jobs", "applications")
	return cmd
}

func runSeed(cmd *cobra.Command, global *globalOptions, opts *seedOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	logger := global.logger(cfg)
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.close()

	var nJobs, nCandidates, nApplications int

	if opts.jobs != "" {
		jobs, err := loadJobs(opts.jobs)
		if err != nil {
			return err
		}
		for i := range jobs {
			if err := store.UpsertJob(ctx, &jobs[i]); err != nil {
				return fmt.Errorf("failed to seed job %s: %w", jobs[i].ID, err)
			}
		}
		nJobs = len(jobs)
	}

	if opts.candidates != "" {
		candidates, err := loadCandidates(opts.candidates)
		if err != nil {
			return err
		}
		for i := range candidates {
			if err := store.UpsertResumeFeatures(ctx, &candidates[i]); err != nil {
				return fmt.Errorf("failed to seed resume features %s: %w", candidates[i].ResumeID, err)
			}
		}
		nCandidates = len(candidates)
	}

	if opts.applications != "" {
		apps, err := loadApplications(opts.applications)
		if err != nil {
			return err
		}
		for _, app := range apps {
			if err := store.AddApplication(ctx, app.JobID, app.ResumeID); err != nil {
				return fmt.Errorf("failed to seed application %s -> %s: %w", app.ResumeID, app.JobID, err)
			}
		}
		nApplications = len(apps)
	}

	logger.Info().
		Int("jobs", nJobs).
		Int("candidates", nCandidates).
		Int("applications", nApplications).
		Msg("seed complete")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d jobs, %d candidates, %d applications\n", nJobs, nCandidates, nApplications)
	return nil
}
