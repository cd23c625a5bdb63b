package main

import (
	"fmt"
	"os"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	pretty     bool
	format     string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "jobmatch",
		Short: "Job and candidate matching engine",
		Long: "jobmatch ranks jobs for resumes and resumes for jobs using hashed text embeddings, " +
			"skill-overlap matching and keyword Jaccard scoring, over PostgreSQL, SQLite or fixture files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Human-readable console logs")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", formatJSON, "Result output format: json or text")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newRecommendJobsCmd(opts),
		newRecommendResumesCmd(opts),
		newMatchJobsCmd(opts),
		newMatchCandidatesCmd(opts),
		newRankResumesCmd(opts),
		newScoreCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
	)

	return rootCmd
}

// loadConfig loads, defaults and validates the configuration, applying flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if o.logLevel != "" {
		merged.LogLevel = o.logLevel
	}
	if o.pretty {
		merged.PrettyLogs = true
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// logger builds the process logger. Logs go to stderr so stdout stays parseable.
func (o *globalOptions) logger(cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.PrettyLogs,
		Output: os.Stderr,
	})
}

// markRequired marks flags as required, panicking on programmer error.
func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
