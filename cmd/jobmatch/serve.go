package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/logging"
	"github.com/jonathan/jobmatch/internal/metrics"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: "Start an HTTP server exposing recommendation, matching and keyword ranking endpoints. " +
			"Admin endpoints require JWT_SECRET.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, global)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, global *globalOptions) error {
	logger := global.logger(cfg)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.close()

	m := metrics.New(prometheus.DefaultRegisterer)
	pools, closeCache := newPoolCache(ctx, cfg, store, logger, m)
	defer closeCache()

	var jwtConfig *config.JWTConfig
	if os.Getenv("JWT_SECRET") != "" {
		jwtConfig, err = config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("failed to create JWT config: %w", err)
		}
	} else {
		logger.Warn().Msg("JWT_SECRET not set, admin endpoints are disabled")
	}

	engine := ranking.NewEngine(pools,
		ranking.WithDims(cfg.Dims),
		ranking.WithLogger(logging.Component(logger, "ranking")),
		ranking.WithMetrics(m),
	)

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		JWT:         jwtConfig,
	}, server.Deps{
		Engine:   engine,
		Store:    pools,
		Keywords: store,
		Cache:    pools,
		Logger:   logger,
		Metrics:  m,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info().Str("driver", store.driver).Int("port", cfg.Port).Msg("starting jobmatch")
	return srv.Start(ctx)
}
