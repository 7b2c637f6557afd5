package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	trend "github.com/aouyang1/go-trend"
	"github.com/aouyang1/go-trend/internal/config"
	"github.com/aouyang1/go-trend/internal/logger"
	"github.com/aouyang1/go-trend/internal/metrics"
	"github.com/aouyang1/go-trend/internal/server"
	"github.com/aouyang1/go-trend/internal/sink"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve trend analyses over HTTP",
		Long: fmt.Sprintf(`Serves POST %s. Settings come from the optional config file and
%s_* environment variables, e.g. %s_SERVER_PORT=9090. Variables from --env-file
never override ones already set in the environment.`, server.AnalyzePath, config.EnvPrefix, config.EnvPrefix),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("unable to load env file %s, %w", envFile, err)
				}
			}
			return runServe(cmd, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file loaded into the environment before reading settings")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s, err := sink.New(cfg.Sink, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close sink")
		}
	}()

	h := server.NewHandler(server.HandlerOptions{
		Analyzer: trend.New(&trend.Options{Logger: log}),
		Sink:     s,
		Metrics:  metrics.New(reg),
		Logger:   log,
	})
	srv := server.New(h, cfg.Server, cfg.Metrics, reg, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("sink", s.Name()).Bool("metrics", cfg.Metrics.Enabled).Msg("starting trend service")
	return srv.Run(ctx)
}
