package main

import (
	"github.com/aouyang1/go-trend/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "trendctl",
		Short:        "Detect trends, seasonality and anomalies in time series",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "Log format (json, console)")

	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newServeCmd())
	return cmd
}

// cliLogger writes to the command's error stream
func (o *rootOptions) cliLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := cmd.ErrOrStderr()
	if o.logFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true}
	}
	return logger.NewWithWriter(out, level), nil
}
