package main

import (
	"fmt"
	"io"
	"os"

	trend "github.com/aouyang1/go-trend"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	input       string
	analysis    string
	sensitivity string
	plot        string
	pretty      bool
	cpuProfile  string
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a JSON analysis request and print the trend result",
		Long: `Reads an analysis request ({"dataPoints": [...], "analysisType": ..., "timeWindow": {...}})
from a file or stdin and writes the trend result as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "Request file, - reads stdin")
	cmd.Flags().StringVarP(&opts.analysis, "type", "t", "", "Override the analysis type (linear, exponential, seasonal, anomaly)")
	cmd.Flags().StringVarP(&opts.sensitivity, "sensitivity", "s", "", "Override the anomaly sensitivity (low, medium, high)")
	cmd.Flags().StringVar(&opts.plot, "plot", "", "Write an html chart of the series and result to this file")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().StringVar(&opts.cpuProfile, "cpuprofile", "", "Write a cpu profile to this directory")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	if opts.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuProfile), profile.Quiet).Stop()
	}

	log, err := root.cliLogger(cmd)
	if err != nil {
		return fmt.Errorf("unable to create logger, %w", err)
	}

	req, err := readRequest(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}
	if opts.analysis != "" {
		req.AnalysisType = trend.AnalysisType(opts.analysis)
	}
	if opts.sensitivity != "" {
		req.Sensitivity = trend.Sensitivity(opts.sensitivity)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	res := trend.New(&trend.Options{Logger: log}).Analyze(req)

	var out []byte
	if opts.pretty {
		out, err = json.MarshalIndent(res, "", "  ")
	} else {
		out, err = json.Marshal(res)
	}
	if err != nil {
		return fmt.Errorf("unable to encode result, %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
		return err
	}

	if opts.plot != "" {
		if err := writePlot(opts.plot, req, res); err != nil {
			return err
		}
		log.Info().Str("file", opts.plot).Msg("wrote plot")
	}
	return nil
}

func readRequest(stdin io.Reader, input string) (trend.AnalysisRequest, error) {
	var req trend.AnalysisRequest

	r := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return req, fmt.Errorf("unable to open request file, %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("unable to decode request, %w", err)
	}
	return req, nil
}

func writePlot(path string, req trend.AnalysisRequest, res trend.TrendResult) error {
	ds, err := trend.Window(req)
	if err != nil {
		return fmt.Errorf("unable to window series for plot, %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create plot file, %w", err)
	}
	defer f.Close()

	if err := trend.PlotResult(f, ds, res); err != nil {
		return fmt.Errorf("unable to render plot, %w", err)
	}
	return nil
}
