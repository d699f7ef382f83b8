package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"datatools/internal/config"
	"datatools/internal/metrics"
	"datatools/internal/metrics/datadog"
)

var (
	verbose           bool
	metricsBackendFlg string
	configPath        string

	// cfg carries defaults loaded from --config. Flags set explicitly on
	// the command line always win over file values.
	cfg = config.Options{}

	// closeMetrics tears down the installed metrics backend after the
	// subcommand returns. Set by setupMetrics, nil when metrics are off.
	closeMetrics func()
)

var rootCmd = &cobra.Command{
	Use:   "datatools",
	Short: "Text and JSON transformation tools",
	Long: `datatools bundles a set of small data-transformation tools:
word-frequency analysis, JSON-to-table conversion (generic and
survey-shaped), delimited dataset joining, and currency conversion.
Tabular results can be exported as TSV, CSV, fixed-width text, JSON or
a SQLite database file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			loaded, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		setupMetrics()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeMetrics != nil {
			closeMetrics()
		}
	},
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: datadog or none (env METRICS_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML options file supplying flag defaults")
}

// applyConfigBool overwrites a flag's backing variable with the config
// file value unless the flag was set on the command line.
func applyConfigBool(cmd *cobra.Command, flag, key string, dst *bool) {
	if !cmd.Flags().Changed(flag) {
		*dst = cfg.Bool(key, *dst)
	}
}

func applyConfigString(cmd *cobra.Command, flag, key string, dst *string) {
	if !cmd.Flags().Changed(flag) {
		*dst = cfg.String(key, *dst)
	}
}

func applyConfigInt(cmd *cobra.Command, flag, key string, dst *int) {
	if !cmd.Flags().Changed(flag) {
		*dst = cfg.Int(key, *dst)
	}
}

// setupMetrics decides the metrics backend: flag, then env, then the
// nop default.
func setupMetrics() {
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "datadog":
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    "datatools",
			Tags:       datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")),
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		if verbose {
			log.Printf("metrics: backend=%v", backendName)
		}
		metrics.SetBackend(b)
		closeMetrics = func() {
			if err := b.Close(); err != nil {
				log.Printf("metrics: datadog close/flush error: %v", err)
			}
		}

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

// observeRun records one tool invocation on the metrics backend.
func observeRun(tool string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"tool": tool, "status": status}
	metrics.IncCounter(metrics.ToolRunsTotal, 1, labels)
	metrics.ObserveHistogram(metrics.RunDurationSeconds, time.Since(start).Seconds(), labels)
}

// readInput returns the contents of the named file, or stdin for "-"
// or no argument.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
