package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/neuroped/cds/internal/config"
	"github.com/neuroped/cds/internal/domain/crashtest"
	"github.com/neuroped/cds/internal/domain/evaluation"
	"github.com/neuroped/cds/internal/domain/patient"
	"github.com/neuroped/cds/internal/domain/pipeline"
	"github.com/neuroped/cds/internal/domain/scenario"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// errUnhealthy makes the process exit non-zero after the report is printed.
var errUnhealthy = errors.New("crash test failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cds-server",
		Short:        "Pediatric neuro-inflammatory decision support",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(crashtestCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(scenariosCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and CDS Hooks server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, newLogger(cfg, os.Stdout))
		},
	}
}

func crashtestCmd() *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "crashtest",
		Short: "Run the clinical regression battery",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := crashtest.NewRunner(crashtest.WithParallelism(parallel)).
				Run(cmdContext(cmd.Context()), crashtest.DefaultSuite())
			writeReport(cmd.OutOrStdout(), rep)
			if !rep.Healthy() {
				return errUnhealthy
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "scenarios evaluated concurrently")
	return cmd
}

func writeReport(w io.Writer, rep crashtest.Report) {
	for _, c := range rep.Cases {
		status := "PASS"
		if !c.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %-14s %s\n", status, c.Scenario, c.Label)
		if c.Error != "" {
			fmt.Fprintf(w, "      error: %s\n", c.Error)
		}
		for _, f := range c.Failures() {
			fmt.Fprintf(w, "      %s: expected %s, got %s\n", f.Name, f.Expected, f.Actual)
		}
	}
	fmt.Fprintln(w, rep.Summary())
}

func evaluateCmd() *cobra.Command {
	var key, file string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a built-in scenario or a patient file and print the record as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc scenario.Scenario
			var err error
			switch {
			case key != "" && file != "":
				return errors.New("use either --scenario or --file, not both")
			case key != "":
				sc, err = scenario.Get(key)
			case file != "":
				sc, err = scenario.LoadFile(file)
			default:
				return errors.New("one of --scenario or --file is required")
			}
			if err != nil {
				return err
			}

			rec, err := patient.New(sc.Input)
			if err != nil {
				return fmt.Errorf("%s: %w", sc.Key, err)
			}
			pipeline.Run(rec)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(evaluation.ScenarioResponse{
				Scenario: scenario.Summary{Key: sc.Key, Label: sc.Label},
				Record:   rec,
			})
		},
	}
	cmd.Flags().StringVarP(&key, "scenario", "s", "", "built-in scenario key")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON patient file")
	return cmd
}

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL")
			for _, s := range scenario.List() {
				fmt.Fprintf(tw, "%s\t%s\n", s.Key, s.Label)
			}
			return tw.Flush()
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).Level(cfg.Level()).With().Timestamp().Str("service", "cds-server").Logger()
}

// cmdContext returns ctx or Background when cobra ran without one.
func cmdContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
