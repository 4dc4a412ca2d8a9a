package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flexnode/dsm/config"
	"github.com/flexnode/dsm/core/metrics"
	"github.com/flexnode/dsm/core/results"
	"github.com/flexnode/dsm/core/scenario"
	_ "github.com/flexnode/dsm/infra/metrics"
	"github.com/flexnode/dsm/pkg/export"
)

var runApproach string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve the configured scenario with one variant",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runApproach, "approach", "a", "", "variant override, e.g. dlr")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, runner, err := setup()
	if err != nil {
		return err
	}
	defer runner.Close()

	approach := cfg.Scenario.DSM.Approach
	if runApproach != "" {
		approach = runApproach
	}
	if approach == "all" {
		outs, err := runner.Compare(ctx, nil)
		if err != nil {
			return err
		}
		if err := writeOutcomes(cfg.Export, cfg.Scenario.Name, outs); err != nil {
			return err
		}
		for _, out := range outs {
			fmt.Printf("%s: objective %.3f (%s)\n", out.Approach, out.Summary.Objective, out.Duration)
		}
		return nil
	}

	out, err := runner.Run(ctx, approach)
	if err != nil {
		return err
	}
	if err := writeOutcomes(cfg.Export, cfg.Scenario.Name, []*scenario.Outcome{out}); err != nil {
		return err
	}
	fmt.Printf("%s: objective %.3f (%s)\n", out.Approach, out.Summary.Objective, out.Duration)
	return nil
}

// setup loads the configuration and wires the metrics sink into a runner.
func setup() (*config.Config, *scenario.Runner, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Logging.Apply()

	sink, err := metrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics sink: %w", err)
	}
	runner := scenario.NewRunner(cfg.Scenario, filepath.Dir(cfgPath), sink)
	return cfg, runner, nil
}

// writeOutcomes writes one table per outcome plus the summary files.
func writeOutcomes(cfg config.ExportConfig, name string, outs []*scenario.Outcome) error {
	if cfg.Format == "none" {
		return nil
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return err
	}
	sums := make([]results.Summary, 0, len(outs))
	for _, out := range outs {
		sums = append(sums, out.Summary)
		path := filepath.Join(cfg.Dir, fmt.Sprintf("%s_%s.csv", name, out.Approach))
		if err := writeFile(path, func(f *os.File) error {
			return export.WriteTableCSV(f, out.Table)
		}); err != nil {
			return err
		}
	}
	if err := writeFile(filepath.Join(cfg.Dir, name+"_summary.csv"), func(f *os.File) error {
		return export.WriteSummariesCSV(f, sums)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(cfg.Dir, name+"_summary.json"), func(f *os.File) error {
		return export.WriteSummariesJSON(f, sums)
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}
