package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var compareApproaches []string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Solve the configured scenario with every variant",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareApproaches, "approaches", nil,
		"variants to compare, default all")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, runner, err := setup()
	if err != nil {
		return err
	}
	defer runner.Close()

	outs, err := runner.Compare(ctx, compareApproaches)
	if err != nil {
		return err
	}
	if err := writeOutcomes(cfg.Export, cfg.Scenario.Name, outs); err != nil {
		return err
	}
	for _, out := range outs {
		fmt.Printf("%-14s objective %10.3f  shift %8.2f  shed %8.2f  (%s)\n",
			out.Approach, out.Summary.Objective,
			out.Summary.EnergyDoShift, out.Summary.EnergyDoShed, out.Duration)
	}
	return nil
}
