package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flexnode/dsm/pkg/profile"
)

var (
	genOut  string
	genCfg  profile.Config
	genDays int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic demand and feed-in series",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "profiles.csv", "output file")
	generateCmd.Flags().IntVar(&genDays, "days", 7, "number of days")
	generateCmd.Flags().Int64Var(&genCfg.Seed, "seed", 0, "random seed")
	generateCmd.Flags().Float64Var(&genCfg.BaseDemand, "base-demand", 100, "mean demand in MW")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	genCfg.Days = genDays
	p := profile.Generate(genCfg)

	f, err := os.Create(genOut)
	if err != nil {
		return err
	}
	if err := p.WriteCSV(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("%s: %d steps written to %s\n", uuid.NewString(), len(p.Demand), genOut)
	return nil
}
