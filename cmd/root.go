package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "dsm",
	Short: "Demand-side-management dispatch toolkit",
	Long: "dsm solves unit-commitment style dispatch scenarios with one of " +
		"several demand-response formulation variants and compares them.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
