// Package cmd wires the portfolio's command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site",
	Long: `Serves the portfolio: home, about, design gallery with case studies,
development projects and contact links, with an animated particle trail
behind the design and development views.

Running without a subcommand is the same as "portfolio serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./portfolio.yaml if present)")
}
