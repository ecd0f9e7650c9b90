// Package cli defines the command tree for the organic-scanner binary.
package cli

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "organic-scanner",
	Short: "Spectral produce scanner: classify fruit type and organic status from 8-channel reflectance data",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(generateCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
