// Package cli provides the command-line interface for brainmap.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spencrmartin/brainmap/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config
	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "brainmap",
	Short: "Knowledge-graph layout engine",
	Long: `Brainmap lays out a personal knowledge base as a node-link graph:
a force simulation positions items so proximity encodes content
similarity, hull overlays trace regions and projects, and semantic
zoom reshapes the rendering as the view scales.

Snapshots come from the brian data service or from local JSON files;
brainmap computes positions, hulls and frames from them.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(hullsCmd)
	rootCmd.AddCommand(watchCmd)
}
