// Package cli provides the command-line interface for bskypulse.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/config"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var (
	configDir string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "bskypulse",
	Short: "Export and analyze a Bluesky account's post history",
	Long: "bskypulse logs in to Bluesky with an app password, pages through an account's posts, " +
		"exports them to CSV in your timezone and reports when and what to post.",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("bskypulse %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", config.DefaultConfigDir, "config directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
