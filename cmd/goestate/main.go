package main

import (
	"fmt"
	"os"

	"github.com/biodoia/goestate/cmd/goestate/commands"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goestate",
		Short: "GoEstate - Conversational Real Estate Assistant",
		Long: `GoEstate - Multi-Agent Real Estate Assistant

A conversational backend that coordinates specialized real estate agents
over a resilient chain of LLM providers.

Features:
  • Three specialized personas (search, property detail, scheduling)
  • Deterministic keyword routing with explicit handoff support
  • Four-tier provider chain with local and static fallback
  • Per-session conversation memory and long-term client preferences
  • Comprehensive event stream and Prometheus metrics`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Log level (debug, info, warn, error)")

	// Add all commands
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.MigrateCmd)
	rootCmd.AddCommand(commands.DoctorCmd)

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("GoEstate version %s\n", version)
			fmt.Printf("Commit: %s\n", commit)
		},
	})

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
