package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/reviewpulse/trackserver/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the loaded configuration, available to all subcommands.
var Cfg *config.Config

// RootCmd is the base command for the CLI application.
// Subcommands (run-server, create, stats, migrate) register themselves via
// their own init() functions, which keeps the command packages decoupled
// and avoids import cycles.
var RootCmd = &cobra.Command{
	Use:   "trackserver",
	Short: "Review request click tracking server",
	Long: `A tracking server that resolves opaque review link identifiers,
records click events, and redirects customers to the right review page.`,
}

// Execute is the main entry point for the Cobra application, called from main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Configuration is loaded before any command runs
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration ahead of every command
// execution via cobra.OnInitialize.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
