// Package main is the jobtracker CLI: the local engine server plus commands
// that work on the same data directory.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	dataDir    string
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "jobtracker",
		Short:         "Personal job application tracker",
		Long:          "jobtracker scores a job catalog against your preferences, tracks application status and saved jobs, and builds a daily top-matches digest.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Data directory (default $JOBTRACKER_DATA_DIR or .)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $JOBTRACKER_CONFIG or <data-dir>/config.yml)")

	root.AddCommand(
		newServeCmd(opts),
		newJobsCmd(opts),
		newDigestCmd(opts),
		newPrefsCmd(opts),
		newStatusCmd(opts),
		newSaveCmd(opts),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
