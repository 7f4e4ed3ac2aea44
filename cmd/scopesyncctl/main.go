package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clintrovert/scopesync/internal/console"
)

var (
	configFile string
	verbose    bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "scopesyncctl",
		Short: "ScopeSync - turn analysis documents into Jira epics, sprints and stories",
		Long: `scopesyncctl parses a project analysis document and creates the
resulting epics, sprints and user stories on a Jira project.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log extraction and tracker calls")

	rootCmd.AddCommand(newParseCmd(), newSyncCmd(), newProjectCmd())

	if err := rootCmd.Execute(); err != nil {
		console.Error("Error: %v", err)
		os.Exit(1)
	}
}
