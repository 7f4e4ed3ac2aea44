package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/analysis"
	"github.com/clintrovert/scopesync/internal/config"
	"github.com/clintrovert/scopesync/internal/console"
	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/internal/synth"
	"github.com/clintrovert/scopesync/pkg/types"
)

func newParseCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse <analysis-file>",
		Short: "Preview the epics, sprints and stories extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parseFile(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the extracted model as JSON")
	return cmd
}

func newSyncCmd() *cobra.Command {
	var projectID string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sync <analysis-file>",
		Short: "Create the extracted structure on Jira",
		Long: `Create the extracted structure on Jira. Credentials come from the
stored project given by --project, or from the jira block of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			result, err := parseFile(args[0])
			if err != nil {
				return err
			}
			printResult(result)
			if dryRun {
				console.Warning("Dry run, nothing was created on Jira")
				return nil
			}

			creds := cfg.Jira.Credentials()
			if projectID != "" {
				if creds, err = storedCredentials(cmd.Context(), cfg, projectID); err != nil {
					return err
				}
			}

			logger := newLogger()
			defer logger.Sync()

			synthesizer := synth.NewSynthesizer(synth.JiraFactory(cfg.Jira.TimeoutOrDefault(), logger), logger)
			report := synthesizer.Synthesize(cmd.Context(), creds, result.Analysis)
			if !report.Success {
				return fmt.Errorf("%s", report.Message)
			}
			console.Success("%s", report.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Stored project whose credentials are used")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Show what would be created without calling Jira")
	return cmd
}

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage stored projects",
	}

	var name, description string
	setJira := &cobra.Command{
		Use:   "set-jira [project-id]",
		Short: "Store a project with the jira block of the config file",
		Long: `Store a project with the jira block of the config file. Without an
id a new project is created; with an id the project is updated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			store, err := project.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			p := &types.Project{Name: name, Description: description}
			if len(args) == 1 {
				if p, err = store.Get(cmd.Context(), args[0]); err != nil {
					return err
				}
				if name != "" {
					p.Name = name
				}
				if description != "" {
					p.Description = description
				}
			}
			p.Jira = cfg.Jira.Credentials()
			if !p.HasJiraConfig() {
				return fmt.Errorf("the config file has no complete jira block")
			}

			if err := store.Save(cmd.Context(), p); err != nil {
				return err
			}
			console.Success("Project %s saved with Jira project %s", p.ID, p.Jira.ProjectKey)
			return nil
		},
	}
	setJira.Flags().StringVarP(&name, "name", "n", "", "Project name")
	setJira.Flags().StringVar(&description, "description", "", "Project description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			store, err := project.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			projects, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				console.Info("No projects stored")
				return nil
			}
			for _, p := range projects {
				status := "sem Jira"
				if p.HasJiraConfig() {
					status = p.Jira.ProjectKey
				}
				fmt.Printf("%s  %-30s  %s\n", p.ID, p.Name, status)
			}
			return nil
		},
	}

	cmd.AddCommand(setJira, list)
	return cmd
}

func parseFile(path string) (*analysis.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file: %w", err)
	}
	return analysis.Parse(string(data))
}

func storedCredentials(ctx context.Context, cfg *config.FileConfig, projectID string) (types.JiraCredentials, error) {
	store, err := project.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return types.JiraCredentials{}, err
	}
	defer store.Close()
	return store.Credentials(ctx, projectID)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func printResult(result *analysis.Result) {
	console.Title("Projeto: %s", result.ProjectName)
	console.Separator()
	console.Info("Épicos: %d", len(result.Epics))
	for _, e := range result.Epics {
		fmt.Printf("   %s  %s (%d pts)\n", e.ID, e.Name, e.StoryPoints)
	}
	console.Info("Sprints: %d", len(result.Sprints))
	for _, s := range result.Sprints {
		fmt.Printf("   %s  %s  %s → %s\n", s.ID, s.Name, s.StartDate, s.EndDate)
	}
	console.Info("Stories: %d", len(result.UserStories))
	for _, u := range result.UserStories {
		fmt.Printf("   %s  %s [%d pts, %s]\n", u.ID, u.Title, u.StoryPoints, u.Priority)
	}
	if verbose {
		for _, d := range result.Diagnostics {
			console.Warning("%s/%s: %s", d.Stage, d.Tier, d.Message)
		}
	}
	console.Separator()
}
