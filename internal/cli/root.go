package cli

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the wsctl root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wsctl",
		Short: "Workspace automation for the experiment registry",
		Long: `wsctl automates the experiment workspace conventions: package scaffolding,
compliance checks, data asset registration, run submission and evaluation.

Workspace-level defaults (registry URL, project id, compute target) are read
from workspace.yaml at the workspace root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, err := log.ParseLevel(mustString(cmd, "log-level"))
			if err != nil {
				level = log.InfoLevel
			}
			log.SetLevel(level)
			log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
		},
	}

	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "Workspace root directory")
	rootCmd.PersistentFlags().String("registry", "", "Registry URL (overrides workspace.yaml)")
	rootCmd.PersistentFlags().String("project", "", "Project id (overrides workspace.yaml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newPkgCmd(),
		newCheckCmd(),
		newDataCmd(),
		newRunCmd(),
		newEvalCmd(),
	)

	return rootCmd
}

// commandContext resolves the workspace root, config, and registry client for
// one invocation.
type commandContext struct {
	Root   string
	Config *WorkspaceConfig
	Client *Client
}

func newCommandContext(cmd *cobra.Command) (*commandContext, error) {
	root := mustString(cmd, "workspace")

	config, err := LoadWorkspaceConfig(root)
	if err != nil {
		return nil, err
	}

	if v := mustString(cmd, "registry"); v != "" {
		config.RegistryURL = v
	}
	if v := mustString(cmd, "project"); v != "" {
		config.ProjectID = v
	}

	return &commandContext{
		Root:   root,
		Config: config,
		Client: NewClient(config.RegistryURL, config.ProjectID, time.Duration(config.Timeout)),
	}, nil
}

func (cc *commandContext) requireProject() error {
	if cc.Config.ProjectID == "" {
		return fmt.Errorf("no project id: set project_id in workspace.yaml or pass --project")
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
