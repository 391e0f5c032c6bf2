package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/config"
	"github.com/abdul-hamid-achik/goalcheck/packages/http"
	"github.com/spf13/cobra"
)

var (
	forceInit   bool
	initBaseURL string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a goalcheck.yaml with default settings",
	Long: `Create a goalcheck.yaml in the current directory holding every setting
with its default value.

Examples:
  goalcheck init
  goalcheck init --base-url http://localhost:8001
  goalcheck init --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().StringVarP(&initBaseURL, "base-url", "u", "", "Base URL to write instead of the default")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	cfg := config.DefaultConfig()
	if initBaseURL != "" {
		if err := http.ValidateURL(initBaseURL); err != nil {
			return usageError(fmt.Errorf("invalid --base-url: %w", err))
		}
		cfg.BaseURL = initBaseURL
	}

	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)
	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'goalcheck run' to execute the checks, or 'goalcheck mock' to start a local backend.\n")

	return nil
}
