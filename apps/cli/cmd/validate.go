package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validateOpts runSettings

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without running the checks",
	Long: `Load the config file, apply flags and GOALCHECK_* variables, resolve
{{...}} references and report the settings a run would use.

Examples:
  goalcheck validate
  goalcheck validate --config ci.yaml --env-file .env.ci`,
	Args: usageArgs(cobra.NoArgs),
	RunE: validateCommand,
}

func init() {
	addSettingsFlags(validateCmd, &validateOpts)
}

func validateCommand(cmd *cobra.Command, args []string) error {
	unexport, err := exportEnvFile(stringSetting(cmd, "env-file", "GOALCHECK_ENV_FILE", validateOpts.envFile))
	if err != nil {
		return err
	}
	defer unexport()

	cfg, _, err := validateOpts.load(cmd)
	if err != nil {
		return err
	}

	source := validateOpts.configFile(cmd)
	if source == "" {
		source = "(defaults)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config:      %s\n", source)
	fmt.Fprintf(out, "Base URL:    %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "Timeout:     %s\n", cfg.Timeout)
	fmt.Fprintf(out, "Output:      %s\n", cfg.Output)
	if cfg.OutputFile != "" {
		fmt.Fprintf(out, "Output file: %s\n", cfg.OutputFile)
	}
	if cfg.MetricsFile != "" {
		fmt.Fprintf(out, "Metrics:     %s\n", cfg.MetricsFile)
	}
	fmt.Fprintf(out, "Email:       %s\n", cfg.User.Email)
	fmt.Fprintf(out, "Password:    %s\n", strings.Repeat("*", len(cfg.User.Password)))
	fmt.Fprintf(out, "Categories:  %s\n", strings.Join(cfg.DefaultCategories, ", "))
	if cfg.RateLimit > 0 {
		fmt.Fprintf(out, "Rate limit:  %g req/s\n", cfg.RateLimit)
	}
	fmt.Fprintf(out, "Cleanup:     %t\n", cfg.GetCleanup())
	if cfg.GetStrictSchema() {
		fmt.Fprintln(out, "Schema:      strict")
	}
	if cfg.Notify.SlackWebhook != "" {
		when := cfg.Notify.When
		if when == "" {
			when = "failure"
		}
		fmt.Fprintf(out, "Notify:      slack on %s\n", when)
	}
	fmt.Fprintln(out, "Valid")

	return nil
}
