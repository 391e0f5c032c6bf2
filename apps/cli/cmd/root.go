package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "goalcheck",
	Short: "End-to-end API checks for GoalForge backends.",
	Long: `goalcheck runs a fixed, ordered suite of API checks against a GoalForge
backend: registration, login, category CRUD and goal CRUD. It exits 0 when
every check passed and 1 otherwise.

Use 'goalcheck mock' to start a local reference backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(execute(rootCmd, os.Stderr))
}

func execute(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	code := exitCodeFor(err)

	var exitErr *ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.Err == nil) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if code == ExitUsageError {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
		}
	}
	return code
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
