package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/config"
	"github.com/spf13/cobra"
)

// Exit codes for goalcheck CLI
const (
	// ExitSuccess indicates all checks passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more checks failed
	ExitTestFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitOutputError indicates the report could not be written
	ExitOutputError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries an exit code out of a command. A nil Err means the
// problem was already reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitWith(code int) error {
	if code == ExitSuccess {
		return nil
	}
	return &ExitError{Code: code}
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsageError, Err: err}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func exitCodeFor(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsageError
	default:
		return ExitTestFailure
	}
}
