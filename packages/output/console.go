package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
	"github.com/fatih/color"
)

const rule = "============================================================"

// ConsoleFormatter prints a human-readable report. It also implements
// runner.Listener so each check is printed as soon as it is logged.
type ConsoleFormatter struct {
	writer   io.Writer
	verbose  bool
	noColor  bool
	streamed bool
}

var _ runner.Listener = (*ConsoleFormatter)(nil)

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatHeader(baseURL string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s\n", bold("goalcheck: GoalForge API checks"))
	fmt.Fprintf(f.writer, "Target: %s\n", baseURL)
	fmt.Fprintln(f.writer, rule)
}

func (f *ConsoleFormatter) SectionStarted(name string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "\n%s\n", bold(strings.ToUpper(name)+" TESTS"))
}

func (f *ConsoleFormatter) TestLogged(r *runner.TestResult) {
	f.streamed = true
	f.printResult(r)
}

func (f *ConsoleFormatter) Aborted(reason string) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", red("✗"), reason)
}

func (f *ConsoleFormatter) printResult(r *runner.TestResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if r.Success {
		fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), r.Name, cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))
		return
	}

	fmt.Fprintf(f.writer, "  %s %s - %s\n", red("✗"), r.Name, r.Details)
	if f.verbose && r.Curl != "" {
		fmt.Fprintf(f.writer, "    %s %s\n", red("→"), r.Curl)
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if !f.streamed {
		section := ""
		for _, r := range result.Results {
			if r.Section != "" && r.Section != section {
				section = r.Section
				f.SectionStarted(section)
			}
			f.printResult(r)
		}
		if result.Aborted {
			f.Aborted(result.AbortReason)
		}
	}

	fmt.Fprintf(f.writer, "\n%s\n", rule)
	fmt.Fprintf(f.writer, "%s\n", bold("TEST RESULTS SUMMARY"))
	fmt.Fprintln(f.writer, rule)
	fmt.Fprintf(f.writer, "%s\n", green(fmt.Sprintf("Tests Passed: %d", result.Passed)))
	failed := fmt.Sprintf("Tests Failed: %d", result.Failed)
	if result.Failed > 0 {
		failed = red(failed)
	}
	fmt.Fprintf(f.writer, "%s\n", failed)
	fmt.Fprintf(f.writer, "Success Rate: %.1f%%\n", result.SuccessRate())

	if lat := result.Latency; lat.Count > 0 {
		fmt.Fprintf(f.writer, "Latency: p50 %.1fms, p95 %.1fms, max %.1fms\n", millis(lat.P50), millis(lat.P95), millis(lat.Max))
	}
	fmt.Fprintf(f.writer, "Time: %dms\n", result.Duration.Milliseconds())

	if failures := result.Failures(); len(failures) > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", red("FAILED TESTS:"))
		for _, r := range failures {
			fmt.Fprintf(f.writer, "  • %s: %s\n", r.Name, r.Details)
			if f.verbose && r.Curl != "" {
				fmt.Fprintf(f.writer, "    %s\n", r.Curl)
			}
		}
	}
	fmt.Fprintln(f.writer)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
