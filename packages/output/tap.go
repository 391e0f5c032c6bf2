package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
)

// TAPFormatter formats suite reports in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer      io.Writer
	testCount   int
	results     []tapResult
	abortReason string
}

type tapResult struct {
	number  int
	name    string
	passed  bool
	details string
	status  int
	curl    string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		f.testCount++
		f.results = append(f.results, tapResult{
			number:  f.testCount,
			name:    r.Name,
			passed:  r.Success,
			details: r.Details,
			status:  r.Status,
			curl:    r.Curl,
		})
	}
	if result.Aborted {
		f.abortReason = result.AbortReason
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *TAPFormatter) FormatHeader(baseURL string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
		fmt.Fprintf(f.writer, "  ---\n")
		fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.details))
		if r.status == 0 {
			fmt.Fprintf(f.writer, "  severity: error\n")
		} else {
			fmt.Fprintf(f.writer, "  status: %d\n", r.status)
		}
		if r.curl != "" {
			fmt.Fprintf(f.writer, "  curl: %s\n", escapeYAML(r.curl))
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	if f.abortReason != "" {
		fmt.Fprintf(f.writer, "Bail out! %s\n", f.abortReason)
	}

	_, err := fmt.Fprintln(f.writer)
	return err
}

func escapeYAML(s string) string {
	// Quote when the value contains YAML indicators
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
