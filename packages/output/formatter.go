package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
)

// Formats lists the accepted values of the --output flag.
var Formats = []string{"console", "json", "junit", "tap", "xlsx"}

// Formatter renders a suite report.
type Formatter interface {
	FormatHeader(baseURL string)
	FormatResult(result *runner.RunResult)
	FormatError(err error)
}

// Flushable is implemented by formatters that write everything at the end.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Options configures New.
type Options struct {
	Verbose bool
	NoColor bool
}

// New returns the formatter for format writing to w.
func New(format string, w io.Writer, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	case "xlsx":
		return NewXLSXFormatter(XLSXWithWriter(w)), nil
	case "", "console":
		return NewConsoleFormatter(
			WithWriter(w),
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use one of %s)", format, strings.Join(Formats, ", "))
	}
}

func sectionName(section string) string {
	if section == "" {
		return "General"
	}
	return section
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
