package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	BaseURL     string       `json:"baseUrl"`
	Summary     JSONSummary  `json:"summary"`
	Tests       []JSONTest   `json:"tests"`
	Latency     *JSONLatency `json:"latency,omitempty"`
	Aborted     bool         `json:"aborted,omitempty"`
	AbortReason string       `json:"abortReason,omitempty"`
	Duration    float64      `json:"duration"`
	Time        string       `json:"time"`
}

// JSONSummary represents the test summary
type JSONSummary struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"successRate"`
}

// JSONTest represents a single check
type JSONTest struct {
	Name     string  `json:"name"`
	Section  string  `json:"section"`
	Passed   bool    `json:"passed"`
	Details  string  `json:"details,omitempty"`
	Status   int     `json:"status"`
	Duration float64 `json:"duration"`
	Data     any     `json:"data,omitempty"`
	Curl     string  `json:"curl,omitempty"`
}

// JSONLatency holds the latency percentiles in milliseconds
type JSONLatency struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
}

// JSONFormatter formats suite reports as JSON
type JSONFormatter struct {
	writer      io.Writer
	baseURL     string
	results     []JSONTest
	latency     *JSONLatency
	aborted     bool
	abortReason string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONTest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	f.baseURL = result.BaseURL
	for _, r := range result.Results {
		f.results = append(f.results, JSONTest{
			Name:     r.Name,
			Section:  sectionName(r.Section),
			Passed:   r.Success,
			Details:  r.Details,
			Status:   r.Status,
			Duration: millis(r.Duration),
			Data:     r.Data,
			Curl:     r.Curl,
		})
	}

	if lat := result.Latency; lat.Count > 0 {
		f.latency = &JSONLatency{
			Count: lat.Count,
			Min:   millis(lat.Min),
			Mean:  millis(lat.Mean),
			P50:   millis(lat.P50),
			P95:   millis(lat.P95),
			P99:   millis(lat.P99),
			Max:   millis(lat.Max),
		}
	}
	if result.Aborted {
		f.aborted = true
		f.abortReason = result.AbortReason
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are reported as failed checks
}

func (f *JSONFormatter) FormatHeader(baseURL string) {
	f.baseURL = baseURL
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed int
	for _, t := range f.results {
		if t.Passed {
			passed++
		}
	}

	summary := JSONSummary{
		Total:  len(f.results),
		Passed: passed,
		Failed: len(f.results) - passed,
	}
	if summary.Total > 0 {
		summary.SuccessRate = float64(passed) / float64(summary.Total) * 100
	}

	output := JSONOutput{
		BaseURL:     f.baseURL,
		Summary:     summary,
		Tests:       f.results,
		Latency:     f.latency,
		Aborted:     f.aborted,
		AbortReason: f.abortReason,
		Duration:    millis(totalDuration),
		Time:        time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
