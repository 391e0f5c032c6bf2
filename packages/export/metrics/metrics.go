// Package metrics exports suite run results for monitoring systems.
package metrics

import (
	"sort"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
)

// RunMetrics is the aggregate of one suite run.
type RunMetrics struct {
	BaseURL     string
	FinishedAt  time.Time
	Duration    time.Duration
	Passed      int
	Failed      int
	Aborted     bool
	Latency     runner.LatencySummary
	StatusCodes map[int]int
	Checks      []CheckMetrics
}

// CheckMetrics describes a single check.
type CheckMetrics struct {
	Name     string
	Section  string
	Passed   bool
	Status   int
	Duration time.Duration
}

// Exporter is the interface for metrics exporters
type Exporter interface {
	// Export writes the metrics of a finished run
	Export(m *RunMetrics) error
}

// FromRun aggregates a run report.
func FromRun(result *runner.RunResult) *RunMetrics {
	m := &RunMetrics{
		BaseURL:     result.BaseURL,
		FinishedAt:  result.StartedAt.Add(result.Duration),
		Duration:    result.Duration,
		Passed:      result.Passed,
		Failed:      result.Failed,
		Aborted:     result.Aborted,
		Latency:     result.Latency,
		StatusCodes: make(map[int]int),
		Checks:      make([]CheckMetrics, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		m.StatusCodes[r.Status]++
		m.Checks = append(m.Checks, CheckMetrics{
			Name:     r.Name,
			Section:  r.Section,
			Passed:   r.Success,
			Status:   r.Status,
			Duration: r.Duration,
		})
	}

	return m
}

// Success reports whether the run finished with every check passing.
func (m *RunMetrics) Success() bool {
	return m.Failed == 0 && !m.Aborted
}

// sortedStatusCodes returns the status codes seen in ascending order.
func (m *RunMetrics) sortedStatusCodes() []int {
	codes := make([]int, 0, len(m.StatusCodes))
	for code := range m.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
