package runner

import "time"

// RunResult is the report of one suite run.
type RunResult struct {
	BaseURL     string
	StartedAt   time.Time
	Results     []*TestResult
	Run         int
	Passed      int
	Failed      int
	Duration    time.Duration
	Aborted     bool
	AbortReason string
	Latency     LatencySummary
}

// SuccessRate is the passed share as a percentage, 0 when nothing ran.
func (r *RunResult) SuccessRate() float64 {
	if r.Run == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Run) * 100
}

// Failures returns the failed results in execution order.
func (r *RunResult) Failures() []*TestResult {
	var failed []*TestResult
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// ExitCode is 0 when every executed check passed and 1 otherwise.
func (r *RunResult) ExitCode() int {
	if r.Passed == r.Run {
		return 0
	}
	return 1
}
