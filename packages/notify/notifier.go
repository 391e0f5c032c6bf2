// Package notify posts suite run summaries to chat webhooks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when checks fail
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when every check passes
	NotifySuccess NotifyOn = "success"
	// NotifyRecovery sends notifications on failure and on the first passing
	// run after a failure
	NotifyRecovery NotifyOn = "recovery"
)

// ParseNotifyOn converts a config value. Empty means NotifyFailure.
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch on := NotifyOn(s); on {
	case "":
		return NotifyFailure, nil
	case NotifyAlways, NotifyFailure, NotifySuccess, NotifyRecovery:
		return on, nil
	default:
		return "", fmt.Errorf("unknown notification policy %q", s)
	}
}

// Summary is the part of a run report sent to chat.
type Summary struct {
	BaseURL     string
	Run         int
	Passed      int
	Failed      int
	SuccessRate float64
	Duration    time.Duration
	AbortReason string
	Failures    []Failure
	IsRecovery  bool
}

// Failure is one failed check.
type Failure struct {
	Name    string
	Details string
}

// NewSummary extracts a Summary from a run report.
func NewSummary(result *runner.RunResult) *Summary {
	s := &Summary{
		BaseURL:     result.BaseURL,
		Run:         result.Run,
		Passed:      result.Passed,
		Failed:      result.Failed,
		SuccessRate: result.SuccessRate(),
		Duration:    result.Duration,
		AbortReason: result.AbortReason,
	}
	for _, r := range result.Failures() {
		s.Failures = append(s.Failures, Failure{Name: r.Name, Details: r.Details})
	}
	return s
}

// Success reports whether every executed check passed.
func (s *Summary) Success() bool {
	return s.Failed == 0 && s.Passed == s.Run
}

// Notifier is the interface for notification services
type Notifier interface {
	// Notify sends a notification about a run
	Notify(ctx context.Context, summary *Summary) error

	// Name returns the name of the notifier
	Name() string
}

// Manager applies the notification policy across consecutive runs.
type Manager struct {
	notifiers []Notifier
	notifyOn  NotifyOn
	lastState bool // true if last run was successful
}

// NewManager creates a new notification manager
func NewManager(notifyOn NotifyOn, notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
		notifyOn:  notifyOn,
		lastState: true,
	}
}

// Configure replaces the policy and notifiers and keeps the outcome of the
// previous run, so a reloaded configuration still reports recoveries.
func (m *Manager) Configure(notifyOn NotifyOn, notifiers ...Notifier) {
	m.notifyOn = notifyOn
	m.notifiers = notifiers
}

// Len returns the number of configured notifiers.
func (m *Manager) Len() int {
	return len(m.notifiers)
}

// Notify sends the run summary when the policy asks for it. It reports
// whether a notification was attempted.
func (m *Manager) Notify(ctx context.Context, result *runner.RunResult) (bool, error) {
	summary := NewSummary(result)
	currentSuccess := summary.Success()

	shouldNotify := false
	switch m.notifyOn {
	case NotifyAlways:
		shouldNotify = true
	case NotifyFailure:
		shouldNotify = !currentSuccess
	case NotifySuccess:
		shouldNotify = currentSuccess
	case NotifyRecovery:
		if !m.lastState && currentSuccess {
			shouldNotify = true
			summary.IsRecovery = true
		}
		if !currentSuccess {
			shouldNotify = true
		}
	}

	m.lastState = currentSuccess

	if !shouldNotify || len(m.notifiers) == 0 {
		return false, nil
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return true, errors.Join(errs...)
}
