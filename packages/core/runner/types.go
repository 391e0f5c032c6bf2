package runner

import (
	"time"

	"github.com/tidwall/gjson"
)

// Session is the authentication state shared by every request in a run.
type Session struct {
	BaseURL string
	Token   string
	UserID  string
}

// TestResult is one logged check. It is never modified after it is logged.
type TestResult struct {
	Name     string
	Section  string
	Success  bool
	Details  string
	Data     any
	Status   int
	Duration time.Duration
	// Curl reproduces the request behind a failed check.
	Curl string
}

// Outcome is the result of one API call. Status is 0 when the call did not
// complete, in which case Err is set and Body is {"error": <message>}.
type Outcome struct {
	Matched  bool
	Status   int
	Body     any
	Raw      []byte
	Err      error
	Duration time.Duration
	Curl     string
}

// JSON returns the parsed body.
func (o *Outcome) JSON() gjson.Result {
	return gjson.ParseBytes(o.Raw)
}

// Listener receives progress while the suite runs.
type Listener interface {
	SectionStarted(name string)
	TestLogged(result *TestResult)
	Aborted(reason string)
}

type nopListener struct{}

func (nopListener) SectionStarted(string)  {}
func (nopListener) TestLogged(*TestResult) {}
func (nopListener) Aborted(string)         {}
