package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/goalcheck/packages/http"
	"github.com/abdul-hamid-achik/goalcheck/packages/logging"
)

// Credentials of the throwaway account registered by the suite.
type Credentials struct {
	Email    string
	Password string
	Name     string
}

// Config controls how a Runner reaches the backend and which account and
// default categories the suite expects.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	FollowRedirect    bool
	MaxRedirects      int
	Insecure          bool // skip TLS certificate verification
	Proxy             string
	Headers           map[string]string
	RateLimit         float64 // requests per second, 0 = unpaced
	Cleanup           bool
	User              Credentials
	DefaultCategories []string
	// StrictSchema also validates list payloads against JSON schemas.
	StrictSchema bool
	Logger       *slog.Logger
	Listener     Listener
	// Now is the clock used for goal deadlines. Defaults to time.Now.
	Now func() time.Time
}

// Runner executes the suite. It is not safe for concurrent use.
type Runner struct {
	client   *http.Client
	config   *Config
	logger   *slog.Logger
	listener Listener
	limiter  *rate.Limiter
	latency  *latencyRecorder
	now      func() time.Time

	session    Session
	categories Tracker
	goals      Tracker
	section    string
	results    []*TestResult
	run        int
	passed     int
}

var supportedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	clientOpts := []http.ClientOption{
		http.WithFollowRedirects(cfg.FollowRedirect),
		http.WithValidateSSL(!cfg.Insecure),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	if cfg.MaxRedirects > 0 {
		clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	if len(cfg.Headers) > 0 {
		clientOpts = append(clientOpts, http.WithDefaultHeaders(cfg.Headers))
	}

	r := &Runner{
		client:   http.NewClient(clientOpts...),
		config:   cfg,
		logger:   cfg.Logger,
		listener: cfg.Listener,
		latency:  newLatencyRecorder(),
		now:      cfg.Now,
		session:  Session{BaseURL: strings.TrimRight(cfg.BaseURL, "/")},
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.listener == nil {
		r.listener = nopListener{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return r
}

// Session returns the current authentication state.
func (r *Runner) Session() Session {
	return r.session
}

// Categories returns the ids of categories created and not yet deleted.
func (r *Runner) Categories() []string {
	return r.categories.IDs()
}

// Goals returns the ids of goals created and not yet deleted.
func (r *Runner) Goals() []string {
	return r.goals.IDs()
}

// Results returns the logged results in execution order.
func (r *Runner) Results() []*TestResult {
	return append([]*TestResult(nil), r.results...)
}

// Request calls <base>/api/<endpoint> and reports whether the response status
// equals expectedStatus. payload is sent as JSON for POST, PUT and PATCH.
func (r *Runner) Request(ctx context.Context, method, endpoint string, payload any, expectedStatus int) *Outcome {
	return r.request(ctx, method, endpoint, nil, payload, expectedStatus)
}

func (r *Runner) request(ctx context.Context, method, endpoint string, query map[string]string, payload any, expectedStatus int) *Outcome {
	method = strings.ToUpper(method)

	if !supportedMethods[method] {
		return failedOutcome(fmt.Errorf("unsupported method: %s", method), "")
	}

	req := http.NewRequest(method, r.session.BaseURL+"/api/"+endpoint)
	for k, v := range query {
		req.SetQueryParam(k, v)
	}
	url := req.BuildURL()
	req.SetHeader("Content-Type", "application/json")
	req.SetBearer(r.session.Token)
	if payload != nil && (method == "POST" || method == "PUT" || method == "PATCH") {
		if err := req.SetJSON(payload); err != nil {
			return failedOutcome(err, "")
		}
	}
	curl := req.Curl()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			r.logger.Warn("request not sent", "method", method, "url", url, "error", err)
			return failedOutcome(err, curl)
		}
	}

	resp, err := r.client.DoContext(ctx, req)
	if err != nil {
		r.logger.Warn("request failed", "method", method, "url", url, "error", err)
		return failedOutcome(err, curl)
	}

	r.latency.Record(resp.Duration)
	r.logger.Debug("request completed",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration", resp.Duration)

	body, raw := resp.Payload()
	return &Outcome{
		Matched:  resp.StatusCode == expectedStatus,
		Status:   resp.StatusCode,
		Body:     body,
		Raw:      raw,
		Duration: resp.Duration,
		Curl:     curl,
	}
}

func failedOutcome(err error, curl string) *Outcome {
	body := map[string]any{"error": err.Error()}
	raw, _ := json.Marshal(body)
	return &Outcome{
		Body: body,
		Raw:  raw,
		Err:  err,
		Curl: curl,
	}
}

// Log appends a result to the run log and notifies the listener.
func (r *Runner) Log(name string, success bool, details string, data any) *TestResult {
	return r.logResult(&TestResult{
		Name:    name,
		Success: success,
		Details: details,
		Data:    data,
	})
}

// logOutcome logs a check backed by an API call. Successful checks keep the
// response payload, failed ones keep a curl reproduction.
func (r *Runner) logOutcome(out *Outcome, name string, success bool, details string) *TestResult {
	result := &TestResult{
		Name:     name,
		Success:  success,
		Details:  details,
		Status:   out.Status,
		Duration: out.Duration,
	}
	if success {
		result.Data = out.Body
	} else {
		result.Curl = out.Curl
	}
	return r.logResult(result)
}

func (r *Runner) logResult(result *TestResult) *TestResult {
	result.Section = r.section
	r.run++
	if result.Success {
		r.passed++
	}
	r.results = append(r.results, result)
	r.listener.TestLogged(result)
	return result
}

func (r *Runner) startSection(name string) {
	r.section = name
	r.listener.SectionStarted(name)
}

// statusDetails renders the generic failure detail for an outcome.
func statusDetails(out *Outcome) string {
	return fmt.Sprintf("Status: %d, Response: %s", out.Status, string(out.Raw))
}
