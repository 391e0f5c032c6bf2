package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *runner.RunResult {
	return &runner.RunResult{
		BaseURL:   "http://localhost:8001",
		StartedAt: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
		Results: []*runner.TestResult{
			{Name: "API Root Endpoint", Success: true, Details: "Status: 200", Status: 200, Duration: 12 * time.Millisecond},
			{Section: runner.SectionAuth, Name: "User Registration", Success: true, Status: 200, Duration: 40 * time.Millisecond, Data: map[string]any{"token": "abc"}},
			{
				Section:  runner.SectionAuth,
				Name:     "Invalid Login (Expected 401)",
				Success:  false,
				Details:  `Status: 200, Response: {"token":"x"}`,
				Status:   200,
				Duration: 8 * time.Millisecond,
				Curl:     "curl -sS -X POST http://localhost:8001/api/auth/login",
			},
			{
				Section:  runner.SectionCategories,
				Name:     "Default Categories Created",
				Success:  false,
				Details:  "connection refused",
				Status:   0,
				Duration: 500 * time.Millisecond,
			},
		},
		Run:      4,
		Passed:   2,
		Failed:   2,
		Duration: 600 * time.Millisecond,
		Latency: runner.LatencySummary{
			Count: 4,
			Min:   8 * time.Millisecond,
			Mean:  140 * time.Millisecond,
			P50:   12 * time.Millisecond,
			P95:   500 * time.Millisecond,
			P99:   500 * time.Millisecond,
			Max:   500 * time.Millisecond,
		},
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		format string
		want   any
	}{
		{"console", &ConsoleFormatter{}},
		{"", &ConsoleFormatter{}},
		{"json", &JSONFormatter{}},
		{"JUnit", &JUnitFormatter{}},
		{"tap", &TAPFormatter{}},
		{"xlsx", &XLSXFormatter{}},
	}
	for _, tt := range tests {
		f, err := New(tt.format, &buf, Options{NoColor: true})
		require.NoError(t, err, tt.format)
		assert.IsType(t, tt.want, f, tt.format)
	}

	_, err := New("html", &buf, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestConsoleFormatter_Streaming(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
	result := sampleResult()

	f.FormatHeader(result.BaseURL)
	f.TestLogged(result.Results[0])
	f.SectionStarted(runner.SectionAuth)
	f.TestLogged(result.Results[1])
	f.TestLogged(result.Results[2])
	f.FormatResult(result)

	out := buf.String()
	assert.Contains(t, out, "Target: http://localhost:8001")
	assert.Contains(t, out, "AUTHENTICATION TESTS")
	assert.Contains(t, out, "✓ API Root Endpoint (12ms)")
	assert.Contains(t, out, `✗ Invalid Login (Expected 401) - Status: 200, Response: {"token":"x"}`)
	assert.Contains(t, out, "→ curl -sS -X POST")
	assert.Contains(t, out, "Tests Passed: 2")
	assert.Contains(t, out, "Tests Failed: 2")
	assert.Contains(t, out, "Success Rate: 50.0%")
	assert.Contains(t, out, "Latency: p50 12.0ms, p95 500.0ms, max 500.0ms")
	assert.Contains(t, out, "FAILED TESTS:")
	assert.Contains(t, out, "• Default Categories Created: connection refused")
	// Streamed checks are not printed twice.
	assert.Equal(t, 1, strings.Count(out, "✓ API Root Endpoint"))
}

func TestConsoleFormatter_NotStreamed(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	result := sampleResult()
	result.Aborted = true
	result.AbortReason = "Registration failed - stopping tests"

	f.FormatResult(result)

	out := buf.String()
	assert.Contains(t, out, "✓ User Registration")
	assert.Contains(t, out, "CATEGORIES TESTS")
	assert.Contains(t, out, "✗ Registration failed - stopping tests")
	assert.NotContains(t, out, "curl -sS", "curl is only shown in verbose mode")
}

func TestConsoleFormatter_NoRuns(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatResult(&runner.RunResult{})

	out := buf.String()
	assert.Contains(t, out, "Success Rate: 0.0%")
	assert.NotContains(t, out, "Latency:")
	assert.NotContains(t, out, "FAILED TESTS:")
}

func TestConsoleFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	f.FormatError(assert.AnError)
	assert.Contains(t, buf.String(), "Error: "+assert.AnError.Error())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatHeader("http://localhost:8001")
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(600*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "http://localhost:8001", out.BaseURL)
	assert.Equal(t, JSONSummary{Total: 4, Passed: 2, Failed: 2, SuccessRate: 50}, out.Summary)
	require.Len(t, out.Tests, 4)
	assert.Equal(t, "General", out.Tests[0].Section)
	assert.Equal(t, 12.0, out.Tests[0].Duration)
	assert.Equal(t, map[string]any{"token": "abc"}, out.Tests[1].Data)
	assert.False(t, out.Tests[2].Passed)
	assert.Contains(t, out.Tests[2].Curl, "curl")
	require.NotNil(t, out.Latency)
	assert.Equal(t, 500.0, out.Latency.P95)
	assert.Equal(t, 600.0, out.Duration)
	assert.False(t, out.Aborted)
}

func TestJSONFormatter_Aborted(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResult(&runner.RunResult{
		Results:     []*runner.TestResult{{Section: runner.SectionAuth, Name: "User Registration", Details: "Status: 400"}},
		Run:         1,
		Failed:      1,
		Aborted:     true,
		AbortReason: "Registration failed - stopping tests",
	})
	require.NoError(t, f.Flush(time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.True(t, out.Aborted)
	assert.Equal(t, "Registration failed - stopping tests", out.AbortReason)
	assert.Nil(t, out.Latency)
	assert.Equal(t, 0.0, out.Summary.SuccessRate)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(600*time.Millisecond))

	assert.True(t, strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))

	assert.Equal(t, "goalcheck", suites.Name)
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	require.Len(t, suites.TestSuites, 3)

	assert.Equal(t, "General", suites.TestSuites[0].Name)
	auth := suites.TestSuites[1]
	assert.Equal(t, runner.SectionAuth, auth.Name)
	assert.Equal(t, 2, auth.Tests)
	require.NotNil(t, auth.TestCases[1].Failure)
	assert.Equal(t, `Status: 200, Response: {"token":"x"}`, auth.TestCases[1].Failure.Message)
	assert.Equal(t, "goalcheck.Authentication", auth.TestCases[1].ClassName)

	categories := suites.TestSuites[2]
	require.NotNil(t, categories.TestCases[0].Error)
	assert.Equal(t, "TransportError", categories.TestCases[0].Error.Type)
}

func TestJUnitFormatter_Aborted(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(&runner.RunResult{
		Results:     []*runner.TestResult{{Section: runner.SectionAuth, Name: "User Registration", Status: 400, Details: "Status: 400"}},
		Aborted:     true,
		AbortReason: "Registration failed - stopping tests",
	})
	require.NoError(t, f.Flush(time.Second))

	assert.Contains(t, buf.String(), "<system-err>aborted: Registration failed - stopping tests</system-err>")
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "TAP version 13", lines[0])
	assert.Equal(t, "1..4", lines[1])
	assert.Contains(t, out, "ok 1 - API Root Endpoint\n")
	assert.Contains(t, out, "ok 2 - User Registration\n")
	assert.Contains(t, out, "not ok 3 - Invalid Login (Expected 401)\n")
	assert.Contains(t, out, `  message: "Status: 200, Response: {\"token\":\"x\"}"`)
	assert.Contains(t, out, "  status: 200\n")
	assert.Contains(t, out, "not ok 4 - Default Categories Created\n  ---\n  message: connection refused\n  severity: error\n")
	assert.NotContains(t, out, "Bail out!")
}

func TestTAPFormatter_BailOut(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatResult(&runner.RunResult{
		Results:     []*runner.TestResult{{Name: "User Registration", Status: 400, Details: "Status: 400"}},
		Aborted:     true,
		AbortReason: "Registration failed - stopping tests",
	})
	require.NoError(t, f.Flush(time.Second))

	assert.Contains(t, buf.String(), "Bail out! Registration failed - stopping tests\n")
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain text", escapeYAML("plain text"))
	assert.Equal(t, `"a: b"`, escapeYAML("a: b"))
	assert.Equal(t, `"line\none"`, escapeYAML("line\none"))
	assert.Equal(t, `"say \"hi\""`, escapeYAML(`say "hi"`))
}

func TestXLSXFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewXLSXFormatter(XLSXWithWriter(&buf))

	f.FormatHeader("http://localhost:8001")
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(600*time.Millisecond))

	book, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{XLSXSheetName}, book.GetSheetList())

	rows, err := book.GetRows(XLSXSheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 5)

	assert.Equal(t, xlsxHeaders, rows[0])
	assert.Equal(t, []string{"1", "General", "API Root Endpoint", "PASS", "200", "12", "Status: 200"}, rows[1])
	assert.Equal(t, "FAIL", rows[3][3])
	assert.Equal(t, "Default Categories Created", rows[4][2])

	summary := make(map[string]string)
	for _, row := range rows[5:] {
		if len(row) == 2 {
			summary[row[0]] = row[1]
		}
	}
	assert.Equal(t, "http://localhost:8001", summary["Target"])
	assert.Equal(t, "2", summary["Passed"])
	assert.Equal(t, "2", summary["Failed"])
	assert.Equal(t, "50.0%", summary["Success Rate"])
	assert.Equal(t, "500", summary["Latency p95 (ms)"])
}

func TestXLSXFormatter_FailedRowStyled(t *testing.T) {
	var buf bytes.Buffer
	f := NewXLSXFormatter(XLSXWithWriter(&buf))

	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	book, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	passStyle, err := book.GetCellStyle(XLSXSheetName, "C2")
	require.NoError(t, err)
	failStyle, err := book.GetCellStyle(XLSXSheetName, "C4")
	require.NoError(t, err)
	slowStyle, err := book.GetCellStyle(XLSXSheetName, "C5")
	require.NoError(t, err)

	assert.Equal(t, 0, passStyle)
	assert.NotEqual(t, 0, failStyle)
	assert.Equal(t, failStyle, slowStyle, "a failed check is styled as failed even when slow")
}
