package metrics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PrometheusExporter writes metrics in the Prometheus text exposition
// format. Samples carry no timestamps, so the output can be dropped into a
// node_exporter textfile directory.
type PrometheusExporter struct {
	writer io.Writer
	path   string
	prefix string
}

// PrometheusOption is a functional option for PrometheusExporter
type PrometheusOption func(*PrometheusExporter)

// WithPrometheusWriter sets the output writer for Prometheus metrics
func WithPrometheusWriter(w io.Writer) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.writer = w
	}
}

// WithPrometheusFile writes the metrics to path. The file is replaced
// atomically so a scraper never reads a partial file.
func WithPrometheusFile(path string) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.path = path
	}
}

// WithPrometheusPrefix sets the metric name prefix
func WithPrometheusPrefix(prefix string) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.prefix = prefix
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter
func NewPrometheusExporter(opts ...PrometheusOption) *PrometheusExporter {
	p := &PrometheusExporter{prefix: "goalcheck"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Export writes the run metrics to the configured writer and file.
func (p *PrometheusExporter) Export(m *RunMetrics) error {
	if p.writer != nil {
		if err := p.writeMetrics(p.writer, m); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if p.path != "" {
		if err := p.writeFile(m); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}
	return nil
}

func (p *PrometheusExporter) writeFile(m *RunMetrics) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".goalcheck-*.prom")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := p.writeMetrics(tmp, m); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.path)
}

func (p *PrometheusExporter) writeMetrics(w io.Writer, m *RunMetrics) error {
	bw := bufio.NewWriter(w)
	target := fmt.Sprintf("target=\"%s\"", sanitizeLabel(m.BaseURL))

	p.header(bw, "checks_total", "counter", "Checks executed in the last run by result")
	fmt.Fprintf(bw, "%s_checks_total{%s,result=\"passed\"} %d\n", p.prefix, target, m.Passed)
	fmt.Fprintf(bw, "%s_checks_total{%s,result=\"failed\"} %d\n", p.prefix, target, m.Failed)
	fmt.Fprintln(bw)

	p.header(bw, "run_success", "gauge", "1 if every check in the last run passed")
	fmt.Fprintf(bw, "%s_run_success{%s} %d\n", p.prefix, target, boolValue(m.Success()))
	fmt.Fprintln(bw)

	p.header(bw, "run_aborted", "gauge", "1 if the last run stopped before the end of the suite")
	fmt.Fprintf(bw, "%s_run_aborted{%s} %d\n", p.prefix, target, boolValue(m.Aborted))
	fmt.Fprintln(bw)

	p.header(bw, "run_duration_seconds", "gauge", "Wall time of the last run")
	fmt.Fprintf(bw, "%s_run_duration_seconds{%s} %.3f\n", p.prefix, target, m.Duration.Seconds())
	fmt.Fprintln(bw)

	if !m.FinishedAt.IsZero() {
		p.header(bw, "last_run_timestamp_seconds", "gauge", "Unix time the last run finished")
		fmt.Fprintf(bw, "%s_last_run_timestamp_seconds{%s} %d\n", p.prefix, target, m.FinishedAt.Unix())
		fmt.Fprintln(bw)
	}

	if m.Latency.Count > 0 {
		p.header(bw, "request_duration_seconds", "gauge", "Response time quantiles of the completed calls")
		quantiles := []struct {
			label string
			value float64
		}{
			{"0.5", m.Latency.P50.Seconds()},
			{"0.95", m.Latency.P95.Seconds()},
			{"0.99", m.Latency.P99.Seconds()},
			{"1", m.Latency.Max.Seconds()},
		}
		for _, q := range quantiles {
			fmt.Fprintf(bw, "%s_request_duration_seconds{%s,quantile=\"%s\"} %.6f\n", p.prefix, target, q.label, q.value)
		}
		fmt.Fprintln(bw)
	}

	if len(m.StatusCodes) > 0 {
		p.header(bw, "responses_by_status", "gauge", "Logged checks by HTTP status, 0 for transport errors")
		for _, code := range m.sortedStatusCodes() {
			fmt.Fprintf(bw, "%s_responses_by_status{%s,status=\"%d\"} %d\n", p.prefix, target, code, m.StatusCodes[code])
		}
		fmt.Fprintln(bw)
	}

	if len(m.Checks) > 0 {
		p.header(bw, "check_success", "gauge", "1 if the check passed in the last run")
		for _, c := range m.Checks {
			fmt.Fprintf(bw, "%s_check_success{%s,%s} %d\n", p.prefix, target, checkLabels(c), boolValue(c.Passed))
		}
		fmt.Fprintln(bw)

		p.header(bw, "check_duration_seconds", "gauge", "Duration of the check in the last run")
		for _, c := range m.Checks {
			fmt.Fprintf(bw, "%s_check_duration_seconds{%s,%s} %.6f\n", p.prefix, target, checkLabels(c), c.Duration.Seconds())
		}
	}

	return bw.Flush()
}

func (p *PrometheusExporter) header(w io.Writer, name, kind, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", p.prefix, name, help)
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", p.prefix, name, kind)
}

func checkLabels(c CheckMetrics) string {
	section := c.Section
	if section == "" {
		section = "general"
	}
	return fmt.Sprintf("section=\"%s\",check=\"%s\"", sanitizeLabel(section), sanitizeLabel(c.Name))
}

func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sanitizeLabel makes a string safe for use as a Prometheus label value
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
