package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latencies are recorded in microseconds between 1µs and 10 minutes.
const (
	minLatencyMicros = 1
	maxLatencyMicros = int64(10 * time.Minute / time.Microsecond)
)

// LatencySummary describes the response times of the completed calls in a run.
type LatencySummary struct {
	Count int64
	Min   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

type latencyRecorder struct {
	hist *hdrhistogram.Histogram
}

func newLatencyRecorder() *latencyRecorder {
	return &latencyRecorder{hist: hdrhistogram.New(minLatencyMicros, maxLatencyMicros, 3)}
}

func (l *latencyRecorder) Record(d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyMicros {
		us = minLatencyMicros
	}
	if us > maxLatencyMicros {
		us = maxLatencyMicros
	}
	_ = l.hist.RecordValue(us)
}

func (l *latencyRecorder) Summary() LatencySummary {
	if l.hist.TotalCount() == 0 {
		return LatencySummary{}
	}
	micros := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencySummary{
		Count: l.hist.TotalCount(),
		Min:   micros(l.hist.Min()),
		Mean:  time.Duration(l.hist.Mean() * float64(time.Microsecond)),
		P50:   micros(l.hist.ValueAtQuantile(50)),
		P95:   micros(l.hist.ValueAtQuantile(95)),
		P99:   micros(l.hist.ValueAtQuantile(99)),
		Max:   micros(l.hist.Max()),
	}
}

func (l *latencyRecorder) Reset() {
	l.hist.Reset()
}
