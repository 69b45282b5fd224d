package collector

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram bounds: 1µs floor, 10-minute ceiling, 3 significant figures.
// Attempts are individually bounded by the per-request timeout, so the
// ceiling is generous.
const (
	histMin     = 1
	histMax     = int64(10 * time.Minute / time.Microsecond)
	histSigFigs = 3
)

// LatencyStats summarizes response times over completed attempts.
type LatencyStats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	P50   time.Duration
	P90   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// latencyRecorder wraps an HDR histogram keyed in microseconds. Not
// goroutine-safe; the collector serializes access under its mutex.
type latencyRecorder struct {
	hist *hdrhistogram.Histogram
}

func newLatencyRecorder() *latencyRecorder {
	return &latencyRecorder{
		hist: hdrhistogram.New(histMin, histMax, histSigFigs),
	}
}

func (l *latencyRecorder) record(d time.Duration) {
	us := d.Microseconds()
	if us < histMin {
		us = histMin
	}
	// Out-of-range values are dropped; nothing useful to do with them.
	_ = l.hist.RecordValue(us)
}

func (l *latencyRecorder) stats() LatencyStats {
	if l.hist.TotalCount() == 0 {
		return LatencyStats{}
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencyStats{
		Count: l.hist.TotalCount(),
		Min:   us(l.hist.Min()),
		Max:   us(l.hist.Max()),
		Avg:   time.Duration(l.hist.Mean() * float64(time.Microsecond)),
		P50:   us(l.hist.ValueAtQuantile(50)),
		P90:   us(l.hist.ValueAtQuantile(90)),
		P95:   us(l.hist.ValueAtQuantile(95)),
		P99:   us(l.hist.ValueAtQuantile(99)),
	}
}
