// Package collector aggregates attempt results and computes run statistics.
package collector

import (
	"sync"
	"time"

	"credprobe/internal/core"
)

// Collector aggregates results from workers in arrival order. In sequential
// mode arrival order is enumeration order; in concurrent mode it is
// completion order. The collector never reorders: that divergence is part of
// the reporting contract.
type Collector struct {
	results   []core.Result
	ch        chan core.Result
	done      chan struct{}
	mu        sync.Mutex
	latency   *latencyRecorder
	succeeded int
	failed    int
	errored   int
	startTime time.Time
	endTime   time.Time
}

// NewCollector creates a Collector and starts its collection goroutine.
func NewCollector() *Collector {
	c := &Collector{
		results:   make([]core.Result, 0),
		ch:        make(chan core.Result, 256),
		done:      make(chan struct{}),
		latency:   newLatencyRecorder(),
		startTime: time.Now(),
	}
	go c.collect()
	return c
}

func (c *Collector) collect() {
	for result := range c.ch {
		c.mu.Lock()
		c.results = append(c.results, result)
		switch result.Outcome {
		case core.OutcomeSuccess:
			c.succeeded++
		case core.OutcomeFailure:
			c.failed++
		default:
			c.errored++
		}
		if result.Completed() {
			c.latency.record(result.ResponseTime.Duration())
		}
		c.mu.Unlock()
	}
	close(c.done)
}

// Report sends a result to the collector. Thread-safe. The send blocks when
// the buffer is full; every dispatched attempt must end up in the run, so
// results are never dropped under load.
func (c *Collector) Report(result core.Result) {
	c.ch <- result
}

// Close finalizes the run: no further results are accepted and all reported
// results are guaranteed to be visible to readers once Close returns.
func (c *Collector) Close() {
	c.endTime = time.Now()
	close(c.ch)
	<-c.done
}

// Results returns a copy of collected results in arrival order.
func (c *Collector) Results() []core.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]core.Result, len(c.results))
	copy(result, c.results)
	return result
}

// SuccessfulPairs returns the credential pairs that logged in, in the order
// their results arrived.
func (c *Collector) SuccessfulPairs() []core.Pair {
	c.mu.Lock()
	defer c.mu.Unlock()
	var pairs []core.Pair
	for _, r := range c.results {
		if r.Outcome == core.OutcomeSuccess {
			pairs = append(pairs, r.Pair())
		}
	}
	return pairs
}

// Summary holds the run's aggregate counts. Failed counts both rejected
// logins and transport errors; Errored is the transport-error share of
// Failed, kept separately for reporting.
type Summary struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	Errored     int     `json:"errored"`
	SuccessRate float64 `json:"success_rate"`
}

// Summary computes aggregate counts for the results collected so far.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		Total:     len(c.results),
		Succeeded: c.succeeded,
		Failed:    c.failed + c.errored,
		Errored:   c.errored,
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Succeeded) / float64(s.Total)
	}
	return s
}

// Latency returns response-time statistics over completed attempts.
func (c *Collector) Latency() LatencyStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latency.stats()
}

// Duration returns the run duration: start to Close if finalized, start to
// now while still running.
func (c *Collector) Duration() time.Duration {
	if !c.endTime.IsZero() {
		return c.endTime.Sub(c.startTime)
	}
	return time.Since(c.startTime)
}
