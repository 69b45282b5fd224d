// Package report renders run results for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"credprobe/internal/collector"
	"credprobe/internal/core"
)

// Run bundles everything the report needs from a finished run.
type Run struct {
	Summary  collector.Summary
	Pairs    []core.Pair
	Latency  collector.LatencyStats
	Duration time.Duration
}

// FormatText writes the human-readable report.
func FormatText(w io.Writer, run Run) {
	s := run.Summary

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "===== LOGIN TEST REPORT =====")
	fmt.Fprintf(w, "Duration:       %v\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Total attempts: %d\n", s.Total)
	fmt.Fprintf(w, "Successful:     %d\n", s.Succeeded)
	if s.Errored > 0 {
		fmt.Fprintf(w, "Failed:         %d (%d transport errors)\n", s.Failed, s.Errored)
	} else {
		fmt.Fprintf(w, "Failed:         %d\n", s.Failed)
	}
	fmt.Fprintf(w, "Success rate:   %.1f%%\n", s.SuccessRate*100)

	if run.Latency.Count > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Response times:")
		fmt.Fprintf(w, "  Min:    %s\n", FormatDuration(run.Latency.Min))
		fmt.Fprintf(w, "  Avg:    %s\n", FormatDuration(run.Latency.Avg))
		fmt.Fprintf(w, "  P50:    %s\n", FormatDuration(run.Latency.P50))
		fmt.Fprintf(w, "  P90:    %s\n", FormatDuration(run.Latency.P90))
		fmt.Fprintf(w, "  P95:    %s\n", FormatDuration(run.Latency.P95))
		fmt.Fprintf(w, "  P99:    %s\n", FormatDuration(run.Latency.P99))
		fmt.Fprintf(w, "  Max:    %s\n", FormatDuration(run.Latency.Max))
	}

	if len(run.Pairs) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Successful credentials:")
		for _, p := range run.Pairs {
			fmt.Fprintf(w, "  %s:%s\n", p.Username, p.Password)
		}
	}
	fmt.Fprintln(w, "=============================")
}

// FormatJSON writes the summary report as JSON.
func FormatJSON(w io.Writer, run Run) {
	output := struct {
		Duration string            `json:"duration"`
		Summary  collector.Summary `json:"summary"`
		Latency  *jsonLatency      `json:"response_times,omitempty"`
		Pairs    []jsonPair        `json:"successful_credentials"`
	}{
		Duration: run.Duration.Round(time.Millisecond).String(),
		Summary:  run.Summary,
		Latency:  toJSONLatency(run.Latency),
		Pairs:    make([]jsonPair, 0, len(run.Pairs)),
	}
	for _, p := range run.Pairs {
		output.Pairs = append(output.Pairs, jsonPair{Username: p.Username, Password: p.Password})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output) // stdout errors are unrecoverable
}

type jsonLatency struct {
	Min string `json:"min"`
	Max string `json:"max"`
	Avg string `json:"avg"`
	P50 string `json:"p50"`
	P90 string `json:"p90"`
	P95 string `json:"p95"`
	P99 string `json:"p99"`
}

type jsonPair struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func toJSONLatency(l collector.LatencyStats) *jsonLatency {
	if l.Count == 0 {
		return nil
	}
	return &jsonLatency{
		Min: FormatDuration(l.Min),
		Max: FormatDuration(l.Max),
		Avg: FormatDuration(l.Avg),
		P50: FormatDuration(l.P50),
		P90: FormatDuration(l.P90),
		P95: FormatDuration(l.P95),
		P99: FormatDuration(l.P99),
	}
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
