// Package core defines the fundamental types and interfaces for credprobe.
package core

import (
	"context"
	"strconv"
	"time"
)

// Pair is a single username/password combination to test.
type Pair struct {
	Username string
	Password string
}

// Outcome classifies the result of one login attempt.
type Outcome string

const (
	// OutcomeSuccess means the endpoint accepted the credentials.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the endpoint rejected the credentials.
	OutcomeFailure Outcome = "failure"
	// OutcomeError means the attempt never completed at the HTTP level
	// (timeout, connection refused, DNS failure, ...).
	OutcomeError Outcome = "error"
)

// Millis is a duration that serializes as fractional milliseconds.
type Millis time.Duration

// Duration converts back to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m)
}

// Float returns the duration in milliseconds.
func (m Millis) Float() float64 {
	return float64(time.Duration(m)) / float64(time.Millisecond)
}

// String formats the duration as milliseconds with microsecond precision.
func (m Millis) String() string {
	return strconv.FormatFloat(m.Float(), 'f', 3, 64)
}

// MarshalJSON implements json.Marshaler.
func (m Millis) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, m.Float(), 'f', 3, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Millis) UnmarshalJSON(b []byte) error {
	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*m = FromFloat(ms)
	return nil
}

// FromFloat converts fractional milliseconds to a Millis.
func FromFloat(ms float64) Millis {
	return Millis(ms * float64(time.Millisecond))
}

// Result is the record produced by one login attempt.
//
// StatusCode and ResponseLength are only meaningful when the transport call
// completed (Outcome is success or failure); ErrorDetail is set if and only
// if Outcome is error.
type Result struct {
	Username       string  `json:"username"`
	Password       string  `json:"password"`
	Outcome        Outcome `json:"outcome"`
	StatusCode     int     `json:"status_code,omitempty"`
	ResponseTime   Millis  `json:"response_time_ms,omitempty"`
	ResponseLength int     `json:"response_length,omitempty"`
	ErrorDetail    string  `json:"error,omitempty"`
}

// Pair returns the credential pair the result was produced for.
func (r Result) Pair() Pair {
	return Pair{Username: r.Username, Password: r.Password}
}

// Completed reports whether the transport call finished and produced an
// HTTP response.
func (r Result) Completed() bool {
	return r.Outcome != OutcomeError
}

// Attempter performs one login attempt for a credential pair.
type Attempter interface {
	Attempt(ctx context.Context, pair Pair) Result
}

// Reporter receives results as attempts complete. Implementations must be
// safe for concurrent use; multiple workers may report near-simultaneously.
type Reporter interface {
	Report(Result)
}
