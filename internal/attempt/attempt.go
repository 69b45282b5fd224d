// Package attempt performs single login attempts and classifies responses.
package attempt

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"credprobe/internal/config"
	"credprobe/internal/core"
)

// maxBodySize limits how much of a response body is read for classification.
// Login pages are small; anything past this cannot plausibly hold an
// indicator worth matching.
const maxBodySize = 10 * 1024 * 1024 // 10MB

// Executor performs one form-encoded login POST per credential pair.
type Executor struct {
	cfg    config.Config
	client *http.Client
	clock  core.Clock
	debug  *DebugLogger
}

// NewExecutor creates an Executor. The client's timeout should already be
// set from the configuration; debug may be nil.
func NewExecutor(cfg config.Config, client *http.Client, debug *DebugLogger) *Executor {
	return &Executor{
		cfg:    cfg,
		client: client,
		clock:  core.RealClock{},
		debug:  debug,
	}
}

// SetClock replaces the wall clock, for tests.
func (e *Executor) SetClock(clock core.Clock) {
	e.clock = clock
}

// Attempt submits the pair to the configured endpoint and returns exactly
// one result. Transport failures are captured as error outcomes, never
// returned as Go errors; each call makes exactly one network request and
// performs no retries.
func (e *Executor) Attempt(ctx context.Context, pair core.Pair) core.Result {
	result := core.Result{
		Username: pair.Username,
		Password: pair.Password,
	}

	form := url.Values{}
	form.Set(e.cfg.UsernameField, pair.Username)
	form.Set(e.cfg.PasswordField, pair.Password)
	body := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, strings.NewReader(body))
	if err != nil {
		result.Outcome = core.OutcomeError
		result.ErrorDetail = err.Error()
		e.debug.LogError(pair.Username, err.Error(), 0)
		return result
	}

	for k, v := range e.cfg.RequestHeaders() {
		req.Header.Set(k, v)
	}

	e.debug.LogRequest(pair.Username, req, e.cfg.PasswordField)

	start := e.clock.Now()
	resp, err := e.client.Do(req)
	duration := e.clock.Since(start)

	if err != nil {
		result.Outcome = core.OutcomeError
		result.ErrorDetail = err.Error()
		e.debug.LogError(pair.Username, err.Error(), duration)
		return result
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err == nil {
		_, err = io.Copy(io.Discard, resp.Body)
	}
	if err != nil {
		// The connection died mid-body. The attempt did not complete, so
		// no status code or timing is recorded.
		result.Outcome = core.OutcomeError
		result.ErrorDetail = err.Error()
		e.debug.LogError(pair.Username, err.Error(), duration)
		return result
	}

	result.Outcome = Classify(resp.StatusCode, string(respBody), e.cfg)
	result.StatusCode = resp.StatusCode
	result.ResponseTime = core.Millis(duration)
	result.ResponseLength = len(respBody)

	e.debug.LogResponse(pair.Username, resp, respBody, duration)

	return result
}
