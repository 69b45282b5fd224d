package attempt

import (
	"net/http"
	"strings"

	"credprobe/internal/config"
	"credprobe/internal/core"
)

// Classify decides whether a completed login response means success or
// failure. Pure function; first matching rule wins:
//
//  1. configured success indicator found in body -> success
//  2. configured failure indicator found in body -> failure
//  3. status 200 -> success
//  4. anything else -> failure
//
// Indicators are the reliable path: many login endpoints return 200 for both
// outcomes and only the page content differs. The status-code fallback is a
// weak heuristic kept for endpoints that use 401/403 properly. When both
// indicators appear in the same body the success indicator wins; callers
// depend on that tie-break.
func Classify(statusCode int, body string, cfg config.Config) core.Outcome {
	if cfg.SuccessIndicator != "" && strings.Contains(body, cfg.SuccessIndicator) {
		return core.OutcomeSuccess
	}
	if cfg.FailureIndicator != "" && strings.Contains(body, cfg.FailureIndicator) {
		return core.OutcomeFailure
	}
	if statusCode == http.StatusOK {
		return core.OutcomeSuccess
	}
	return core.OutcomeFailure
}
