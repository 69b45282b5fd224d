// Package scheduler enumerates credential pairs and drives their execution.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"credprobe/internal/config"
	"credprobe/internal/core"
	"credprobe/internal/ratelimit"
)

// ErrNoCredentials indicates the run has nothing to test. Surfaced before
// any network activity.
var ErrNoCredentials = errors.New("no usernames or passwords to test")

// Scheduler expands the username/password Cartesian product and dispatches
// one attempt per pair, either strictly sequentially with pacing or across a
// bounded worker pool. Every dispatched pair yields exactly one result,
// whatever happens inside the attempt; the scheduler performs no retries and
// never aborts a run for a failed attempt.
type Scheduler struct {
	attempter core.Attempter
	reporter  core.Reporter
	clock     core.Clock
	delay     time.Duration
	parallel  bool
	workers   int
	limiter   *ratelimit.Limiter
}

// New creates a Scheduler driving attempter and reporting to reporter.
func New(attempter core.Attempter, reporter core.Reporter, cfg config.Config) *Scheduler {
	return &Scheduler{
		attempter: attempter,
		reporter:  reporter,
		clock:     core.RealClock{},
		delay:     cfg.Delay,
		parallel:  cfg.Parallel,
		workers:   cfg.Workers,
		limiter:   ratelimit.NewLimiter(cfg.Rate),
	}
}

// SetClock replaces the pacing clock, for tests.
func (s *Scheduler) SetClock(clock core.Clock) {
	s.clock = clock
}

// Pairs enumerates the full Cartesian product in username-major order.
// Duplicates in the inputs produce duplicate pairs.
func Pairs(usernames, passwords []string) []core.Pair {
	pairs := make([]core.Pair, 0, len(usernames)*len(passwords))
	for _, u := range usernames {
		for _, p := range passwords {
			pairs = append(pairs, core.Pair{Username: u, Password: p})
		}
	}
	return pairs
}

// Run dispatches an attempt for every username/password combination and
// blocks until all results have been reported. Returns ErrNoCredentials
// before dispatching anything when either list is empty.
func (s *Scheduler) Run(ctx context.Context, usernames, passwords []string) error {
	if len(usernames) == 0 || len(passwords) == 0 {
		return fmt.Errorf("%w (%d usernames, %d passwords)",
			ErrNoCredentials, len(usernames), len(passwords))
	}

	pairs := Pairs(usernames, passwords)
	if s.parallel {
		s.runConcurrent(ctx, pairs)
	} else {
		s.runSequential(ctx, pairs)
	}
	return nil
}

// runSequential dispatches one attempt at a time in enumeration order,
// pausing between attempts but not before the first or after the last.
func (s *Scheduler) runSequential(ctx context.Context, pairs []core.Pair) {
	for i, pair := range pairs {
		s.reporter.Report(s.safeAttempt(ctx, pair))
		if s.delay > 0 && i < len(pairs)-1 {
			s.clock.Sleep(s.delay)
		}
	}
}

// runConcurrent feeds pairs to a fixed pool of workers. The pool size is a
// hard cap on in-flight attempts.
func (s *Scheduler) runConcurrent(ctx context.Context, pairs []core.Pair) {
	workers := s.workers
	if workers > len(pairs) {
		workers = len(pairs)
	}

	jobs := make(chan core.Pair)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				if err := s.limiter.Wait(ctx); err != nil {
					// The pair was dispatched, so it still owes a result.
					s.reporter.Report(core.Result{
						Username:    pair.Username,
						Password:    pair.Password,
						Outcome:     core.OutcomeError,
						ErrorDetail: err.Error(),
					})
					continue
				}
				s.reporter.Report(s.safeAttempt(ctx, pair))
			}
		}()
	}

	for _, pair := range pairs {
		jobs <- pair
	}
	close(jobs)
	wg.Wait()
}

// safeAttempt runs one attempt behind a recovery boundary: a panic inside
// the attempter becomes an error result for that pair instead of killing
// the worker and silently losing the outcome.
func (s *Scheduler) safeAttempt(ctx context.Context, pair core.Pair) (result core.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = core.Result{
				Username:    pair.Username,
				Password:    pair.Password,
				Outcome:     core.OutcomeError,
				ErrorDetail: fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return s.attempter.Attempt(ctx, pair)
}
