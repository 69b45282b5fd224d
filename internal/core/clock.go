package core

import "time"

// Clock provides time operations that can be mocked for testing.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

// RealClock uses the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (RealClock) Sleep(d time.Duration)           { time.Sleep(d) }

// FakeClock is a test clock that advances only when told to. Sleep advances
// the clock instead of blocking, so pacing tests run instantly.
type FakeClock struct {
	current time.Time
	slept   time.Duration
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

func (f *FakeClock) Now() time.Time                  { return f.current }
func (f *FakeClock) Since(t time.Time) time.Duration { return f.current.Sub(t) }

func (f *FakeClock) Sleep(d time.Duration) {
	f.current = f.current.Add(d)
	f.slept += d
}

func (f *FakeClock) Advance(d time.Duration) { f.current = f.current.Add(d) }
func (f *FakeClock) Set(t time.Time)         { f.current = t }

// Slept returns the total duration passed to Sleep.
func (f *FakeClock) Slept() time.Duration { return f.slept }
