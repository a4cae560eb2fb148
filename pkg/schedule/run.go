// Package schedule numbers consecutive observing nights into dark runs and
// bright runs. A dark run is a maximal streak of nights each offering at
// least the configured minimum of moon-free time; bright runs are the
// complementary streaks. The two counters advance in parallel over the same
// date sequence and never interact.
package schedule

import (
	"fmt"
	"time"
)

// runCounter numbers maximal streaks of qualifying nights. The first
// qualifying night ever seen opens run 1; a non-qualifying night while a run
// is active closes it and reserves the next run number, so the following
// qualifying night starts at night 1 of the next run.
type runCounter struct {
	number int
	night  int
	active bool
}

func (rc *runCounter) advance(qualifies bool) {
	if qualifies {
		if rc.number == 0 {
			rc.number = 1
			rc.night = 1
		} else {
			rc.night++
		}
		rc.active = true
		return
	}
	if rc.active {
		rc.number++
		rc.night = 0
		rc.active = false
	}
}

// RunState is the per-night snapshot of both counters. A zero run number
// means no run of that kind has started yet; a zero night number with a
// nonzero run number means the counter sits between runs.
type RunState struct {
	DarkRun      int
	DarkNight    int
	DarkActive   bool
	BrightRun    int
	BrightNight  int
	BrightActive bool
}

// DarkLabel renders the dark-run designation for a night, e.g. "DR02-01",
// or "" when the night is not part of a dark run.
func (s RunState) DarkLabel() string {
	if !s.DarkActive {
		return ""
	}
	return fmt.Sprintf("DR%02d-%02d", s.DarkRun, s.DarkNight)
}

// BrightLabel renders the bright-run designation, e.g. "BR01-03", or ""
// when the night is not part of a bright run.
func (s RunState) BrightLabel() string {
	if !s.BrightActive {
		return ""
	}
	return fmt.Sprintf("BR%02d-%02d", s.BrightRun, s.BrightNight)
}

// Accumulator advances the dark-run and bright-run counters one night at a
// time. Nights must be fed in strict ascending calendar order; the counters
// are meaningless otherwise. It holds no state beyond the two counters and
// is discarded when the date range ends. A run still active at the end of
// the range is not closed; callers must not infer that it ended.
type Accumulator struct {
	minimumInterval time.Duration
	dark            runCounter
	bright          runCounter
}

// NewAccumulator returns an accumulator using the given dark-time
// qualification threshold.
func NewAccumulator(minimumInterval time.Duration) *Accumulator {
	return &Accumulator{minimumInterval: minimumInterval}
}

// Advance consumes one night's dark duration and returns the snapshot of
// both counters after that night. A night qualifies for the dark run when
// its dark time reaches the minimum interval, and for the bright run
// otherwise.
func (a *Accumulator) Advance(darkDuration time.Duration) RunState {
	isDark := darkDuration >= a.minimumInterval
	a.dark.advance(isDark)
	a.bright.advance(!isDark)
	return a.snapshot()
}

func (a *Accumulator) snapshot() RunState {
	return RunState{
		DarkRun:      a.dark.number,
		DarkNight:    a.dark.night,
		DarkActive:   a.dark.active,
		BrightRun:    a.bright.number,
		BrightNight:  a.bright.night,
		BrightActive: a.bright.active,
	}
}
