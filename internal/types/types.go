// Package types holds the assembled per-night schedule entry shared by the
// renderers, the REST server, and the archive writer.
package types

import (
	"time"

	"github.com/skysurvey/nightsched/pkg/ephemeris"
	"github.com/skysurvey/nightsched/pkg/night"
	"github.com/skysurvey/nightsched/pkg/schedule"
)

// ScheduleNight bundles everything known about one processed night: the raw
// events, the classification, and the run-numbering snapshot after the
// night was consumed. It is sufficient to render CSV rows, iCalendar
// events, or HTML tables without re-deriving any classification decision.
type ScheduleNight struct {
	// Date is the local calendar date the night begins on.
	Date time.Time `json:"date"`

	Record *ephemeris.NightRecord `json:"record"`
	Class  *night.ClassifiedNight `json:"classification"`
	Runs   schedule.RunState      `json:"runs"`
}

// IsDark reports whether the night belongs to a dark run.
func (n *ScheduleNight) IsDark() bool {
	return n.Runs.DarkActive
}

// Label returns the night's run designation, preferring the dark run.
func (n *ScheduleNight) Label() string {
	if n.Runs.DarkActive {
		return n.Runs.DarkLabel()
	}
	return n.Runs.BrightLabel()
}

// PeakFraction returns the brightest endpoint illumination of the moonlit
// window, or -1 when the night has none.
func (n *ScheduleNight) PeakFraction() float64 {
	if n.Class == nil || n.Class.Moon == nil {
		return -1
	}
	switch n.Class.Geometry {
	case night.RisesDuringNight:
		return max(n.Record.Moonrise.Fraction, n.Record.Sunrise.Fraction)
	case night.SetsDuringNight:
		return max(n.Record.Sunset.Fraction, n.Record.Moonset.Fraction)
	default:
		return max(n.Record.Sunset.Fraction, n.Record.Sunrise.Fraction)
	}
}
