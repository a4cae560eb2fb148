// Package ephemeris defines the raw nightly event record produced by the
// ephemeris generator: the four sun/moon rise and set events bounding one
// local observing night, each carrying the illuminated lunar disk fraction
// and the moon's altitude at the event time.
package ephemeris

import (
	"fmt"
	"time"
)

// EventKind identifies which of the four nightly events an Event describes.
type EventKind int

const (
	Sunset EventKind = iota
	Sunrise
	Moonset
	Moonrise
)

// String returns the lowercase label used in ephemeris output.
func (k EventKind) String() string {
	switch k {
	case Sunset:
		return "sunset"
	case Sunrise:
		return "sunrise"
	case Moonset:
		return "moonset"
	case Moonrise:
		return "moonrise"
	default:
		return fmt.Sprintf("eventkind(%d)", int(k))
	}
}

// Event is a single timestamped sun or moon event. Fraction is the
// illuminated fraction of the lunar disk [0,1] at the event time; the
// generator emits -1 when the moon is below the horizon at a sun event.
// Altitude is the moon's altitude above the horizon in degrees.
// Events are immutable once parsed and ordered by timestamp only.
type Event struct {
	Time     time.Time
	Fraction float64
	Altitude float64
	Kind     EventKind
}

// MoonUp reports whether the moon was above the horizon at the event time.
func (e Event) MoonUp() bool {
	return e.Altitude >= 0
}

// String renders the event the way the original schedule tooling prints it,
// e.g. "sunset 2024-01-15 18:42 (0.31)".
func (e Event) String() string {
	return fmt.Sprintf("%s %s (%.4g)", e.Kind, e.Time.Format("2006-01-02 15:04"), e.Fraction)
}
