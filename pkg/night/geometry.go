package night

import (
	"errors"
	"fmt"

	"github.com/skysurvey/nightsched/pkg/ephemeris"
)

// ErrInvalidGeometry indicates a record whose events cannot describe a valid
// observing night: sunset at or after sunrise, or a moon event missing from
// the position the event ordering requires.
var ErrInvalidGeometry = errors.New("invalid night geometry")

// Geometry tags the moon's configuration relative to the sunset-sunrise
// span. Exactly one variant applies to every valid record; the night, dark,
// and moon intervals are all derived from this single classification.
type Geometry int

const (
	// UpAllNight: moonrise before sunset and moonset after sunrise.
	UpAllNight Geometry = iota

	// DownAllNight: moonset before sunset and moonrise after sunrise.
	DownAllNight

	// BothBeforeSunset: moonrise and moonset both precede sunset. Happens
	// near full moon; whether the moon is up during the night is decided by
	// its altitude at sunrise, not by illumination.
	BothBeforeSunset

	// BothAfterSunrise: moonrise and moonset both follow sunrise.
	BothAfterSunrise

	// RisesDuringNight: the moon rises between sunset and sunrise.
	RisesDuringNight

	// SetsDuringNight: the moon sets between sunset and sunrise.
	SetsDuringNight
)

func (g Geometry) String() string {
	switch g {
	case UpAllNight:
		return "up-all-night"
	case DownAllNight:
		return "down-all-night"
	case BothBeforeSunset:
		return "both-before-sunset"
	case BothAfterSunrise:
		return "both-after-sunrise"
	case RisesDuringNight:
		return "rises-during-night"
	case SetsDuringNight:
		return "sets-during-night"
	default:
		return fmt.Sprintf("geometry(%d)", int(g))
	}
}

// geometryOf determines which of the six variants applies. For the two
// mid-night variants it also returns the moon event, located by walking the
// time-ordered event list from sunset.
func geometryOf(rec *ephemeris.NightRecord) (Geometry, *ephemeris.Event, error) {
	sunset := rec.Sunset.Time
	sunrise := rec.Sunrise.Time
	moonset := rec.Moonset.Time
	moonrise := rec.Moonrise.Time

	switch {
	case moonrise.Before(sunset) && moonset.After(sunrise):
		return UpAllNight, nil, nil
	case moonset.Before(sunset) && moonrise.After(sunrise):
		return DownAllNight, nil, nil
	case moonset.Before(sunset) && moonrise.Before(sunset):
		return BothBeforeSunset, nil, nil
	case moonset.After(sunrise) && moonrise.After(sunrise):
		return BothAfterSunrise, nil, nil
	}

	// One moon event lies inside the night. Step through the ordered list to
	// sunset; the following event must be a moon event.
	events := rec.Events()
	i := 0
	for i < len(events) && events[i].Kind != ephemeris.Sunset {
		i++
	}
	if i+1 >= len(events) {
		return 0, nil, fmt.Errorf("%w: no event follows sunset", ErrInvalidGeometry)
	}
	next := events[i+1]
	switch next.Kind {
	case ephemeris.Moonrise:
		return RisesDuringNight, &next, nil
	case ephemeris.Moonset:
		return SetsDuringNight, &next, nil
	}
	return 0, nil, fmt.Errorf("%w: expected a moon event after sunset, found %s", ErrInvalidGeometry, next.Kind)
}
