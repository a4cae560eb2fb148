package ephemsource

import (
	"context"
	"fmt"
	"time"

	"github.com/skysurvey/nightsched/pkg/astro"
	"github.com/skysurvey/nightsched/pkg/config"
	"github.com/skysurvey/nightsched/pkg/ephemeris"
)

// Sampling used by the crossing searches: the sun window is sampled every
// ~15 minutes, the faster-moving moon every ~10 minutes, both refined down
// to the second.
const (
	sunSearchSteps  = 97
	moonSearchSteps = 151
	searchTolerance = time.Second
)

// ComputedSource derives nightly records from the built-in sun and moon
// models, replacing the external ephemeris binary.
type ComputedSource struct {
	observer astro.Observer
	location *time.Location
	evening  float64 // sun altitude ending evening twilight, degrees
	morning  float64 // sun altitude starting morning twilight, degrees
}

// NewComputedSource builds a source for the configured site.
func NewComputedSource(cfg *config.ConfigData) (*ComputedSource, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ComputedSource{
		observer: astro.NewObserver(*cfg.Site.Latitude, *cfg.Site.Longitude),
		location: loc,
		evening:  *cfg.Site.EveningHorizonAngle,
		morning:  *cfg.Site.MorningHorizonAngle,
	}, nil
}

// Night computes the four events for the night starting on the local date.
// Sunset is searched from local noon, sunrise from sunset onward; the moon
// events are searched across the local calendar day, so a moonrise that
// happened before sunset is still reported, as the classifier requires.
func (s *ComputedSource) Night(ctx context.Context, date time.Time) (*ephemeris.NightRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	year, month, day := date.In(s.location).Date()
	noon := time.Date(year, month, day, 12, 0, 0, 0, s.location)
	midnight := time.Date(year, month, day, 0, 0, 0, 0, s.location)

	sunAlt := func(t time.Time) float64 { return s.observer.SunAltitude(t).Deg() }
	moonAlt := func(t time.Time) float64 { return s.observer.MoonAltitude(t).Deg() }

	sunset, ok := astro.FindCrossing(sunAlt, noon, noon.Add(24*time.Hour), s.evening, astro.Setting, sunSearchSteps, searchTolerance)
	if !ok {
		return nil, fmt.Errorf("no sunset on %04d-%02d-%02d: sun is circumpolar", year, month, day)
	}
	sunrise, ok := astro.FindCrossing(sunAlt, sunset, noon.Add(24*time.Hour), s.morning, astro.Rising, sunSearchSteps, searchTolerance)
	if !ok {
		return nil, fmt.Errorf("no sunrise following sunset on %04d-%02d-%02d", year, month, day)
	}

	// The moon skips one rise or set roughly once a month, when its ~50min
	// daily lag pushes the event past the next midnight. The search starts
	// from local midnight and widens onto the following day until the next
	// crossing is found, so every night still gets both events.
	moonrise, ok := moonCrossing(moonAlt, midnight, astro.Rising)
	if !ok {
		return nil, fmt.Errorf("no moonrise near %04d-%02d-%02d: moon is circumpolar", year, month, day)
	}
	moonset, ok := moonCrossing(moonAlt, midnight, astro.Setting)
	if !ok {
		return nil, fmt.Errorf("no moonset near %04d-%02d-%02d: moon is circumpolar", year, month, day)
	}

	return &ephemeris.NightRecord{
		Sunset:   s.event(sunset, ephemeris.Sunset),
		Sunrise:  s.event(sunrise, ephemeris.Sunrise),
		Moonset:  s.event(moonset, ephemeris.Moonset),
		Moonrise: s.event(moonrise, ephemeris.Moonrise),
	}, nil
}

// moonCrossing finds the first altitude crossing at or after start. The
// first window spans the calendar day; when the day skipped the event, the
// search moves onto the next window, where the delayed crossing must fall
// unless the moon never crosses the horizon at all at this latitude.
func moonCrossing(f astro.AltitudeFunc, start time.Time, dir astro.CrossingDir) (time.Time, bool) {
	end := start.Add(25 * time.Hour)
	for i := 0; i < 2; i++ {
		if t, ok := astro.FindCrossing(f, start, end, 0, dir, moonSearchSteps, searchTolerance); ok {
			return t, true
		}
		start, end = end, end.Add(25*time.Hour)
	}
	return time.Time{}, false
}

// event fills in the moon illumination and altitude samples at an event
// time. Sun events carry the -1 fraction sentinel when the moon is below
// the horizon, matching the external generator's output.
func (s *ComputedSource) event(t time.Time, kind ephemeris.EventKind) ephemeris.Event {
	alt := s.observer.MoonAltitude(t).Deg()
	frac := astro.MoonIllumination(t)
	if (kind == ephemeris.Sunset || kind == ephemeris.Sunrise) && alt < 0 {
		frac = -1
	}
	return ephemeris.Event{
		Time:     t.In(s.location),
		Fraction: frac,
		Altitude: alt,
		Kind:     kind,
	}
}
