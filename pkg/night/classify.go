// Package night classifies a single astronomical night into observing
// windows. From the four raw ephemeris events it derives the usable night
// interval, the moon-free dark interval, and the moonlit interval together
// with its moonlight/RHV observing mode.
package night

import (
	"fmt"
	"time"

	"github.com/skysurvey/nightsched/pkg/ephemeris"
)

// Interval is a half-open [Start, End) time window.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// MoonMode labels a moonlit interval by how it can be used.
type MoonMode int

const (
	// ModeNone: no usable moonlit window, either because the moon is down or
	// because it is too bright even for RHV observing.
	ModeNone MoonMode = iota

	// ModeMoonlight: regular observing is possible under the moon.
	ModeMoonlight

	// ModeRHV: observing is possible with reduced high voltage.
	ModeRHV
)

func (m MoonMode) String() string {
	switch m {
	case ModeMoonlight:
		return "moon"
	case ModeRHV:
		return "rhv"
	default:
		return "none"
	}
}

// ClassifiedNight is the read-only classification result for one record.
// Dark and Moon are nil when the night has no such window. Both are
// subintervals of Night when present, but they are not complements of each
// other; a night may have neither, either, or both.
type ClassifiedNight struct {
	Geometry Geometry

	// MoonEvent is the moonrise or moonset inside the night, nil for the
	// four geometries whose moon events lie outside the night.
	MoonEvent *ephemeris.Event

	Night Interval
	Dark  *Interval
	Moon  *Interval
	Mode  MoonMode
}

// NightDuration returns the length of the usable night window.
func (c *ClassifiedNight) NightDuration() time.Duration {
	return c.Night.Duration()
}

// DarkDuration returns the length of the moon-free window, zero when there
// is none.
func (c *ClassifiedNight) DarkDuration() time.Duration {
	if c.Dark == nil {
		return 0
	}
	return c.Dark.Duration()
}

// MoonDuration returns the length of the moonlit window, zero when there is
// none.
func (c *ClassifiedNight) MoonDuration() time.Duration {
	if c.Moon == nil {
		return 0
	}
	return c.Moon.Duration()
}

// Classify derives the observing windows for one night. It is a pure
// function of the record and config: the same inputs always produce the same
// result. Records violating sunset < sunrise fail with ErrInvalidGeometry.
func Classify(rec *ephemeris.NightRecord, cfg Config) (*ClassifiedNight, error) {
	if !rec.Sunset.Time.Before(rec.Sunrise.Time) {
		return nil, fmt.Errorf("%w: sunset %s is not before sunrise %s",
			ErrInvalidGeometry,
			rec.Sunset.Time.Format(time.RFC3339),
			rec.Sunrise.Time.Format(time.RFC3339))
	}

	geom, moonEvent, err := geometryOf(rec)
	if err != nil {
		return nil, err
	}

	c := &ClassifiedNight{
		Geometry:  geom,
		MoonEvent: moonEvent,
	}
	c.Night = nightInterval(rec, geom, cfg)
	if cfg.RewidenShortNights && c.Night.Duration() < cfg.MinimumInterval {
		c.Night = Interval{Start: rec.Sunset.Time, End: rec.Sunrise.Time}
	}
	c.Dark = darkInterval(rec, geom)
	c.Moon, c.Mode = moonInterval(rec, geom, cfg)

	return c, nil
}

// nightInterval derives the usable night window. The night shrinks when a
// bright moon rises mid-night (ends at moonrise) and starts late when a
// bright moon sets mid-night (starts at moonset); a dim moon leaves the full
// twilight-to-twilight span usable.
func nightInterval(rec *ephemeris.NightRecord, geom Geometry, cfg Config) Interval {
	sunset := rec.Sunset.Time
	sunrise := rec.Sunrise.Time

	switch geom {
	case RisesDuringNight:
		if max(rec.Sunrise.Fraction, rec.Moonrise.Fraction) > cfg.RHVPhaseThreshold {
			return Interval{Start: sunset, End: rec.Moonrise.Time}
		}
		return Interval{Start: sunset, End: sunrise}
	case SetsDuringNight:
		if max(rec.Sunset.Fraction, rec.Moonset.Fraction) > cfg.RHVPhaseThreshold {
			return Interval{Start: rec.Moonset.Time, End: sunrise}
		}
		return Interval{Start: sunset, End: sunrise}
	default:
		// Moon up all night, down all night, or both moon events outside the
		// night: the window is the full twilight-to-twilight span.
		return Interval{Start: sunset, End: sunrise}
	}
}

// darkInterval derives the moon-free window, nil when the moon interferes
// all night. For the two geometries with both moon events outside the night
// the moon's altitude at sunrise is the authoritative below-horizon test:
// illumination alone cannot distinguish "set and stayed down" from "rose
// again before the night ended".
func darkInterval(rec *ephemeris.NightRecord, geom Geometry) *Interval {
	full := &Interval{Start: rec.Sunset.Time, End: rec.Sunrise.Time}

	switch geom {
	case UpAllNight:
		return nil
	case DownAllNight:
		return full
	case BothBeforeSunset, BothAfterSunrise:
		if rec.Sunrise.Altitude < 0 {
			return full
		}
		return nil
	case RisesDuringNight:
		return &Interval{Start: rec.Sunset.Time, End: rec.Moonrise.Time}
	default: // SetsDuringNight
		return &Interval{Start: rec.Moonset.Time, End: rec.Sunrise.Time}
	}
}

// moonInterval mirrors darkInterval with opposite polarity: it finds the
// window with the moon above the horizon and classifies it by the brighter
// of its endpoint illumination fractions. The moon only brightens while it
// is up during a single night, so the peak endpoint bounds the whole window.
func moonInterval(rec *ephemeris.NightRecord, geom Geometry, cfg Config) (*Interval, MoonMode) {
	sunset := rec.Sunset.Time
	sunrise := rec.Sunrise.Time

	switch geom {
	case UpAllNight:
		iv := &Interval{Start: sunset, End: sunrise}
		return iv, cfg.modeForPeak(max(rec.Sunset.Fraction, rec.Sunrise.Fraction))
	case DownAllNight:
		return nil, ModeNone
	case BothBeforeSunset, BothAfterSunrise:
		if rec.Sunrise.Altitude < 0 {
			return nil, ModeNone
		}
		iv := &Interval{Start: sunset, End: sunrise}
		return iv, cfg.modeForPeak(max(rec.Sunset.Fraction, rec.Sunrise.Fraction))
	case RisesDuringNight:
		iv := &Interval{Start: rec.Moonrise.Time, End: sunrise}
		return iv, cfg.modeForPeak(max(rec.Moonrise.Fraction, rec.Sunrise.Fraction))
	default: // SetsDuringNight
		iv := &Interval{Start: sunset, End: rec.Moonset.Time}
		return iv, cfg.modeForPeak(max(rec.Sunset.Fraction, rec.Moonset.Fraction))
	}
}
