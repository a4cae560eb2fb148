package astro

import (
	"math"
	"testing"
	"time"
)

func TestMoonIllumination(t *testing.T) {
	tests := []struct {
		name    string
		time    time.Time
		rangeLo float64
		rangeHi float64
	}{
		{
			// Known new moon: Jan 21, 2023 20:53 UTC
			name:    "New Moon Jan 2023",
			time:    time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC),
			rangeLo: 0.0,
			rangeHi: 0.05,
		},
		{
			// Known full moon: Feb 5, 2023 18:29 UTC
			name:    "Full Moon Feb 2023",
			time:    time.Date(2023, 2, 5, 18, 29, 0, 0, time.UTC),
			rangeLo: 0.95,
			rangeHi: 1.0,
		},
		{
			// Known first quarter: Jan 28, 2023 15:19 UTC
			name:    "First Quarter Jan 2023",
			time:    time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC),
			rangeLo: 0.45,
			rangeHi: 0.55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := MoonIllumination(tt.time)
			if k < tt.rangeLo || k > tt.rangeHi {
				t.Errorf("MoonIllumination = %.3f, expected in [%.2f, %.2f]", k, tt.rangeLo, tt.rangeHi)
			}
		})
	}
}

func TestSunAltitudeDayNight(t *testing.T) {
	// Southern Arizona site: local noon is near 19:00 UTC.
	obs := NewObserver(31.675, -110.952)

	noon := obs.SunAltitude(time.Date(2024, 6, 21, 19, 0, 0, 0, time.UTC))
	if noon.Deg() < 30 {
		t.Errorf("sun altitude at local noon = %.1f deg, expected well above horizon", noon.Deg())
	}

	midnight := obs.SunAltitude(time.Date(2024, 6, 21, 7, 0, 0, 0, time.UTC))
	if midnight.Deg() > -20 {
		t.Errorf("sun altitude at local midnight = %.1f deg, expected well below horizon", midnight.Deg())
	}
}

func TestMoonAltitudeBounded(t *testing.T) {
	obs := NewObserver(31.675, -110.952)
	for hour := 0; hour < 24; hour += 3 {
		alt := obs.MoonAltitude(time.Date(2024, 3, 10, hour, 0, 0, 0, time.UTC))
		if math.Abs(alt.Deg()) > 90 {
			t.Errorf("moon altitude at hour %d = %.1f deg, out of range", hour, alt.Deg())
		}
	}
}

func TestFindCrossingSynthetic(t *testing.T) {
	// Altitude falls linearly from +50 deg through zero 100 minutes in.
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	f := func(tm time.Time) float64 {
		return 50 - 0.5*tm.Sub(start).Minutes()
	}

	got, ok := FindCrossing(f, start, start.Add(4*time.Hour), 0, Setting, 25, time.Second)
	if !ok {
		t.Fatal("expected a setting crossing, found none")
	}
	want := start.Add(100 * time.Minute)
	if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("crossing at %v, expected within 1m of %v", got, want)
	}

	// No rising crossing exists in a monotonically falling curve.
	if _, ok := FindCrossing(f, start, start.Add(4*time.Hour), 0, Rising, 25, time.Second); ok {
		t.Error("found a rising crossing in a falling altitude curve")
	}
}

func TestFindCrossingSunset(t *testing.T) {
	// Self-consistency: the solver's sunset time must put the sun at the
	// target altitude.
	obs := NewObserver(31.675, -110.952)
	const horizon = -15.0

	start := time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC) // local noon
	end := start.Add(12 * time.Hour)

	sunset, ok := FindCrossing(func(tm time.Time) float64 {
		return obs.SunAltitude(tm).Deg()
	}, start, end, horizon, Setting, 49, time.Second)
	if !ok {
		t.Fatal("no sunset found at mid-latitude site")
	}
	if alt := obs.SunAltitude(sunset).Deg(); math.Abs(alt-horizon) > 0.2 {
		t.Errorf("sun altitude at solved sunset = %.3f deg, expected %.1f", alt, horizon)
	}
}
