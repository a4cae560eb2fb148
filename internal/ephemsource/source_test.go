package ephemsource

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/skysurvey/nightsched/pkg/astro"
	"github.com/skysurvey/nightsched/pkg/config"
	"github.com/skysurvey/nightsched/pkg/ephemeris"
	"github.com/skysurvey/nightsched/pkg/night"
)

func defaultSiteConfig(t *testing.T) *config.ConfigData {
	t.Helper()
	return config.Default()
}

func TestComputedSourceNight(t *testing.T) {
	src, err := NewComputedSource(defaultSiteConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	rec, err := src.Night(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rec.Sunset.Time.Before(rec.Sunrise.Time) {
		t.Errorf("sunset %v not before sunrise %v", rec.Sunset.Time, rec.Sunrise.Time)
	}
	// Mid-latitude winter night runs roughly 11-14 hours between the
	// twilight angles.
	nightLen := rec.Sunrise.Time.Sub(rec.Sunset.Time)
	if nightLen < 8*time.Hour || nightLen > 16*time.Hour {
		t.Errorf("night length = %v, implausible for January at 31.7N", nightLen)
	}
	if rec.Sunset.Kind != ephemeris.Sunset || rec.Moonrise.Kind != ephemeris.Moonrise {
		t.Errorf("event kinds wrong: %v, %v", rec.Sunset.Kind, rec.Moonrise.Kind)
	}

	// The record must classify under the standard thresholds.
	if _, err := night.Classify(rec, night.DefaultConfig()); err != nil {
		t.Errorf("computed record failed classification: %v", err)
	}

	// Round trip through the wire format.
	parsed, err := ephemeris.ParseRecord(rec.MarshalCSV())
	if err != nil {
		t.Fatalf("marshal/parse round trip: %v", err)
	}
	if !parsed.Sunset.Time.Equal(rec.Sunset.Time) {
		t.Errorf("round-tripped sunset %v != %v", parsed.Sunset.Time, rec.Sunset.Time)
	}
}

func TestComputedSourceMoonSentinel(t *testing.T) {
	src, err := NewComputedSource(defaultSiteConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Over a synodic month at least one night has the moon down at sunset,
	// which must carry the -1 sentinel.
	sawSentinel := false
	for day := 1; day <= 30; day++ {
		rec, err := src.Night(context.Background(), time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC))
		if err != nil {
			continue
		}
		if rec.Sunset.Fraction == -1 {
			if rec.Sunset.Altitude >= 0 {
				t.Errorf("day %d: sentinel fraction with moon above horizon (alt %.1f)", day, rec.Sunset.Altitude)
			}
			sawSentinel = true
		}
	}
	if !sawSentinel {
		t.Error("no night in March 2024 had the moon below the horizon at sunset")
	}
}

// Roughly once per synodic month the moon's daily lag pushes a rise or set
// past the next midnight, leaving the calendar day without that event. The
// crossing search must move onto the following day instead of failing.
func TestMoonCrossingWidensSearch(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Rising crossing 26h after the window start, outside the first 25h
	// window: linear altitude through zero at the crossing.
	crossing := start.Add(26 * time.Hour)
	alt := func(tm time.Time) float64 { return tm.Sub(crossing).Minutes() }

	got, ok := moonCrossing(alt, start, astro.Rising)
	if !ok {
		t.Fatal("no crossing found in the widened window")
	}
	if d := got.Sub(crossing); d < -time.Minute || d > time.Minute {
		t.Errorf("crossing found at %v, expected within a minute of %v", got, crossing)
	}

	// A moon that never crosses the horizon stays not-found.
	if _, ok := moonCrossing(func(time.Time) float64 { return 5 }, start, astro.Setting); ok {
		t.Error("found a crossing for an always-up moon")
	}
}

func TestComputedSourceFullMonth(t *testing.T) {
	src, err := NewComputedSource(defaultSiteConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every night of the month must yield all four events, including the
	// days whose moonrise or moonset slips onto the following day.
	for day := 1; day <= 31; day++ {
		date := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
		rec, err := src.Night(context.Background(), date)
		if err != nil {
			t.Errorf("day %d: %v", day, err)
			continue
		}
		if rec.Moonrise.Time.IsZero() || rec.Moonset.Time.IsZero() {
			t.Errorf("day %d: missing moon event", day)
		}
	}
}

func TestExecSource(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}

	line := "2024-01-15T18:42:00-07:00,0.31,12.5," +
		"2024-01-16T06:55:00-07:00,-1,-8.2," +
		"2024-01-16T01:12:00-07:00,0.33,0.00," +
		"2024-01-15T12:03:00-07:00,0.29,0.00"

	script := filepath.Join(t.TempDir(), "vephem")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \""+line+"\"\n"), 0o755); err != nil {
		t.Fatalf("writing fixture script: %v", err)
	}

	src, err := NewExecSource(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := src.Night(context.Background(), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Sunset.Fraction != 0.31 {
		t.Errorf("Sunset.Fraction = %v, expected 0.31", rec.Sunset.Fraction)
	}
}

func TestExecSourceFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}

	script := filepath.Join(t.TempDir(), "vephem")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("writing fixture script: %v", err)
	}

	src, err := NewExecSource(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := src.Night(context.Background(), time.Now()); err == nil {
		t.Error("expected error from failing generator, got nil")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := defaultSiteConfig(t)
	src, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*ComputedSource); !ok {
		t.Errorf("source = %T, expected *ComputedSource", src)
	}

	cfg.Ephemeris.Source = "exec"
	cfg.Ephemeris.ExecPath = "/usr/local/bin/vephem"
	src, err = New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*ExecSource); !ok {
		t.Errorf("source = %T, expected *ExecSource", src)
	}
}
