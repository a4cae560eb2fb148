package render

import (
	"strings"
	"testing"
	"time"

	"github.com/skysurvey/nightsched/internal/types"
	"github.com/skysurvey/nightsched/pkg/ephemeris"
	"github.com/skysurvey/nightsched/pkg/night"
	"github.com/skysurvey/nightsched/pkg/schedule"
)

var mst = time.FixedZone("MST", -7*3600)

func fixtureNights(t *testing.T) []types.ScheduleNight {
	t.Helper()

	mkEvent := func(day, hour, min int, frac, alt float64, kind ephemeris.EventKind) ephemeris.Event {
		return ephemeris.Event{
			Time:     time.Date(2024, 1, day, hour, min, 0, 0, mst),
			Fraction: frac,
			Altitude: alt,
			Kind:     kind,
		}
	}

	records := []*ephemeris.NightRecord{
		{ // dark night: moon down all night
			Sunset:   mkEvent(15, 19, 0, -1, -5, ephemeris.Sunset),
			Sunrise:  mkEvent(16, 6, 0, -1, -20, ephemeris.Sunrise),
			Moonset:  mkEvent(15, 17, 0, 0.02, 0, ephemeris.Moonset),
			Moonrise: mkEvent(16, 7, 30, 0.03, 0, ephemeris.Moonrise),
		},
		{ // bright night: moon up all night at 55-58%
			Sunset:   mkEvent(16, 19, 0, 0.55, 10, ephemeris.Sunset),
			Sunrise:  mkEvent(17, 6, 0, 0.58, 15, ephemeris.Sunrise),
			Moonset:  mkEvent(17, 7, 0, 0.58, 0, ephemeris.Moonset),
			Moonrise: mkEvent(16, 18, 0, 0.54, 0, ephemeris.Moonrise),
		},
	}

	acc := schedule.NewAccumulator(2 * time.Hour)
	nights := make([]types.ScheduleNight, 0, len(records))
	for _, rec := range records {
		c, err := night.Classify(rec, night.DefaultConfig())
		if err != nil {
			t.Fatalf("classifying fixture: %v", err)
		}
		nights = append(nights, types.ScheduleNight{
			Date:   rec.Sunset.Time,
			Record: rec,
			Class:  c,
			Runs:   acc.Advance(c.DarkDuration()),
		})
	}
	return nights
}

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, fixtureNights(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Run,UTC Date") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "DR01-01") {
		t.Errorf("first row missing dark run label: %q", lines[1])
	}
	if !strings.Contains(lines[2], "BR01-01") {
		t.Errorf("second row missing bright run label: %q", lines[2])
	}
	if !strings.Contains(lines[2], "rhv") || !strings.Contains(lines[2], "58.00") {
		t.Errorf("second row missing mode/phase columns: %q", lines[2])
	}
}

func TestWriteICS(t *testing.T) {
	var buf strings.Builder
	if err := WriteICS(&buf, fixtureNights(t), "Dark Run Schedule"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Error("output is not a VCALENDAR")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("got %d VEVENTs, expected 2", got)
	}
	if !strings.Contains(out, "SUMMARY:DR01-01 dark time (11:00)") {
		t.Errorf("missing dark-run summary in:\n%s", out)
	}
	// Dark interval of the first fixture runs 19:00 MST to 06:00 MST, which
	// is 02:00Z to 13:00Z.
	if !strings.Contains(out, "DTSTART:20240116T020000Z") {
		t.Errorf("missing UTC DTSTART in:\n%s", out)
	}
	if !strings.Contains(out, "UID:") {
		t.Error("events missing UIDs")
	}
}

func TestWriteHTML(t *testing.T) {
	var buf strings.Builder
	if err := WriteHTML(&buf, fixtureNights(t), "January fortnight"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<title>January fortnight</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, `tr class="dark"`) || !strings.Contains(out, `tr class="bright"`) {
		t.Error("missing row classes")
	}
	if !strings.Contains(out, "DR01-01") || !strings.Contains(out, "BR01-01") {
		t.Error("missing run labels")
	}
}
