// Package render formats the computed schedule as CSV rows for the planning
// spreadsheet, iCalendar events, or an HTML table. Rendering only reads the
// assembled ScheduleNight values; no classification decision is made here.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/skysurvey/nightsched/internal/types"
	"github.com/skysurvey/nightsched/pkg/ephemeris"
	"github.com/skysurvey/nightsched/pkg/night"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "2006-01-02 15:04:05"
)

// csvHeader mirrors the columns of the observatory planning spreadsheet.
var csvHeader = []string{
	"Run", "UTC Date", "Local Date",
	"Sunset", "Moon Event", "Rise/Set", "Sunrise",
	"Night Start", "Night End", "Dark Start", "Dark End",
	"Moon Start", "Moon End", "Mode", "Moon Phase %",
}

// WriteCSV writes one spreadsheet row per night.
func WriteCSV(w io.Writer, nights []types.ScheduleNight) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range nights {
		if err := cw.Write(csvRow(&nights[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(n *types.ScheduleNight) []string {
	c := n.Class
	row := []string{
		n.Label(),
		c.Night.Start.UTC().Format(dateFormat),
		c.Night.Start.Format(dateFormat),
		n.Record.Sunset.Time.Format(timeFormat),
	}

	if c.MoonEvent != nil {
		row = append(row, c.MoonEvent.Time.Format(timeFormat), moonEventTag(c.MoonEvent.Kind))
	} else {
		row = append(row, "", "")
	}
	row = append(row, n.Record.Sunrise.Time.Format(timeFormat))

	row = append(row,
		c.Night.Start.Format(timeFormat),
		c.Night.End.Format(timeFormat))
	row = append(row, intervalCells(c.Dark)...)
	row = append(row, intervalCells(c.Moon)...)

	if c.Mode != night.ModeNone && c.Moon != nil {
		row = append(row, c.Mode.String(), fmt.Sprintf("%.2f", n.PeakFraction()*100))
	} else {
		row = append(row, "", "")
	}
	return row
}

func intervalCells(iv *night.Interval) []string {
	if iv == nil {
		return []string{"", ""}
	}
	return []string{iv.Start.Format(timeFormat), iv.End.Format(timeFormat)}
}

func moonEventTag(kind ephemeris.EventKind) string {
	if kind == ephemeris.Moonrise {
		return "Rise"
	}
	return "Set"
}

// formatDuration renders a duration as H:MM for the schedule outputs.
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
