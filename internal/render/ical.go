package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skysurvey/nightsched/internal/types"
	"github.com/skysurvey/nightsched/pkg/night"
)

const icalTimestamp = "20060102T150405Z"

// WriteICS writes the schedule as an iCalendar feed with one VEVENT per
// night that belongs to a run: dark-run nights cover their dark interval,
// bright-run nights their usable night interval.
func WriteICS(w io.Writer, nights []types.ScheduleNight, calendarName string) error {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//skysurvey//nightsched//EN\r\n")
	fmt.Fprintf(&b, "X-WR-CALNAME:%s\r\n", escapeText(calendarName))

	now := time.Now().UTC().Format(icalTimestamp)
	for i := range nights {
		writeEvent(&b, &nights[i], now)
	}

	b.WriteString("END:VCALENDAR\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeEvent(b *strings.Builder, n *types.ScheduleNight, dtstamp string) {
	label := n.Label()
	if label == "" {
		return
	}

	var iv night.Interval
	var summary string
	if n.IsDark() && n.Class.Dark != nil {
		iv = *n.Class.Dark
		summary = fmt.Sprintf("%s dark time (%s)", label, formatDuration(iv.Duration()))
	} else {
		iv = n.Class.Night
		summary = fmt.Sprintf("%s night (%s)", label, formatDuration(iv.Duration()))
	}

	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(b, "UID:%s@nightsched\r\n", uuid.New())
	fmt.Fprintf(b, "DTSTAMP:%s\r\n", dtstamp)
	fmt.Fprintf(b, "DTSTART:%s\r\n", iv.Start.UTC().Format(icalTimestamp))
	fmt.Fprintf(b, "DTEND:%s\r\n", iv.End.UTC().Format(icalTimestamp))
	fmt.Fprintf(b, "SUMMARY:%s\r\n", escapeText(summary))
	if n.Class.Moon != nil && n.Class.Mode != night.ModeNone {
		fmt.Fprintf(b, "DESCRIPTION:%s window %s - %s (%.0f%% moon)\r\n",
			n.Class.Mode,
			n.Class.Moon.Start.Format(timeFormat),
			n.Class.Moon.End.Format(timeFormat),
			n.PeakFraction()*100)
	}
	b.WriteString("END:VEVENT\r\n")
}

// escapeText escapes the characters iCalendar requires escaping in text
// values.
func escapeText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
