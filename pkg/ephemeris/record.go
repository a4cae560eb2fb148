package ephemeris

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord indicates an ephemeris line that could not be parsed.
var ErrMalformedRecord = errors.New("malformed ephemeris record")

// RecordFields is the number of comma-separated fields in one ephemeris line:
// four events, each contributing timestamp, fraction, and altitude.
const RecordFields = 12

// NightRecord holds the four events bounding a single local calendar night.
// The parser performs no geometric validation; callers that need the
// sunset-before-sunrise invariant enforce it themselves.
type NightRecord struct {
	Sunset   Event
	Sunrise  Event
	Moonset  Event
	Moonrise Event
}

// Events returns the four events sorted ascending by timestamp.
func (r *NightRecord) Events() []Event {
	evs := []Event{r.Sunset, r.Sunrise, r.Moonset, r.Moonrise}
	sort.Slice(evs, func(i, j int) bool {
		return evs[i].Time.Before(evs[j].Time)
	})
	return evs
}

// MarshalCSV renders the record as the 12-field line ParseRecord consumes.
func (r *NightRecord) MarshalCSV() string {
	fields := make([]string, 0, RecordFields)
	for _, ev := range []Event{r.Sunset, r.Sunrise, r.Moonset, r.Moonrise} {
		fields = append(fields,
			ev.Time.Format(time.RFC3339),
			strconv.FormatFloat(ev.Fraction, 'f', 4, 64),
			strconv.FormatFloat(ev.Altitude, 'f', 2, 64))
	}
	return strings.Join(fields, ",")
}

// ParseRecord parses one ephemeris line of 12 comma-separated fields in the
// fixed order sunset, sunrise, moonset, moonrise, each event contributing
// timestamp (RFC 3339 with offset), illuminated fraction, and moon altitude
// in degrees.
func ParseRecord(line string) (*NightRecord, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != RecordFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, RecordFields, len(fields))
	}

	kinds := []EventKind{Sunset, Sunrise, Moonset, Moonrise}
	events := make([]Event, len(kinds))
	for i, kind := range kinds {
		ev, err := parseEvent(fields[i*3:i*3+3], kind)
		if err != nil {
			return nil, err
		}
		events[i] = ev
	}

	return &NightRecord{
		Sunset:   events[0],
		Sunrise:  events[1],
		Moonset:  events[2],
		Moonrise: events[3],
	}, nil
}

func parseEvent(fields []string, kind EventKind) (Event, error) {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[0]))
	if err != nil {
		return Event{}, fmt.Errorf("%w: bad %s timestamp %q: %v", ErrMalformedRecord, kind, fields[0], err)
	}
	frac, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: bad %s fraction %q: %v", ErrMalformedRecord, kind, fields[1], err)
	}
	alt, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: bad %s altitude %q: %v", ErrMalformedRecord, kind, fields[2], err)
	}
	return Event{Time: ts, Fraction: frac, Altitude: alt, Kind: kind}, nil
}
