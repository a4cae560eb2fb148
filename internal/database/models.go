package database

import (
	"time"

	"github.com/skysurvey/nightsched/internal/types"
	"github.com/skysurvey/nightsched/pkg/night"
)

// ScheduleRow is one archived night in the schedule database.
type ScheduleRow struct {
	NightDate time.Time `gorm:"primaryKey;column:night_date"`
	Site      string    `gorm:"column:site;not null"`

	RunLabel string `gorm:"column:run_label"`
	Geometry string `gorm:"column:geometry;not null"`

	NightStart time.Time `gorm:"column:night_start;not null"`
	NightEnd   time.Time `gorm:"column:night_end;not null"`

	DarkStart *time.Time `gorm:"column:dark_start"`
	DarkEnd   *time.Time `gorm:"column:dark_end"`

	MoonStart *time.Time `gorm:"column:moon_start"`
	MoonEnd   *time.Time `gorm:"column:moon_end"`
	MoonMode  string     `gorm:"column:moon_mode"`

	DarkMinutes int `gorm:"column:dark_minutes"`

	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for ScheduleRow
func (ScheduleRow) TableName() string {
	return "schedule_nights"
}

// NewScheduleRow flattens an assembled night into its archive row.
func NewScheduleRow(n *types.ScheduleNight, site string) ScheduleRow {
	row := ScheduleRow{
		NightDate:   n.Date,
		Site:        site,
		RunLabel:    n.Label(),
		Geometry:    n.Class.Geometry.String(),
		NightStart:  n.Class.Night.Start,
		NightEnd:    n.Class.Night.End,
		DarkMinutes: int(n.Class.DarkDuration().Minutes()),
	}
	if iv := n.Class.Dark; iv != nil {
		row.DarkStart, row.DarkEnd = &iv.Start, &iv.End
	}
	if iv := n.Class.Moon; iv != nil {
		row.MoonStart, row.MoonEnd = &iv.Start, &iv.End
	}
	if n.Class.Mode != night.ModeNone {
		row.MoonMode = n.Class.Mode.String()
	}
	return row
}
