// Package database archives the computed schedule to the observatory's
// TimescaleDB instance so other planning tools can query it.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/skysurvey/nightsched/internal/log"
	"github.com/skysurvey/nightsched/internal/types"
	"github.com/skysurvey/nightsched/pkg/config"
	"go.uber.org/zap"
)

// Client holds the connection to the schedule database
type Client struct {
	config *config.ConfigData
	DB     *gorm.DB // Exported so it can be accessed from other packages
	logger *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(c *config.ConfigData, logger *zap.SugaredLogger) *Client {
	return &Client{
		config: c,
		logger: logger,
	}
}

// Connect connects to the schedule database and ensures the archive table
// exists.
func (c *Client) Connect() error {
	if c.config.Storage.TimescaleDB == nil {
		return fmt.Errorf("no TimescaleDB storage configured")
	}

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	gormConfig := &gorm.Config{
		Logger: dbLogger,
	}

	log.Info("connecting to schedule database...")
	db, err := gorm.Open(postgres.Open(c.config.Storage.TimescaleDB.ConnectionString), gormConfig)
	if err != nil {
		log.Warn("warning: unable to create a schedule database connection:", err)
		return err
	}
	c.DB = db
	log.Info("schedule database connection successful")

	return c.DB.AutoMigrate(&ScheduleRow{})
}

// SaveNights upserts the archive rows for a processed date range. Re-running
// the scheduler over the same range replaces the existing rows.
func (c *Client) SaveNights(nights []types.ScheduleNight) error {
	if len(nights) == 0 {
		return nil
	}

	rows := make([]ScheduleRow, 0, len(nights))
	for i := range nights {
		rows = append(rows, NewScheduleRow(&nights[i], c.config.Site.Name))
	}

	result := c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "night_date"}},
		UpdateAll: true,
	}).Create(&rows)
	if result.Error != nil {
		return fmt.Errorf("failed to archive %d nights: %w", len(rows), result.Error)
	}

	c.logger.Infof("archived %d nights to schedule database", len(rows))
	return nil
}

// FetchRange returns archived rows with night_date in [start, end],
// ascending.
func (c *Client) FetchRange(start, end time.Time) ([]ScheduleRow, error) {
	var rows []ScheduleRow
	result := c.DB.
		Where("night_date BETWEEN ? AND ?", start, end).
		Order("night_date asc").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch schedule rows: %w", result.Error)
	}
	return rows, nil
}
