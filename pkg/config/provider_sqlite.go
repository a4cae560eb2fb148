package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from the SQLite database. The
// database carries one row per named configuration; the scheduler reads the
// 'default' one.
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	query := `
		SELECT site_name, latitude, longitude, timezone,
		       evening_horizon_angle, morning_horizon_angle,
		       moon_phase_threshold, rhv_phase_threshold,
		       minimum_interval_minutes, rewiden_short_nights,
		       ephemeris_source, ephemeris_exec_path,
		       timescaledb_connection, server_listen_addr, server_port
		FROM configs
		WHERE name = 'default'
	`

	config := &ConfigData{}
	var (
		latitude      float64
		longitude     float64
		eveningAngle  float64
		morningAngle  float64
		timescaleConn sql.NullString
		listenAddr    sql.NullString
		port          sql.NullInt64
		execPath      sql.NullString
	)
	err := s.db.QueryRow(query).Scan(
		&config.Site.Name,
		&latitude,
		&longitude,
		&config.Site.Timezone,
		&eveningAngle,
		&morningAngle,
		&config.Classifier.MoonPhaseThreshold,
		&config.Classifier.RHVPhaseThreshold,
		&config.Classifier.MinimumIntervalMinutes,
		&config.Classifier.RewidenShortNights,
		&config.Ephemeris.Source,
		&execPath,
		&timescaleConn,
		&listenAddr,
		&port,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	config.Site.Latitude = &latitude
	config.Site.Longitude = &longitude
	config.Site.EveningHorizonAngle = &eveningAngle
	config.Site.MorningHorizonAngle = &morningAngle
	config.Ephemeris.ExecPath = execPath.String
	if timescaleConn.Valid && timescaleConn.String != "" {
		config.Storage.TimescaleDB = &TimescaleDBData{ConnectionString: timescaleConn.String}
	}
	if listenAddr.Valid || port.Valid {
		config.Server = &ServerData{
			ListenAddr: listenAddr.String,
			Port:       int(port.Int64),
		}
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

const configSchema = `
CREATE TABLE IF NOT EXISTS configs (
	name                     TEXT PRIMARY KEY,
	site_name                TEXT NOT NULL,
	latitude                 REAL NOT NULL,
	longitude                REAL NOT NULL,
	timezone                 TEXT NOT NULL,
	evening_horizon_angle    REAL NOT NULL,
	morning_horizon_angle    REAL NOT NULL,
	moon_phase_threshold     REAL NOT NULL,
	rhv_phase_threshold      REAL NOT NULL,
	minimum_interval_minutes INTEGER NOT NULL,
	rewiden_short_nights     BOOLEAN NOT NULL DEFAULT 0,
	ephemeris_source         TEXT NOT NULL,
	ephemeris_exec_path      TEXT,
	timescaledb_connection   TEXT,
	server_listen_addr       TEXT,
	server_port              INTEGER
)`

// EnsureSchema creates the configs table if it does not exist yet.
func (s *SQLiteProvider) EnsureSchema() error {
	if _, err := s.db.Exec(configSchema); err != nil {
		return fmt.Errorf("failed to create configs table: %w", err)
	}
	return nil
}

// SaveConfig writes the configuration as the 'default' row, replacing any
// existing one.
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	if err := config.Validate(); err != nil {
		return err
	}

	var (
		execPath      sql.NullString
		timescaleConn sql.NullString
		listenAddr    sql.NullString
		port          sql.NullInt64
	)
	if config.Ephemeris.ExecPath != "" {
		execPath = sql.NullString{String: config.Ephemeris.ExecPath, Valid: true}
	}
	if config.Storage.TimescaleDB != nil {
		timescaleConn = sql.NullString{String: config.Storage.TimescaleDB.ConnectionString, Valid: true}
	}
	if config.Server != nil {
		listenAddr = sql.NullString{String: config.Server.ListenAddr, Valid: true}
		port = sql.NullInt64{Int64: int64(config.Server.Port), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO configs (
			name, site_name, latitude, longitude, timezone,
			evening_horizon_angle, morning_horizon_angle,
			moon_phase_threshold, rhv_phase_threshold,
			minimum_interval_minutes, rewiden_short_nights,
			ephemeris_source, ephemeris_exec_path,
			timescaledb_connection, server_listen_addr, server_port
		) VALUES ('default', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		config.Site.Name,
		*config.Site.Latitude,
		*config.Site.Longitude,
		config.Site.Timezone,
		*config.Site.EveningHorizonAngle,
		*config.Site.MorningHorizonAngle,
		config.Classifier.MoonPhaseThreshold,
		config.Classifier.RHVPhaseThreshold,
		config.Classifier.MinimumIntervalMinutes,
		config.Classifier.RewidenShortNights,
		config.Ephemeris.Source,
		execPath,
		timescaleConn,
		listenAddr,
		port,
	)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// IsReadOnly returns false; the SQLite backend can be managed in place.
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection.
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
