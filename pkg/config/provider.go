// Package config loads the scheduler configuration from pluggable backends.
// A YAML file is the common case; a SQLite database is supported for sites
// that manage configuration centrally.
package config

import (
	"fmt"
	"time"

	"github.com/skysurvey/nightsched/pkg/night"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Site       SiteData       `json:"site" yaml:"site"`
	Classifier ClassifierData `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	Ephemeris  EphemerisData  `json:"ephemeris,omitempty" yaml:"ephemeris,omitempty"`
	Storage    StorageData    `json:"storage,omitempty" yaml:"storage,omitempty"`
	Server     *ServerData    `json:"server,omitempty" yaml:"server,omitempty"`
}

// SiteData describes the observatory site and its twilight definition. The
// numeric fields are pointers so that an absent key is distinguishable from
// an explicit zero (a site on the equator or prime meridian, a 0° horizon
// angle); only absent fields pick up the built-in defaults.
type SiteData struct {
	Name      string   `json:"name" yaml:"name"`
	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Timezone  string   `json:"timezone" yaml:"timezone"`

	// Sun altitudes defining the observing night: the evening angle marks
	// the end of evening twilight, the morning angle the start of morning
	// twilight.
	EveningHorizonAngle *float64 `json:"evening_horizon_angle,omitempty" yaml:"evening_horizon_angle,omitempty"`
	MorningHorizonAngle *float64 `json:"morning_horizon_angle,omitempty" yaml:"morning_horizon_angle,omitempty"`
}

// ClassifierData holds the night-classification thresholds.
type ClassifierData struct {
	MoonPhaseThreshold     float64 `json:"moon_phase_threshold,omitempty" yaml:"moon_phase_threshold,omitempty"`
	RHVPhaseThreshold      float64 `json:"rhv_phase_threshold,omitempty" yaml:"rhv_phase_threshold,omitempty"`
	MinimumIntervalMinutes int     `json:"minimum_interval_minutes,omitempty" yaml:"minimum_interval_minutes,omitempty"`
	RewidenShortNights     bool    `json:"rewiden_short_nights,omitempty" yaml:"rewiden_short_nights,omitempty"`
}

// EphemerisData selects where the nightly event records come from.
type EphemerisData struct {
	// Source is "computed" (built-in astronomy) or "exec" (external
	// generator binary invoked once per night).
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	ExecPath string `json:"exec_path,omitempty" yaml:"exec_path,omitempty"`
}

// StorageData holds the configuration for schedule archival backends.
type StorageData struct {
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty" yaml:"timescaledb,omitempty"`
}

// TimescaleDBData configures the schedule archive database.
type TimescaleDBData struct {
	ConnectionString string `json:"connection_string" yaml:"connection_string"`
}

// ServerData configures the optional schedule REST server.
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
}

// Default site values: the VERITAS basecamp site and its twilight angles.
const (
	DefaultLatitude            = 31.675
	DefaultLongitude           = -110.952
	DefaultTimezone            = "America/Phoenix"
	DefaultEveningHorizonAngle = -16.5
	DefaultMorningHorizonAngle = -15.0
)

// Default returns a configuration carrying only the built-in site and
// thresholds, for tools that can run without a config file.
func Default() *ConfigData {
	c := &ConfigData{}
	c.applyDefaults()
	return c
}

// applyDefaults fills unset fields with the standard site and thresholds.
func (c *ConfigData) applyDefaults() {
	if c.Site.Latitude == nil {
		c.Site.Latitude = ptrFloat(DefaultLatitude)
	}
	if c.Site.Longitude == nil {
		c.Site.Longitude = ptrFloat(DefaultLongitude)
	}
	if c.Site.Timezone == "" {
		c.Site.Timezone = DefaultTimezone
	}
	if c.Site.EveningHorizonAngle == nil {
		c.Site.EveningHorizonAngle = ptrFloat(DefaultEveningHorizonAngle)
	}
	if c.Site.MorningHorizonAngle == nil {
		c.Site.MorningHorizonAngle = ptrFloat(DefaultMorningHorizonAngle)
	}
	if c.Classifier.MoonPhaseThreshold == 0 {
		c.Classifier.MoonPhaseThreshold = night.DefaultMoonPhaseThreshold
	}
	if c.Classifier.RHVPhaseThreshold == 0 {
		c.Classifier.RHVPhaseThreshold = night.DefaultRHVPhaseThreshold
	}
	if c.Classifier.MinimumIntervalMinutes == 0 {
		c.Classifier.MinimumIntervalMinutes = int(night.DefaultMinimumInterval / time.Minute)
	}
	if c.Ephemeris.Source == "" {
		c.Ephemeris.Source = "computed"
	}
}

// Validate checks the configuration for inconsistencies that would only
// surface mid-run otherwise.
func (c *ConfigData) Validate() error {
	if c.Site.Latitude == nil || c.Site.Longitude == nil ||
		c.Site.EveningHorizonAngle == nil || c.Site.MorningHorizonAngle == nil {
		return fmt.Errorf("site section is missing coordinates or horizon angles")
	}
	if *c.Site.Latitude < -90 || *c.Site.Latitude > 90 {
		return fmt.Errorf("site latitude %v out of range", *c.Site.Latitude)
	}
	if *c.Site.Longitude < -180 || *c.Site.Longitude > 180 {
		return fmt.Errorf("site longitude %v out of range", *c.Site.Longitude)
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return fmt.Errorf("bad site timezone %q: %w", c.Site.Timezone, err)
	}
	if c.Classifier.MoonPhaseThreshold > c.Classifier.RHVPhaseThreshold {
		return fmt.Errorf("moon phase threshold %v exceeds RHV threshold %v",
			c.Classifier.MoonPhaseThreshold, c.Classifier.RHVPhaseThreshold)
	}
	switch c.Ephemeris.Source {
	case "computed":
	case "exec":
		if c.Ephemeris.ExecPath == "" {
			return fmt.Errorf("ephemeris source %q requires exec_path", c.Ephemeris.Source)
		}
	default:
		return fmt.Errorf("unknown ephemeris source %q", c.Ephemeris.Source)
	}
	return nil
}

// NightConfig converts the classifier section into the classifier's config.
func (c *ConfigData) NightConfig() night.Config {
	return night.Config{
		MoonPhaseThreshold: c.Classifier.MoonPhaseThreshold,
		RHVPhaseThreshold:  c.Classifier.RHVPhaseThreshold,
		MinimumInterval:    time.Duration(c.Classifier.MinimumIntervalMinutes) * time.Minute,
		RewidenShortNights: c.Classifier.RewidenShortNights,
	}
}

// Location resolves the site timezone.
func (c *ConfigData) Location() (*time.Location, error) {
	return time.LoadLocation(c.Site.Timezone)
}

func ptrFloat(v float64) *float64 {
	return &v
}
