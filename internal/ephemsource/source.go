// Package ephemsource produces one NightRecord per calendar night. Two
// backends exist: the built-in astronomy in pkg/astro, and an external
// generator binary invoked once per night the way the original schedule
// tooling shelled out to its ephemeris program.
package ephemsource

import (
	"context"
	"fmt"
	"time"

	"github.com/skysurvey/nightsched/pkg/config"
	"github.com/skysurvey/nightsched/pkg/ephemeris"
)

// Source produces the ephemeris record for the night beginning on the given
// local calendar date.
type Source interface {
	Night(ctx context.Context, date time.Time) (*ephemeris.NightRecord, error)
}

// New builds the source selected by the configuration.
func New(cfg *config.ConfigData) (Source, error) {
	switch cfg.Ephemeris.Source {
	case "computed":
		return NewComputedSource(cfg)
	case "exec":
		return NewExecSource(cfg.Ephemeris.ExecPath)
	default:
		return nil, fmt.Errorf("unknown ephemeris source %q", cfg.Ephemeris.Source)
	}
}
