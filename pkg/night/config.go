package night

import "time"

// Default classification thresholds, inherited from the VERITAS schedule
// tooling: moonlight observing is possible below 30% illumination, reduced
// high voltage (RHV) observing below 66.6%, and a night must offer at least
// two hours of moon-free time to count toward a dark run.
const (
	DefaultMoonPhaseThreshold = 0.300
	DefaultRHVPhaseThreshold  = 0.666
	DefaultMinimumInterval    = 2 * time.Hour
)

// Config carries the classification thresholds. The classifier takes it as
// an explicit argument so that classification stays a pure function.
type Config struct {
	// MoonPhaseThreshold is the illuminated fraction below which a moonlit
	// window is still usable for regular moonlight observing.
	MoonPhaseThreshold float64

	// RHVPhaseThreshold is the illuminated fraction below which a moonlit
	// window is usable with reduced high voltage. At or above it the window
	// is not used for observing at all.
	RHVPhaseThreshold float64

	// MinimumInterval is the least dark time a night must provide to count
	// as a dark-run night.
	MinimumInterval time.Duration

	// RewidenShortNights restores the full sunset-to-sunrise span when the
	// derived night interval comes out shorter than MinimumInterval. Off by
	// default; kept as an explicit switch because only one lineage of the
	// schedule tooling behaved this way.
	RewidenShortNights bool
}

// DefaultConfig returns the standard observatory thresholds.
func DefaultConfig() Config {
	return Config{
		MoonPhaseThreshold: DefaultMoonPhaseThreshold,
		RHVPhaseThreshold:  DefaultRHVPhaseThreshold,
		MinimumInterval:    DefaultMinimumInterval,
	}
}

// modeForPeak classifies a moonlit window by its brightest endpoint.
// Below MoonPhaseThreshold it is moonlight time, in
// [MoonPhaseThreshold, RHVPhaseThreshold) it is RHV time, and at or above
// RHVPhaseThreshold the window is unusable.
func (c Config) modeForPeak(peak float64) MoonMode {
	switch {
	case peak < c.MoonPhaseThreshold:
		return ModeMoonlight
	case peak < c.RHVPhaseThreshold:
		return ModeRHV
	default:
		return ModeNone
	}
}
