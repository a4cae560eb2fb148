// Package astro provides the sun and moon position calculations behind the
// nightly ephemeris: equatorial coordinates, illuminated lunar fraction,
// observer-local altitudes, and a generic altitude-crossing solver used to
// find rise and set times against configurable horizon angles.
//
// The position models use truncated Meeus-style series, good to arcminute
// accuracy, which keeps rise/set times within a minute or two of full
// ephemeris-grade results.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

// Equatorial holds geocentric equatorial coordinates.
type Equatorial struct {
	RA  unit.RA
	Dec unit.Angle
}

// julianCenturies returns Julian centuries since J2000.0 for a time.
func julianCenturies(t time.Time) float64 {
	return (julian.TimeToJD(t.UTC()) - 2451545.0) / 36525.0
}

// obliquity computes the mean obliquity of the ecliptic (IAU formula).
func obliquity(T float64) unit.Angle {
	return unit.AngleFromDeg(23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T)
}

// eclipticToEquatorial converts ecliptic longitude and latitude to
// equatorial coordinates for a given obliquity.
func eclipticToEquatorial(lambda, beta, eps unit.Angle) Equatorial {
	sinLam, cosLam := lambda.Sincos()
	sinBet, cosBet := beta.Sincos()
	sinEps, cosEps := eps.Sincos()

	dec := math.Asin(sinBet*cosEps + cosBet*sinEps*sinLam)
	ra := math.Atan2(sinLam*cosEps-math.Tan(beta.Rad())*sinEps, cosLam)

	return Equatorial{
		RA:  unit.RAFromRad(ra),
		Dec: unit.Angle(dec),
	}
}

// greenwichMeanSiderealTime computes GMST for a Julian Day (IAU 1982 model,
// Meeus eq. 12.4).
func greenwichMeanSiderealTime(jd float64) unit.Angle {
	jd0 := math.Floor(jd-0.5) + 0.5
	T := (jd0 - 2451545.0) / 36525.0

	// GMST at the preceding midnight, in hours.
	gmst := 6.697374558 + 2400.0513369*T + 0.0000258622*T*T - 1.7222e-9*T*T*T
	gmst += 1.00273790935 * (jd - jd0) * 24.0

	gmst = unit.PMod(gmst, 24)
	return unit.AngleFromDeg(gmst * 15.0)
}

// localSiderealTime computes LST for a time and east-positive longitude.
func localSiderealTime(t time.Time, lon unit.Angle) unit.Angle {
	gmst := greenwichMeanSiderealTime(julian.TimeToJD(t.UTC()))
	return (gmst + lon).Mod1()
}
