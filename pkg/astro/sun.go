package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// sunEclipticLongitude computes the Sun's apparent ecliptic longitude.
func sunEclipticLongitude(T float64) unit.Angle {
	// Mean longitude
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T

	// Mean anomaly
	M := unit.AngleFromDeg(357.52911 + 35999.05029*T - 0.0001537*T*T).Mod1()

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*M.Sin() +
		(0.019993-0.000101*T)*math.Sin(2*M.Rad()) +
		0.000289*math.Sin(3*M.Rad())

	return unit.AngleFromDeg(L0 + C).Mod1()
}

// SunPosition returns the Sun's geocentric equatorial coordinates at t.
func SunPosition(t time.Time) Equatorial {
	T := julianCenturies(t)
	return eclipticToEquatorial(sunEclipticLongitude(T), 0, obliquity(T))
}
