package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// Fundamental lunar arguments (Meeus Ch. 47), all in degrees.
func moonArguments(T float64) (L, D, Mp, F unit.Angle) {
	L = unit.AngleFromDeg(218.3164477 +
		481267.88123421*T -
		0.0015786*T*T +
		T*T*T/538841 -
		T*T*T*T/65194000).Mod1()

	D = unit.AngleFromDeg(297.8501921 +
		445267.1114034*T -
		0.0018819*T*T +
		T*T*T/545868 -
		T*T*T*T/113065000).Mod1()

	Mp = unit.AngleFromDeg(134.9633964 +
		477198.8675055*T +
		0.0087414*T*T +
		T*T*T/69699 -
		T*T*T*T/14712000).Mod1()

	F = unit.AngleFromDeg(93.2720950 +
		483202.0175233*T -
		0.0036539*T*T -
		T*T*T/3526000 +
		T*T*T*T/863310000).Mod1()

	return L, D, Mp, F
}

// moonEclipticLongitude computes the Moon's ecliptic longitude using the
// dominant periodic terms.
func moonEclipticLongitude(T float64) unit.Angle {
	L, D, Mp, _ := moonArguments(T)

	lambda := L.Deg() +
		6.289*Mp.Sin() +
		1.274*math.Sin(2*D.Rad()-Mp.Rad()) +
		0.658*math.Sin(2*D.Rad()) +
		0.214*math.Sin(2*Mp.Rad()) +
		0.110*D.Sin()

	return unit.AngleFromDeg(lambda).Mod1()
}

// moonEclipticLatitude computes the Moon's ecliptic latitude from the
// dominant terms of Meeus Table 47.B.
func moonEclipticLatitude(T float64) unit.Angle {
	_, D, Mp, F := moonArguments(T)

	beta := 5.128*F.Sin() +
		0.2806*math.Sin(Mp.Rad()+F.Rad()) +
		0.2777*math.Sin(Mp.Rad()-F.Rad()) +
		0.1732*math.Sin(2*D.Rad()-F.Rad())

	return unit.AngleFromDeg(beta)
}

// MoonPosition returns the Moon's geocentric equatorial coordinates at t.
func MoonPosition(t time.Time) Equatorial {
	T := julianCenturies(t)
	return eclipticToEquatorial(moonEclipticLongitude(T), moonEclipticLatitude(T), obliquity(T))
}

// MoonIllumination returns the illuminated fraction of the lunar disk at t,
// in [0,1]: 0 at new moon, 1 at full moon. Computed from the Sun-Moon
// elongation in ecliptic longitude.
func MoonIllumination(t time.Time) float64 {
	T := julianCenturies(t)
	elongation := (moonEclipticLongitude(T) - sunEclipticLongitude(T)).Mod1()
	return (1 - elongation.Cos()) / 2
}
