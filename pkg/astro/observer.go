package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// Observer is a geographic site. Longitude is east-positive.
type Observer struct {
	Latitude  unit.Angle
	Longitude unit.Angle
}

// NewObserver builds an Observer from latitude and longitude in degrees.
func NewObserver(latDeg, lonDeg float64) Observer {
	return Observer{
		Latitude:  unit.AngleFromDeg(latDeg),
		Longitude: unit.AngleFromDeg(lonDeg),
	}
}

// altitude computes the topocentric altitude of a body at equatorial
// position eq as seen from the observer at time t.
func (o Observer) altitude(eq Equatorial, t time.Time) unit.Angle {
	lst := localSiderealTime(t, o.Longitude)
	H := lst.Rad() - eq.RA.Rad() // hour angle

	sinPhi, cosPhi := o.Latitude.Sincos()
	sinDec, cosDec := eq.Dec.Sincos()

	sinAlt := sinPhi*sinDec + cosPhi*cosDec*math.Cos(H)
	return unit.Angle(math.Asin(sinAlt))
}

// SunAltitude returns the Sun's altitude above the horizon at t.
func (o Observer) SunAltitude(t time.Time) unit.Angle {
	return o.altitude(SunPosition(t), t)
}

// MoonAltitude returns the Moon's altitude above the horizon at t.
func (o Observer) MoonAltitude(t time.Time) unit.Angle {
	return o.altitude(MoonPosition(t), t)
}
