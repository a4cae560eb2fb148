package astro

import "time"

// AltitudeFunc returns a body's altitude in degrees at time t.
type AltitudeFunc func(t time.Time) float64

// CrossingDir selects which horizon crossing to search for.
type CrossingDir int

const (
	// Rising: altitude increasing through the target.
	Rising CrossingDir = iota
	// Setting: altitude decreasing through the target.
	Setting
)

// FindCrossing searches [start, end] for a time where f crosses targetDeg
// in the given direction, using bracket-then-bisect: the span is sampled at
// the given number of steps to find a sign change, then bisected down to
// tol. The boolean result is false when no such crossing exists in the span
// (circumpolar cases).
func FindCrossing(f AltitudeFunc, start, end time.Time, targetDeg float64, dir CrossingDir, steps int, tol time.Duration) (time.Time, bool) {
	if !start.Before(end) {
		return time.Time{}, false
	}
	if steps < 2 {
		steps = 2
	}

	interval := end.Sub(start) / time.Duration(steps-1)
	prevT := start
	prevAlt := f(prevT) - targetDeg

	for i := 1; i < steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		alt := f(t) - targetDeg
		if crosses(prevAlt, alt, dir) {
			return bisect(f, prevT, t, targetDeg, dir, tol)
		}
		prevT, prevAlt = t, alt
	}
	return time.Time{}, false
}

func crosses(a, b float64, dir CrossingDir) bool {
	if dir == Rising {
		return a < 0 && b >= 0
	}
	return a > 0 && b <= 0
}

func bisect(f AltitudeFunc, a, b time.Time, targetDeg float64, dir CrossingDir, tol time.Duration) (time.Time, bool) {
	altA := f(a) - targetDeg
	if !crosses(altA, f(b)-targetDeg, dir) {
		return time.Time{}, false
	}
	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		altM := f(mid) - targetDeg
		if crosses(altA, altM, dir) {
			b = mid
		} else {
			a = mid
			altA = altM
		}
	}
	return a.Add(b.Sub(a) / 2), true
}
