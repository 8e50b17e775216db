package geo

import "math"

// Polyline is an ordered sequence of points forming a path.
type Polyline struct {
	Points []Point2D
}

// Length returns the total arc length of the polyline.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i-1].Distance(pl.Points[i])
	}
	return total
}

// NearestOnSegment returns the closest point on segment ab to p.
func NearestOnSegment(p, a, b Point2D) (Point2D, float64) {
	ab := b.Sub(a)
	abLen2 := ab.Dot(ab)
	if abLen2 < 1e-12 {
		return a, p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/abLen2))
	closest := a.Add(ab.Scale(t))
	return closest, p.Distance(closest)
}

// Offset returns a polyline shifted sideways by distance (positive = left
// when walking along the polyline direction).
func (pl Polyline) Offset(distance float64) Polyline {
	n := len(pl.Points)
	if n < 2 {
		return pl
	}

	result := make([]Point2D, n)
	for i := 0; i < n; i++ {
		var dir Point2D
		switch {
		case i == 0:
			dir = pl.Points[1].Sub(pl.Points[0]).Normalize()
		case i == n-1:
			dir = pl.Points[n-1].Sub(pl.Points[n-2]).Normalize()
		default:
			dir1 := pl.Points[i].Sub(pl.Points[i-1]).Normalize()
			dir2 := pl.Points[i+1].Sub(pl.Points[i]).Normalize()
			dir = dir1.Add(dir2).Normalize()
		}
		result[i] = pl.Points[i].Add(dir.Perp().Scale(distance))
	}
	return Polyline{Points: result}
}
