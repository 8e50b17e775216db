package geo

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSamples is the size of a curve's parameter -> point lookup table.
const DefaultSamples = 900

// DefaultTension gives the centripetal-looking Catmull-Rom shape.
const DefaultTension = 0.5

// ErrTooFewPoints is returned when a curve is built from too few control points.
var ErrTooFewPoints = errors.New("too few control points")

// Curve is a Catmull-Rom spline through a list of 3D control points.
// It is immutable after construction; a change to the control points means
// building a new Curve.
type Curve struct {
	controls []Point3
	closed   bool
	tension  float64
	samples  []Point3
	length   float64
}

// NewClosedCurve builds a looping curve. At least 3 control points are required.
func NewClosedCurve(controls []Point3, samples int) (*Curve, error) {
	if len(controls) < 3 {
		return nil, fmt.Errorf("closed curve: %w (got %d, need 3)", ErrTooFewPoints, len(controls))
	}
	return newCurve(controls, true, samples), nil
}

// NewOpenCurve builds a curve that starts exactly at the first control point
// and ends exactly at the last. At least 2 control points are required.
func NewOpenCurve(controls []Point3, samples int) (*Curve, error) {
	if len(controls) < 2 {
		return nil, fmt.Errorf("open curve: %w (got %d, need 2)", ErrTooFewPoints, len(controls))
	}
	return newCurve(controls, false, samples), nil
}

func newCurve(controls []Point3, closed bool, samples int) *Curve {
	if samples < len(controls)*4 {
		samples = max(DefaultSamples, len(controls)*4)
	}
	c := &Curve{
		controls: append([]Point3(nil), controls...),
		closed:   closed,
		tension:  DefaultTension,
	}

	c.samples = make([]Point3, samples)
	for i := range c.samples {
		c.samples[i] = c.PointAt(c.sampleParam(i))
	}
	for i := 1; i < len(c.samples); i++ {
		c.length += c.samples[i-1].Distance(c.samples[i])
	}
	if closed {
		c.length += c.samples[len(c.samples)-1].Distance(c.samples[0])
	}
	return c
}

// sampleParam maps table index i to its curve parameter.
func (c *Curve) sampleParam(i int) float64 {
	if c.closed {
		return float64(i) / float64(len(c.samples))
	}
	return float64(i) / float64(len(c.samples)-1)
}

// Closed reports whether the curve loops.
func (c *Curve) Closed() bool {
	return c.closed
}

// ControlPoints returns a copy of the control points.
func (c *Curve) ControlPoints() []Point3 {
	return append([]Point3(nil), c.controls...)
}

// Samples returns the precomputed sample table. Callers must not modify it.
func (c *Curve) Samples() []Point3 {
	return c.samples
}

// Length returns the arc length, summed over the sample table.
func (c *Curve) Length() float64 {
	return c.length
}

// segment resolves t to four neighbouring control points and a local parameter.
func (c *Curve) segment(t float64) (p0, p1, p2, p3 Point3, u float64) {
	n := len(c.controls)
	if c.closed {
		t -= math.Floor(t)
		f := t * float64(n)
		i := int(f)
		if i >= n {
			i = n - 1
		}
		u = f - float64(i)
		return c.controls[(i-1+n)%n], c.controls[i], c.controls[(i+1)%n], c.controls[(i+2)%n], u
	}

	t = math.Max(0, math.Min(1, t))
	segs := n - 1
	f := t * float64(segs)
	i := int(f)
	if i >= segs {
		i = segs - 1
	}
	u = f - float64(i)
	p1, p2 = c.controls[i], c.controls[i+1]
	if i > 0 {
		p0 = c.controls[i-1]
	} else {
		// Phantom start: reflect first segment.
		p0 = p1.Add(p1.Sub(p2))
	}
	if i+2 < n {
		p3 = c.controls[i+2]
	} else {
		// Phantom end: reflect last segment.
		p3 = p2.Add(p2.Sub(p1))
	}
	return p0, p1, p2, p3, u
}

// PointAt returns the point at parameter t. Closed curves wrap t into [0,1);
// open curves clamp it to [0,1] and hit the end control points exactly.
func (c *Curve) PointAt(t float64) Point3 {
	if !c.closed {
		if t <= 0 {
			return c.controls[0]
		}
		if t >= 1 {
			return c.controls[len(c.controls)-1]
		}
	}
	p0, p1, p2, p3, u := c.segment(t)
	return Point3{
		X: catmullRom(p0.X, p1.X, p2.X, p3.X, u, c.tension),
		Y: catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, u, c.tension),
		Z: catmullRom(p0.Z, p1.Z, p2.Z, p3.Z, u, c.tension),
	}
}

// TangentAt returns the unit direction of travel at t. A degenerate
// derivative falls back to +Z.
func (c *Curve) TangentAt(t float64) Point3 {
	p0, p1, p2, p3, u := c.segment(t)
	d := Point3{
		X: catmullRomDeriv(p0.X, p1.X, p2.X, p3.X, u, c.tension),
		Y: catmullRomDeriv(p0.Y, p1.Y, p2.Y, p3.Y, u, c.tension),
		Z: catmullRomDeriv(p0.Z, p1.Z, p2.Z, p3.Z, u, c.tension),
	}
	l := d.Length()
	if l < 1e-12 || math.IsNaN(l) {
		return Point3{0, 0, 1}
	}
	return d.Scale(1 / l)
}

// FlatTangentAt returns the tangent projected onto the ground plane and
// re-normalized, falling back to +Z when the curve runs vertically.
func (c *Curve) FlatTangentAt(t float64) Point2D {
	d := c.TangentAt(t).XZ()
	l := d.Length()
	if l < 1e-9 {
		return Point2D{0, 1}
	}
	return d.Scale(1 / l)
}

// LeftNormalAt returns the ground-plane normal on the left of travel.
func (c *Curve) LeftNormalAt(t float64) Point2D {
	return c.FlatTangentAt(t).Perp()
}

// NearestParameter returns the parameter of the sample closest to p in the
// ground plane. It is a linear O(N) scan of the sample table.
func (c *Curve) NearestParameter(p Point2D) float64 {
	i, _ := c.nearestSample(p)
	return c.sampleParam(i)
}

// DistanceTo returns the ground-plane distance from p to the nearest sample.
// Same O(N) scan as NearestParameter.
func (c *Curve) DistanceTo(p Point2D) float64 {
	_, d2 := c.nearestSample(p)
	return math.Sqrt(d2)
}

func (c *Curve) nearestSample(p Point2D) (int, float64) {
	best, bestD2 := 0, math.MaxFloat64
	for i, s := range c.samples {
		dx, dz := s.X-p.X, s.Z-p.Z
		if d2 := dx*dx + dz*dz; d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	return best, bestD2
}

// Polyline flattens the sample table to the ground plane. Closed curves
// repeat the first point at the end.
func (c *Curve) Polyline() Polyline {
	pts := make([]Point2D, 0, len(c.samples)+1)
	for _, s := range c.samples {
		pts = append(pts, s.XZ())
	}
	if c.closed {
		pts = append(pts, pts[0])
	}
	return Polyline{Points: pts}
}

// catmullRom evaluates one coordinate of a Catmull-Rom segment in tension
// matrix form. tension=0.5 gives the standard spline; the segment passes
// through p1 at t=0 and p2 at t=1.
func catmullRom(p0, p1, p2, p3, t, s float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return p1 +
		(-s*p0+s*p2)*t +
		(2*s*p0+(s-3)*p1+(3-2*s)*p2-s*p3)*t2 +
		(-s*p0+(2-s)*p1+(s-2)*p2+s*p3)*t3
}

func catmullRomDeriv(p0, p1, p2, p3, t, s float64) float64 {
	return (-s*p0 + s*p2) +
		2*(2*s*p0+(s-3)*p1+(3-2*s)*p2-s*p3)*t +
		3*(-s*p0+(2-s)*p1+(s-2)*p2+s*p3)*t*t
}
