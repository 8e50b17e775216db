// Package region describes organic closed shapes such as lakes.
//
// The boundary radius at an angle is a normalized sum of sine harmonics.
// Containment and outline extraction both go through BoundaryRadius, so the
// shore that gets drawn is exactly the shore that excludes placement.
package region

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/sampler"
)

// Harmonic is one angular term: Weight * sin(Freq*theta + phase), where the
// phase is derived from PhaseSeed.
type Harmonic struct {
	Freq      float64 `json:"freq"`
	Weight    float64 `json:"weight"`
	PhaseSeed float64 `json:"phase_seed"`
}

// Boundary is an organic closed region around Center.
type Boundary struct {
	ID         string      `json:"id"`
	Center     geo.Point2D `json:"center"`
	BaseRadius float64     `json:"base_radius"`
	Amplitude  float64     `json:"amplitude"`
	Harmonics  []Harmonic  `json:"harmonics"`

	phases      []float64
	totalWeight float64
}

// New builds a Boundary, resolving harmonic phases with s.
func New(id string, center geo.Point2D, baseRadius, amplitude float64, harmonics []Harmonic, s sampler.Sampler) (*Boundary, error) {
	if !(baseRadius > 0) {
		return nil, fmt.Errorf("region %q: base radius must be > 0 (got %v)", id, baseRadius)
	}
	if math.Abs(amplitude) >= 1 {
		return nil, fmt.Errorf("region %q: |amplitude| must be < 1 (got %v)", id, amplitude)
	}
	if s == nil {
		s = sampler.Default
	}
	b := &Boundary{
		ID:         id,
		Center:     center,
		BaseRadius: baseRadius,
		Amplitude:  amplitude,
		Harmonics:  append([]Harmonic(nil), harmonics...),
		phases:     make([]float64, len(harmonics)),
	}
	for i, h := range harmonics {
		b.phases[i] = s.Sample(h.PhaseSeed) * 2 * math.Pi
		b.totalWeight += math.Abs(h.Weight)
	}
	return b, nil
}

// BoundaryRadius returns the shore distance from Center at angle theta.
func (b *Boundary) BoundaryRadius(theta float64) float64 {
	if b.totalWeight == 0 {
		return b.BaseRadius
	}
	sum := 0.0
	for i, h := range b.Harmonics {
		sum += h.Weight * math.Sin(h.Freq*theta+b.phases[i])
	}
	return b.BaseRadius * (1 + b.Amplitude*sum/b.totalWeight)
}

// Contains reports whether p lies strictly inside the boundary scaled by
// padding (1 for the true shore, >1 to keep things back from the water).
func (b *Boundary) Contains(p geo.Point2D, padding float64) bool {
	d := p.Sub(b.Center)
	return d.Length() < b.BoundaryRadius(d.Angle())*padding
}

// MaxRadius bounds the boundary from outside.
func (b *Boundary) MaxRadius() float64 {
	return b.BaseRadius * (1 + math.Abs(b.Amplitude))
}

// Outline samples the boundary at evenly spaced angles, CCW.
func (b *Boundary) Outline(segments int) geo.Polygon {
	if segments < 3 {
		segments = 3
	}
	pts := make([]geo.Point2D, segments)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		r := b.BoundaryRadius(theta)
		pts[i] = geo.Point2D{
			X: b.Center.X + r*math.Cos(theta),
			Z: b.Center.Z + r*math.Sin(theta),
		}
	}
	return geo.Polygon{Vertices: pts}
}
