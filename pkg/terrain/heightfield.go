// Package terrain answers point -> elevation queries over a set of hills.
package terrain

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
)

// Hill is an ellipsoidal bump on the ground plane.
type Hill struct {
	Center     geo.Point2D `json:"center"`
	BaseHeight float64     `json:"base_height"`
	Radius     float64     `json:"radius"`
	Scale      geo.Point3  `json:"scale"`
}

// Footprint returns the hill's horizontal reach from its center.
func (h Hill) Footprint() float64 {
	return h.Radius * math.Max(h.Scale.X, h.Scale.Z)
}

// Peak returns the hill's highest elevation.
func (h Hill) Peak() float64 {
	return h.BaseHeight + h.Scale.Y*h.Radius
}

// normalized fills in unit scale for zero components.
func (h Hill) normalized() Hill {
	if h.Scale.X == 0 {
		h.Scale.X = 1
	}
	if h.Scale.Y == 0 {
		h.Scale.Y = 1
	}
	if h.Scale.Z == 0 {
		h.Scale.Z = 1
	}
	return h
}

type compiledHill struct {
	cx, cz     float64
	invSX      float64
	invSZ      float64
	sy         float64
	r2         float64
	baseHeight float64
}

// HeightField is the maximum over a fixed set of hills, floored at zero.
type HeightField struct {
	hills    []Hill
	compiled []compiledHill
}

// NewHeightField validates the hills and precomputes per-hill constants.
func NewHeightField(hills []Hill) (*HeightField, error) {
	f := &HeightField{
		hills:    make([]Hill, 0, len(hills)),
		compiled: make([]compiledHill, 0, len(hills)),
	}
	for i, h := range hills {
		h = h.normalized()
		if !(h.Radius > 0) {
			return nil, fmt.Errorf("hill %d: radius must be > 0 (got %v)", i, h.Radius)
		}
		if h.Scale.X < 0 || h.Scale.Y < 0 || h.Scale.Z < 0 {
			return nil, fmt.Errorf("hill %d: scale must be positive (got %v)", i, h.Scale)
		}
		f.hills = append(f.hills, h)
		f.compiled = append(f.compiled, compiledHill{
			cx:         h.Center.X,
			cz:         h.Center.Z,
			invSX:      1 / h.Scale.X,
			invSZ:      1 / h.Scale.Z,
			sy:         h.Scale.Y,
			r2:         h.Radius * h.Radius,
			baseHeight: h.BaseHeight,
		})
	}
	return f, nil
}

// With returns a new field containing this field's hills plus extra.
func (f *HeightField) With(extra ...Hill) (*HeightField, error) {
	all := make([]Hill, 0, len(f.hills)+len(extra))
	all = append(all, f.hills...)
	all = append(all, extra...)
	return NewHeightField(all)
}

// Hills returns the normalized hills. Callers must not modify the slice.
func (f *HeightField) Hills() []Hill {
	return f.hills
}

// HeightAt returns the elevation at (x, z). O(hills), no allocation.
func (f *HeightField) HeightAt(x, z float64) float64 {
	best := 0.0
	for i := range f.compiled {
		h := &f.compiled[i]
		dx := (x - h.cx) * h.invSX
		dz := (z - h.cz) * h.invSZ
		d2 := dx*dx + dz*dz
		if d2 >= h.r2 {
			continue
		}
		if y := h.baseHeight + h.sy*math.Sqrt(h.r2-d2); y > best {
			best = y
		}
	}
	return best
}

// At is HeightAt for a ground point.
func (f *HeightField) At(p geo.Point2D) float64 {
	return f.HeightAt(p.X, p.Z)
}

// Lift places a ground point on the surface.
func (f *HeightField) Lift(p geo.Point2D) geo.Point3 {
	return geo.On(p, f.At(p))
}
