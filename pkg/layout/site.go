package layout

import (
	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/region"
	"github.com/ChicagoDave/trailworld/pkg/sampler"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/terrain"
)

// Site is the read-only context every placement stage runs against.
// Nothing in this package mutates a Site.
type Site struct {
	Seed     float64
	Sampler  sampler.Sampler
	Bounds   spec.Bounds
	Path     *geo.Curve
	Terrain  *terrain.HeightField
	Lakes    []*region.Boundary
	KeepOuts []spec.KeepOutDef
	Spurs    []Spur
}

func (s *Site) sampler() sampler.Sampler {
	if s.Sampler == nil {
		return sampler.Default
	}
	return s.Sampler
}

func (s *Site) groundHeight(p geo.Point2D) float64 {
	if s.Terrain == nil {
		return 0
	}
	return s.Terrain.At(p)
}

// InLake reports whether p lies inside any lake scaled by padding.
func (s *Site) InLake(p geo.Point2D, padding float64) bool {
	for _, l := range s.Lakes {
		if l.Contains(p, padding) {
			return true
		}
	}
	return false
}

// InKeepOut reports whether p lies inside any keep-out disc.
func (s *Site) InKeepOut(p geo.Point2D) bool {
	for _, k := range s.KeepOuts {
		if p.Distance(k.Center) < k.Radius {
			return true
		}
	}
	return false
}

// CrossesKeepOut reports whether the segment a-b passes through a keep-out.
func (s *Site) CrossesKeepOut(a, b geo.Point2D) bool {
	for _, k := range s.KeepOuts {
		if geo.SegmentIntersectsCircle(a, b, k.Center, k.Radius) {
			return true
		}
	}
	return false
}

// NearSpur reports whether p is within clearance of any spur centerline.
func (s *Site) NearSpur(p geo.Point2D, clearance float64) bool {
	if clearance <= 0 {
		return false
	}
	for i := range s.Spurs {
		if s.Spurs[i].Curve == nil {
			continue
		}
		if s.Spurs[i].Curve.DistanceTo(p) < clearance {
			return true
		}
	}
	return false
}

// InSpurCorridor reports whether p sits on the walkable surface of a spur.
func (s *Site) InSpurCorridor(p geo.Point2D) bool {
	for i := range s.Spurs {
		sp := &s.Spurs[i]
		if sp.Curve == nil {
			continue
		}
		if sp.Curve.DistanceTo(p) < sp.Width/2 {
			return true
		}
	}
	return false
}
