package world

import (
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/layout"
	"github.com/ChicagoDave/trailworld/pkg/sampler"
	"github.com/ChicagoDave/trailworld/pkg/spec"
)

const breadcrumbSize = 0.15

// occluderRecords emits one instance per occluder hill, scaled to the
// hill's ellipsoid so a unit hemisphere mesh matches the terrain bump.
func occluderRecords(spurs []layout.Spur) []layout.Record {
	var recs []layout.Record
	for _, sp := range spurs {
		for _, h := range sp.Occluders {
			recs = append(recs, layout.Record{
				ID:       layout.RecordID(spec.CategoryOccluder, len(recs)),
				Category: spec.CategoryOccluder,
				Position: h.Center,
				Y:        math.Max(0, h.BaseHeight),
				Scale:    geo.P3(h.Radius*h.Scale.X, h.Radius*h.Scale.Y, h.Radius*h.Scale.Z),
				Extra:    map[string]float64{"peak": h.Peak()},
			})
		}
	}
	return recs
}

// breadcrumbRecords emits the small debris trail along each spur.
func breadcrumbRecords(site *layout.Site, spurs []layout.Spur) []layout.Record {
	s := site.Sampler
	if s == nil {
		s = sampler.Default
	}
	var recs []layout.Record
	for _, sp := range spurs {
		for _, p := range sp.Breadcrumbs {
			a := sampler.Spatial(p.X, p.Z, site.Seed)
			size := breadcrumbSize * (0.7 + 0.6*s.Sample(a))
			recs = append(recs, layout.Record{
				ID:        layout.RecordID(spec.CategoryBreadcrumb, len(recs)),
				Category:  spec.CategoryBreadcrumb,
				Position:  p,
				Y:         site.Terrain.At(p),
				Scale:     geo.P3(size, size, size),
				RotationY: s.Sample(a+1) * 2 * math.Pi,
			})
		}
	}
	return recs
}

// hammockRecords emits one instance per link, centered on the midpoint
// with local X along the rope.
func hammockRecords(links []layout.HammockLink) []layout.Record {
	recs := make([]layout.Record, 0, len(links))
	for i, l := range links {
		recs = append(recs, layout.Record{
			ID:        layout.RecordID(spec.CategoryHammock, i),
			Category:  spec.CategoryHammock,
			Position:  l.Midpoint.XZ(),
			Y:         l.Midpoint.Y,
			Scale:     geo.P3(l.Length, 1, 1),
			RotationY: -l.Yaw,
			Extra:     map[string]float64{"yaw": l.Yaw},
		})
	}
	return recs
}
