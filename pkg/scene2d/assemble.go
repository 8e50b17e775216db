package scene2d

import (
	"time"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/layout"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/world"
)

const lakeOutlineSegments = 128

// Assemble2D converts a generated world into a top-down scene. Lakes are
// clipped to the world bounds; instances keep only their ground position
// and footprint.
func Assemble2D(w *world.World) *Scene2D {
	rec := &w.Recipe
	s := &Scene2D{
		Metadata: assembleMetadata(w),
		Bounds: [2][2]float64{
			{rec.Bounds.Min.X, rec.Bounds.Min.Z},
			{rec.Bounds.Max.X, rec.Bounds.Max.Z},
		},
		Path:      assemblePath(w.Path, rec.Path.Width),
		Hills:     assembleHills(w),
		Lakes:     assembleLakes(w),
		KeepOuts:  assembleKeepOuts(rec.KeepOuts),
		Spurs:     assembleSpurs(w.Spurs),
		Hammocks:  assembleHammocks(w.Hammocks),
		Instances: assembleInstances(w),
	}
	return s
}

func assembleMetadata(w *world.World) Metadata {
	n := 0
	for _, recs := range w.Records {
		n += len(recs)
	}
	return Metadata{
		Name:        w.Recipe.Name,
		Key:         w.Key,
		Seed:        w.Recipe.Seed,
		PathLengthM: w.Path.Length(),
		Instances:   n,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func assemblePath(c *geo.Curve, width float64) Path2D {
	center := c.Polyline()
	return Path2D{
		Centerline: pointsToCoords(center.Points),
		Left:       pointsToCoords(center.Offset(width / 2).Points),
		Right:      pointsToCoords(center.Offset(-width / 2).Points),
		Width:      width,
		Closed:     c.Closed(),
	}
}

func assembleHills(w *world.World) []Hill2D {
	hills := w.Terrain.Hills()
	result := make([]Hill2D, 0, len(hills))
	for _, h := range hills {
		result = append(result, Hill2D{
			Center:    [2]float64{h.Center.X, h.Center.Z},
			Footprint: h.Footprint(),
			Peak:      h.Peak(),
		})
	}
	return result
}

func assembleLakes(w *world.World) []Lake2D {
	clip := geo.Rect(w.Recipe.Bounds.Min, w.Recipe.Bounds.Max)
	result := make([]Lake2D, 0, len(w.Lakes))
	for _, l := range w.Lakes {
		outline := geo.ClipToConvex(l.Outline(lakeOutlineSegments), clip)
		if outline.IsEmpty() {
			continue
		}
		result = append(result, Lake2D{
			ID:      l.ID,
			Center:  [2]float64{l.Center.X, l.Center.Z},
			Outline: polygonToCoords(outline),
			AreaM2:  outline.Area(),
		})
	}
	return result
}

func assembleKeepOuts(keepOuts []spec.KeepOutDef) []Disc2D {
	result := make([]Disc2D, 0, len(keepOuts))
	for _, k := range keepOuts {
		result = append(result, Disc2D{
			ID:     k.ID,
			Center: [2]float64{k.Center.X, k.Center.Z},
			Radius: k.Radius,
		})
	}
	return result
}

func assembleSpurs(spurs []layout.Spur) []Spur2D {
	result := make([]Spur2D, 0, len(spurs))
	for _, sp := range spurs {
		occ := make([]Disc2D, 0, len(sp.Occluders))
		for _, h := range sp.Occluders {
			occ = append(occ, Disc2D{
				Center: [2]float64{h.Center.X, h.Center.Z},
				Radius: h.Footprint(),
			})
		}
		result = append(result, Spur2D{
			ID:          sp.ID,
			Kind:        sp.Kind,
			Path:        assemblePath(sp.Curve, sp.Width),
			Platform:    [2]float64{sp.Platform.X, sp.Platform.Z},
			Occluders:   occ,
			Breadcrumbs: pointsToCoords(sp.Breadcrumbs),
		})
	}
	return result
}

func assembleHammocks(links []layout.HammockLink) []Hammock2D {
	result := make([]Hammock2D, 0, len(links))
	for _, l := range links {
		result = append(result, Hammock2D{
			ID: l.ID,
			A:  [2]float64{l.A.X, l.A.Z},
			B:  [2]float64{l.B.X, l.B.Z},
		})
	}
	return result
}

// assembleInstances lists recipe categories in recipe order, then the
// generated ones that carry a ground footprint.
func assembleInstances(w *world.World) []Category2D {
	var result []Category2D
	add := func(name, color string) {
		recs := w.Records[name]
		c := Category2D{
			Name:      name,
			Color:     color,
			Positions: make([][2]float64, len(recs)),
			Radii:     make([]float64, len(recs)),
		}
		for i, r := range recs {
			c.Positions[i] = [2]float64{r.Position.X, r.Position.Z}
			c.Radii[i] = max(r.Scale.X, r.Scale.Z) / 2
		}
		result = append(result, c)
	}
	for _, c := range w.Recipe.Categories {
		color := ""
		if len(c.Palette) > 0 {
			color = c.Palette[0]
		}
		add(c.Name, color)
	}
	add(spec.CategoryBreadcrumb, "saddlebrown")
	return result
}

// polygonToCoords converts a geo.Polygon to a [][2]float64 coordinate list.
func polygonToCoords(p geo.Polygon) [][2]float64 {
	return pointsToCoords(p.Vertices)
}

// pointsToCoords converts a []geo.Point2D to a [][2]float64 coordinate list.
func pointsToCoords(pts []geo.Point2D) [][2]float64 {
	coords := make([][2]float64, len(pts))
	for i, pt := range pts {
		coords[i] = [2]float64{pt.X, pt.Z}
	}
	return coords
}
