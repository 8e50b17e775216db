package layout

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/sampler"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/terrain"
	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// Spur is a short open path from the main path to a point of interest.
type Spur struct {
	ID            string         `json:"id"`
	Kind          string         `json:"kind"`
	JunctionT     float64        `json:"junction_t"`
	Junction      geo.Point2D    `json:"junction"`
	Start         geo.Point2D    `json:"start"`
	Platform      geo.Point2D    `json:"platform"`
	Width         float64        `json:"width"`
	ControlPoints []geo.Point3   `json:"control_points"`
	Curve         *geo.Curve     `json:"-"`
	Occluders     []terrain.Hill `json:"occluders"`
	Breadcrumbs   []geo.Point2D  `json:"breadcrumbs"`
}

// bend is a lateral displacement of the spur centerline at a fraction of
// its straight-line length.
type bend struct {
	at, offset float64
}

type spurShape struct {
	width     float64
	bends     []bend
	occluders []float64
}

var spurShapes = map[string]spurShape{
	spec.KindShop: {
		width:     3.0,
		bends:     []bend{{0.5, 0.1}},
		occluders: []float64{0.25, 0.45},
	},
	spec.KindHidden: {
		width:     1.6,
		bends:     []bend{{0.3, 0.35}, {0.65, -0.35}},
		occluders: []float64{0.2, 0.34, 0.5},
	},
}

var defaultSpurShape = spurShape{
	width:     2.2,
	bends:     []bend{{0.5, 0.2}},
	occluders: []float64{0.2, 0.4},
}

func shapeFor(kind string) spurShape {
	if sh, ok := spurShapes[kind]; ok {
		return sh
	}
	return defaultSpurShape
}

// BuildSpurs lays out one spur per point of interest. Control point
// heights and occluder decisions use the site's base terrain, before any
// occluder hills are added to it.
func BuildSpurs(site *Site, pois []spec.PointOfInterest, def spec.SpurDef) ([]Spur, *validation.Report) {
	report := validation.NewReport()
	off := sampler.Offset("spur")

	var spurs []Spur
	for i, poi := range pois {
		sp, err := buildSpur(site, poi, def, sampler.Derive(site.Seed, i, off))
		if err != nil {
			report.AddError(validation.Result{
				Level:   validation.LevelSpur,
				Message: fmt.Sprintf("spur %q: %v", poi.ID, err),
				Field:   fmt.Sprintf("points_of_interest[%d]", i),
			})
			continue
		}
		placeOccluders(site, &sp, def, report)
		sp.Breadcrumbs = breadcrumbs(sp.Curve, def.BreadcrumbSpacing)
		spurs = append(spurs, sp)
	}

	report.AddInfo(validation.Result{
		Level:   validation.LevelSpur,
		Message: fmt.Sprintf("built %d of %d spurs", len(spurs), len(pois)),
	})
	return spurs, report
}

func buildSpur(site *Site, poi spec.PointOfInterest, def spec.SpurDef, seed float64) (Spur, error) {
	side := poi.Side
	if side == 0 {
		side = 1
	}

	var t float64
	var platform geo.Point2D
	switch {
	case poi.T != nil:
		t = *poi.T
		if poi.Platform != nil {
			platform = *poi.Platform
		} else {
			j := site.Path.PointAt(t).XZ()
			platform = j.Add(site.Path.LeftNormalAt(t).Scale(side * poi.Distance))
		}
	case poi.Platform != nil:
		platform = *poi.Platform
		t = site.Path.NearestParameter(platform)
	default:
		return Spur{}, fmt.Errorf("needs t or platform")
	}

	junction := site.Path.PointAt(t).XZ()
	normal := site.Path.LeftNormalAt(t)
	if poi.Platform != nil {
		// An authored platform decides which side the spur leaves from.
		if platform.Sub(junction).Dot(normal) < 0 {
			side = -1
		} else {
			side = 1
		}
	}
	start := junction.Add(normal.Scale(side * def.StartOffset))

	d := platform.Sub(start)
	length := d.Length()
	if length < 1e-6 {
		return Spur{}, fmt.Errorf("platform coincides with the spur start")
	}
	dir := d.Scale(1 / length)
	perp := dir.Perp()

	sh := shapeFor(poi.Kind)
	s := site.sampler()
	sign := sampler.Sign(s, seed)

	ground := []geo.Point2D{start}
	for _, b := range sh.bends {
		ground = append(ground, start.Add(dir.Scale(b.at*length)).Add(perp.Scale(sign*b.offset*length)))
	}
	ground = append(ground, platform)

	controls := make([]geo.Point3, len(ground))
	for i, g := range ground {
		controls[i] = geo.On(g, site.groundHeight(g))
	}

	curve, err := geo.NewOpenCurve(controls, def.Samples)
	if err != nil {
		return Spur{}, fmt.Errorf("building curve: %w", err)
	}

	return Spur{
		ID:            "spur_" + poi.ID,
		Kind:          poi.Kind,
		JunctionT:     t,
		Junction:      junction,
		Start:         start,
		Platform:      platform,
		Width:         sh.width,
		ControlPoints: controls,
		Curve:         curve,
	}, nil
}

// placeOccluders puts low hills beside the spur at fixed fractions,
// alternating sides, offset along the spur's own normal. A hill must clear
// both the spur's walkway and the main path's clearance band; one that
// cannot keep at least half its footprint is dropped, otherwise it shrinks
// to fit.
func placeOccluders(site *Site, sp *Spur, def spec.SpurDef, report *validation.Report) {
	sh := shapeFor(sp.Kind)
	halfWidth := sp.Width / 2

	for k, f := range sh.occluders {
		side := 1.0
		if k%2 == 1 {
			side = -1
		}
		h := terrain.Hill{
			Radius: def.OccluderRadius,
			Scale:  geo.P3(1, def.OccluderHeight, 1),
		}
		at := sp.Curve.PointAt(f).XZ()
		h.Center = at.Add(sp.Curve.LeftNormalAt(f).Scale(side * (halfWidth + h.Footprint())))

		if site.InLake(h.Center, 1) {
			report.AddInfo(validation.Result{
				Level:   validation.LevelSpur,
				Message: fmt.Sprintf("%s: occluder at %.2f dropped (in a lake)", sp.ID, f),
			})
			continue
		}

		pathRoom := site.Path.DistanceTo(h.Center) - def.Clearance
		spurRoom := sp.Curve.DistanceTo(h.Center) - halfWidth
		room, blocker := pathRoom, "the main path"
		if spurRoom < room {
			room, blocker = spurRoom, "its own spur"
		}
		if room < h.Footprint() {
			if room < h.Footprint()/2 {
				report.AddInfo(validation.Result{
					Level:   validation.LevelSpur,
					Message: fmt.Sprintf("%s: occluder at %.2f dropped (too close to %s)", sp.ID, f, blocker),
				})
				continue
			}
			h.Radius = room / math.Max(h.Scale.X, h.Scale.Z)
			report.AddInfo(validation.Result{
				Level:   validation.LevelSpur,
				Message: fmt.Sprintf("%s: occluder at %.2f shrunk to radius %.2f", sp.ID, f, h.Radius),
			})
		}
		sp.Occluders = append(sp.Occluders, h)
	}
}

// breadcrumbs spaces debris along the spur from t=0.05 to t=0.95.
func breadcrumbs(c *geo.Curve, spacing float64) []geo.Point2D {
	if spacing <= 0 || c.Length() == 0 {
		return nil
	}
	const from, to = 0.05, 0.95
	dt := spacing / c.Length()
	var pts []geo.Point2D
	for t := from; t <= to+1e-9; t += dt {
		pts = append(pts, c.PointAt(t).XZ())
	}
	return pts
}

// OccluderHills collects every spur's occluders.
func OccluderHills(spurs []Spur) []terrain.Hill {
	var hills []terrain.Hill
	for _, sp := range spurs {
		hills = append(hills, sp.Occluders...)
	}
	return hills
}
