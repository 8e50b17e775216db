package layout

import (
	"math"
	"testing"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/region"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/terrain"
)

// loopSite is an 8-point loop of radius 20 around a hill at the origin
// (radius 10, base height 2).
func loopSite(t *testing.T) *Site {
	t.Helper()
	controls := make([]geo.Point3, 8)
	for i := range controls {
		a := 2 * math.Pi * float64(i) / 8
		controls[i] = geo.P3(20*math.Cos(a), 0, 20*math.Sin(a))
	}
	path, err := geo.NewClosedCurve(controls, 900)
	if err != nil {
		t.Fatalf("NewClosedCurve: %v", err)
	}
	field, err := terrain.NewHeightField([]terrain.Hill{
		{Center: geo.Pt(0, 0), BaseHeight: 2, Radius: 10, Scale: geo.P3(1, 1, 1)},
	})
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}
	return &Site{
		Seed:    42,
		Bounds:  spec.Bounds{Min: geo.Pt(-50, -50), Max: geo.Pt(50, 50)},
		Path:    path,
		Terrain: field,
	}
}

func withLake(t *testing.T, site *Site, center geo.Point2D, radius float64) *Site {
	t.Helper()
	lake, err := region.New("lake", center, radius, 0.2, []region.Harmonic{
		{Freq: 3, Weight: 0.55, PhaseSeed: 11},
		{Freq: 5, Weight: 0.30, PhaseSeed: 12},
		{Freq: 9, Weight: 0.15, PhaseSeed: 13},
	}, nil)
	if err != nil {
		t.Fatalf("region.New: %v", err)
	}
	site.Lakes = append(site.Lakes, lake)
	return site
}

func treeCategory(count int, clearance float64) spec.Category {
	c := spec.Category{
		Name:      "tree",
		Count:     count,
		Clearance: clearance,
		Scale:     spec.Range{Min: 0.8, Max: 1.2},
		Palette:   []string{"#2f6b2a", "forestgreen"},
	}
	r := spec.Recipe{Categories: []spec.Category{c}}.WithDefaults()
	return r.Categories[0]
}

func TestInKeepOut(t *testing.T) {
	site := loopSite(t)
	site.KeepOuts = []spec.KeepOutDef{{ID: "c", Center: geo.Pt(5, 5), Radius: 2}}
	if !site.InKeepOut(geo.Pt(5.5, 5)) {
		t.Error("point inside keep-out not detected")
	}
	if site.InKeepOut(geo.Pt(8, 5)) {
		t.Error("point outside keep-out reported inside")
	}
	if !site.CrossesKeepOut(geo.Pt(0, 5), geo.Pt(10, 5)) {
		t.Error("segment through keep-out not detected")
	}
	if site.CrossesKeepOut(geo.Pt(0, 0), geo.Pt(10, 0)) {
		t.Error("segment clear of keep-out reported crossing")
	}
}

func TestRecordID(t *testing.T) {
	if got := RecordID("tree", 7); got != "tree_00007" {
		t.Errorf("RecordID = %q, want tree_00007", got)
	}
}
