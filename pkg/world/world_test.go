package world

import (
	"context"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/layout"
	"github.com/ChicagoDave/trailworld/pkg/scene"
	"github.com/ChicagoDave/trailworld/pkg/spec"
)

func meadow(t *testing.T) *spec.Recipe {
	t.Helper()
	r, err := spec.LoadProject("../../examples/meadow")
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	return r
}

// treeScenario is the reference scene: an 8-point loop of radius 20 around
// a hill at the origin, with 50 trees kept 11 units off the path.
func treeScenario() *spec.Recipe {
	controls := make([]geo.Point3, 8)
	for i := range controls {
		a := 2 * math.Pi * float64(i) / 8
		controls[i] = geo.P3(20*math.Cos(a), 0, 20*math.Sin(a))
	}
	return &spec.Recipe{
		Name:       "tree-scenario",
		Seed:       3,
		Bounds:     spec.Bounds{Min: geo.Pt(-50, -50), Max: geo.Pt(50, 50)},
		Path:       spec.PathDef{ControlPoints: controls},
		Hills:      []spec.HillDef{{Center: geo.Pt(0, 0), BaseHeight: 2, Radius: 10}},
		Categories: []spec.Category{{Name: "tree", Count: 50, Clearance: 11}},
	}
}

func TestGenerateTreeScenario(t *testing.T) {
	w, err := Generate(treeScenario(), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	trees := w.Records["tree"]
	if len(trees) != 50 {
		t.Fatalf("placed %d trees, want 50", len(trees))
	}
	for _, tr := range trees {
		if d := w.Path.DistanceTo(tr.Position); d < 11 {
			t.Errorf("tree %s %.2f from the path", tr.ID, d)
		}
	}
	if got := w.HeightAt(0, 0); got != 12 {
		t.Errorf("HeightAt(0,0) = %v, want 12", got)
	}
	if !w.Report.Valid {
		t.Errorf("report invalid: %v", w.Report.Errors)
	}
}

func TestGenerateMeadow(t *testing.T) {
	w, err := Generate(meadow(t), Options{Workers: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !w.Report.Valid {
		t.Fatalf("report invalid: %v", w.Report.Errors)
	}
	if len(w.Spurs) != 3 {
		t.Errorf("spurs = %d, want 3", len(w.Spurs))
	}
	if len(w.Records[spec.CategoryOccluder]) == 0 {
		t.Error("expected occluder instances")
	}
	if len(w.Records[spec.CategoryBreadcrumb]) == 0 {
		t.Error("expected breadcrumb instances")
	}
	if len(w.Records[spec.CategoryHammock]) != len(w.Hammocks) {
		t.Errorf("hammock instances = %d, links = %d", len(w.Records[spec.CategoryHammock]), len(w.Hammocks))
	}
	for cat, recs := range w.Records {
		for _, r := range recs {
			if r.Y < 0 {
				t.Fatalf("%s record %s has Y %v", cat, r.ID, r.Y)
			}
		}
	}
	for _, c := range w.Summary().Categories {
		t.Logf("%-10s %-9s %4d/%d", c.Name, c.Mode, c.Placed, c.Requested)
	}
}

func TestOccludersRaiseTerrain(t *testing.T) {
	w, err := Generate(meadow(t), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, sp := range w.Spurs {
		for _, h := range sp.Occluders {
			if got := w.Terrain.At(h.Center); got < h.Peak()-1e-9 {
				t.Errorf("%s occluder at %v: terrain %.3f below occluder peak %.3f", sp.ID, h.Center, got, h.Peak())
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(meadow(t), Options{Workers: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(meadow(t), Options{Workers: 8})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.Key != b.Key {
		t.Errorf("keys differ: %s vs %s", a.Key, b.Key)
	}
	if !reflect.DeepEqual(a.Records, b.Records) {
		t.Error("records differ between runs with different worker counts")
	}
	if !reflect.DeepEqual(a.Hammocks, b.Hammocks) {
		t.Error("hammocks differ between runs")
	}
}

func TestGenerateRejectsBadRecipe(t *testing.T) {
	r := treeScenario()
	r.Path.ControlPoints = r.Path.ControlPoints[:2]
	if _, err := Generate(r, Options{}); err == nil {
		t.Error("expected error for a 2-point path")
	}
	r = treeScenario()
	r.Hills[0].Radius = -1
	if _, err := Generate(r, Options{}); err == nil {
		t.Error("expected error for a negative hill radius")
	}
}

func TestGenerateDoesNotModifyRecipe(t *testing.T) {
	r := treeScenario()
	if _, err := Generate(r, Options{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if r.Categories[0].MaxAttempts != 0 || r.Path.Samples != 0 {
		t.Error("Generate filled defaults into the caller's recipe")
	}
}

func TestKeyIgnoresDefaults(t *testing.T) {
	r := treeScenario()
	d := r.WithDefaults()
	k1, _ := Key(r)
	k2, _ := Key(&d)
	if k1 != k2 {
		t.Errorf("recipe and defaulted recipe have different keys")
	}
	r.Seed++
	k3, _ := Key(r)
	if k3 == k1 {
		t.Error("changing the seed did not change the key")
	}
}

func TestCache(t *testing.T) {
	c := NewCache(2, Options{})
	w1, hit, err := c.Get(treeScenario())
	if err != nil || hit {
		t.Fatalf("first Get: hit=%v err=%v", hit, err)
	}
	w2, hit, err := c.Get(treeScenario())
	if err != nil || !hit {
		t.Fatalf("second Get: hit=%v err=%v", hit, err)
	}
	if w1 != w2 {
		t.Error("cache returned a different world for an equal recipe")
	}

	changed := treeScenario()
	changed.Seed = 99
	w3, hit, _ := c.Get(changed)
	if hit || w3 == w1 {
		t.Error("changed recipe should regenerate")
	}

	third := treeScenario()
	third.Seed = 100
	c.Get(third)
	if c.Len() != 2 {
		t.Errorf("cache holds %d worlds, want limit 2", c.Len())
	}
	if _, hit, _ := c.Get(treeScenario()); hit {
		t.Error("oldest entry should have been evicted")
	}
}

func TestCacheConcurrentGetsShareWorld(t *testing.T) {
	c := NewCache(4, Options{})
	var wg sync.WaitGroup
	worlds := make([]*World, 8)
	for i := range worlds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, _, err := c.Get(treeScenario())
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			worlds[i] = w
		}()
	}
	wg.Wait()
	for i := range worlds {
		if worlds[i] != worlds[0] {
			t.Fatalf("goroutine %d got a different world", i)
		}
	}
}

func TestPublish(t *testing.T) {
	w, err := Generate(meadow(t), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	bs := scene.NewBufferSet()
	if err := w.Publish(bs); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	for _, cat := range w.Categories() {
		buf, ok := bs.Lookup(cat)
		if !ok {
			t.Errorf("no buffer for %s", cat)
			continue
		}
		b := buf.Batch()
		if b.Generation != 1 || b.Count != len(w.Records[cat]) {
			t.Errorf("%s: generation %d count %d, want 1 and %d", cat, b.Generation, b.Count, len(w.Records[cat]))
		}
		if r := scene.ValidateBatch(b); !r.Valid {
			t.Errorf("%s: %v", cat, r.Errors)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go w.Publish(bs)
	b, err := bs.Buffer("tree").Wait(ctx, 1)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if b.Generation != 2 {
		t.Errorf("generation after republish = %d, want 2", b.Generation)
	}
}

func TestValidateWorldCatchesSharedAnchor(t *testing.T) {
	w, err := Generate(meadow(t), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(w.Hammocks) < 2 {
		t.Skip("meadow produced fewer than two hammocks")
	}
	broken := *w
	broken.Hammocks = append([]layout.HammockLink(nil), w.Hammocks...)
	broken.Hammocks[1].AnchorA = broken.Hammocks[0].AnchorA
	if r := ValidateWorld(&broken); r.Valid {
		t.Error("expected invalid report for a tree anchoring two links")
	}
	if r := ValidateWorld(nil); r.Valid {
		t.Error("expected invalid report for nil world")
	}
}

func TestValidateWorldReportsEveryClearanceViolation(t *testing.T) {
	w, err := Generate(treeScenario(), Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	broken := *w
	broken.Records = make(map[string][]layout.Record, len(w.Records))
	for k, v := range w.Records {
		broken.Records[k] = v
	}
	trees := append([]layout.Record(nil), w.Records["tree"]...)
	trees[0].Position = w.Path.PointAt(0).XZ()
	trees[1].Position = w.Path.PointAt(0.5).XZ()
	broken.Records["tree"] = trees

	r := ValidateWorld(&broken)
	n := 0
	for _, e := range r.Errors {
		if e.Field == "categories.tree.clearance" {
			n++
		}
	}
	if n != 2 {
		t.Errorf("clearance errors = %d, want 2 (%v)", n, r.Errors)
	}
}
