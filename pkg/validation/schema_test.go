package validation

import (
	"testing"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/spec"
)

func validRecipe() *spec.Recipe {
	t := 0.25
	r := spec.Recipe{
		SpecVersion: "0.1.0",
		Seed:        7,
		Bounds:      spec.Bounds{Min: geo.Pt(-50, -50), Max: geo.Pt(50, 50)},
		Path: spec.PathDef{ControlPoints: []geo.Point3{
			geo.P3(20, 0, 0), geo.P3(0, 0, 20), geo.P3(-20, 0, 0), geo.P3(0, 0, -20),
		}},
		Hills: []spec.HillDef{{Center: geo.Pt(0, 0), BaseHeight: 2, Radius: 10}},
		Lakes: []spec.LakeDef{{
			ID: "lake", Center: geo.Pt(30, 30), BaseRadius: 5, Amplitude: 0.2,
			Harmonics: []spec.HarmonicDef{{Freq: 3, Weight: 0.55, PhaseSeed: 11}},
		}},
		KeepOuts: []spec.KeepOutDef{{ID: "c", Radius: 3}},
		Categories: []spec.Category{
			{Name: "tree", Count: 50, Clearance: 11},
			{Name: "flora", Mode: spec.ModeEdge, Edge: spec.EdgeDef{Step: 1, Offset: 1.5}},
		},
		PointsOfInterest: []spec.PointOfInterest{{ID: "shop", Kind: spec.KindShop, T: &t}},
		Hammocks:         spec.HammockDef{Category: "tree", MinDist: 3, MaxDist: 6, MaxLinks: 4},
	}
	d := r.WithDefaults()
	return &d
}

func TestValidateRecipeValid(t *testing.T) {
	r := ValidateRecipe(validRecipe())
	if !r.Valid {
		t.Errorf("expected valid report, got %d errors: %v", len(r.Errors), r.Errors)
	}
}

func TestValidateRecipeShortPath(t *testing.T) {
	s := validRecipe()
	s.Path.ControlPoints = s.Path.ControlPoints[:2]
	r := ValidateRecipe(s)
	if r.Valid {
		t.Error("expected invalid report for a 2-point path")
	}
	assertHasError(t, r, "path.control_points")
}

func TestValidateRecipeHillRadius(t *testing.T) {
	s := validRecipe()
	s.Hills[0].Radius = 0
	r := ValidateRecipe(s)
	if r.Valid {
		t.Error("expected invalid for zero hill radius")
	}
	assertHasError(t, r, "hills[0].radius")
}

func TestValidateRecipeLakeAmplitude(t *testing.T) {
	s := validRecipe()
	s.Lakes[0].Amplitude = 1.5
	r := ValidateRecipe(s)
	if r.Valid {
		t.Error("expected invalid for amplitude >= 1")
	}
	assertHasError(t, r, "lakes[0].amplitude")
}

func TestValidateRecipeFractionalHarmonic(t *testing.T) {
	s := validRecipe()
	s.Lakes[0].Harmonics[0].Freq = 2.5
	r := ValidateRecipe(s)
	if !r.Valid {
		t.Error("a fractional frequency should only warn")
	}
	if len(r.Warnings) != 1 || r.Warnings[0].Field != "lakes[0].harmonics[0].freq" {
		t.Errorf("warnings = %v, want one on lakes[0].harmonics[0].freq", r.Warnings)
	}
}

func TestValidateRecipeDuplicateCategory(t *testing.T) {
	s := validRecipe()
	s.Categories = append(s.Categories, spec.Category{Name: "tree", Mode: spec.ModeScatter})
	r := ValidateRecipe(s)
	if r.Valid {
		t.Error("expected invalid for duplicate category")
	}
	assertHasError(t, r, "categories[2].name")
}

func TestValidateRecipeUnknownMode(t *testing.T) {
	s := validRecipe()
	s.Categories[0].Mode = "orbit"
	r := ValidateRecipe(s)
	if r.Valid {
		t.Error("expected invalid for unknown mode")
	}
	assertHasError(t, r, "categories[0].mode")
}

func TestValidateRecipePOIWithoutPlacement(t *testing.T) {
	s := validRecipe()
	s.PointsOfInterest[0].T = nil
	r := ValidateRecipe(s)
	if r.Valid {
		t.Error("expected invalid for a point of interest with neither t nor platform")
	}
	assertHasError(t, r, "points_of_interest[0]")
}

func TestValidateRecipeHammockRange(t *testing.T) {
	s := validRecipe()
	s.Hammocks.MinDist = 8
	r := ValidateRecipe(s)
	if r.Valid {
		t.Error("expected invalid for min_dist > max_dist")
	}
	assertHasError(t, r, "hammocks.min_dist")
}

func TestValidateRecipeHammockCategory(t *testing.T) {
	s := validRecipe()
	s.Hammocks.Category = "palm"
	r := ValidateRecipe(s)
	assertHasError(t, r, "hammocks.category")
}

func TestValidateRecipeMeadow(t *testing.T) {
	s, err := spec.LoadProject("../../examples/meadow")
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	r := ValidateRecipe(s)
	if !r.Valid {
		t.Errorf("meadow recipe invalid: %v", r.Errors)
	}
	t.Logf("meadow: %s", r.Summary)
}

func assertHasError(t *testing.T, r *Report, field string) {
	t.Helper()
	for _, e := range r.Errors {
		if e.Field == field {
			return
		}
	}
	t.Errorf("expected error with field %q, got errors: %v", field, r.Errors)
}

func TestValidateRecipeReservedCategory(t *testing.T) {
	s := validRecipe()
	s.Categories = append(s.Categories, spec.Category{Name: spec.CategoryHammock, Mode: spec.ModeScatter})
	r := ValidateRecipe(s)
	assertHasError(t, r, "categories[2].name")
}
