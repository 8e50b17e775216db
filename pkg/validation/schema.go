package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/spec"
)

// ValidateRecipe performs schema validation on a parsed recipe.
// It checks structural correctness before any generation runs.
func ValidateRecipe(s *spec.Recipe) *Report {
	r := NewReport()

	validateBounds(s, r)
	validatePath(s, r)
	validateHills(s, r)
	validateLakes(s, r)
	validateKeepOuts(s, r)
	validateCategories(s, r)
	validatePointsOfInterest(s, r)
	validateHammocks(s, r)

	return r
}

func validateBounds(s *spec.Recipe, r *Report) {
	b := s.Bounds
	if b.Min.X >= b.Max.X || b.Min.Z >= b.Max.Z {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "bounds.min must be below bounds.max on both axes",
			Field:       "bounds",
			ActualValue: fmt.Sprintf("%v..%v", b.Min, b.Max),
		})
	}
}

func validatePath(s *spec.Recipe, r *Report) {
	if n := len(s.Path.ControlPoints); n < 3 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "the main path needs at least 3 control points",
			Field:       "path.control_points",
			ActualValue: n,
			Expected:    ">= 3",
		})
	}
	if s.Path.Width < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "path width must not be negative",
			Field:       "path.width",
			ActualValue: s.Path.Width,
		})
	}
}

func validateHills(s *spec.Recipe, r *Report) {
	for i, h := range s.Hills {
		if !(h.Radius > 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("hills[%d]: radius must be > 0", i),
				Field:       fmt.Sprintf("hills[%d].radius", i),
				ActualValue: h.Radius,
				Expected:    "> 0",
			})
		}
		if h.Scale.X < 0 || h.Scale.Y < 0 || h.Scale.Z < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("hills[%d]: scale components must be positive", i),
				Field:       fmt.Sprintf("hills[%d].scale", i),
				ActualValue: h.Scale,
				Suggestions: []string{"Leave a component at 0 to use 1"},
			})
		}
	}
}

func validateLakes(s *spec.Recipe, r *Report) {
	ids := make(map[string]bool)
	for i, l := range s.Lakes {
		if l.ID != "" && ids[l.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate lake id %q", l.ID),
				Field:       fmt.Sprintf("lakes[%d].id", i),
				ActualValue: l.ID,
			})
		}
		ids[l.ID] = true

		if !(l.BaseRadius > 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("lakes[%d]: base_radius must be > 0", i),
				Field:       fmt.Sprintf("lakes[%d].base_radius", i),
				ActualValue: l.BaseRadius,
				Expected:    "> 0",
			})
		}
		if math.Abs(l.Amplitude) >= 1 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("lakes[%d]: |amplitude| must be < 1 or the shore folds through the center", i),
				Field:       fmt.Sprintf("lakes[%d].amplitude", i),
				ActualValue: l.Amplitude,
				Expected:    "-1 < amplitude < 1",
			})
		}
		for j, h := range l.Harmonics {
			if h.Freq != math.Trunc(h.Freq) {
				r.AddWarning(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("lakes[%d].harmonics[%d]: non-integer frequency leaves a seam at angle 0", i, j),
					Field:       fmt.Sprintf("lakes[%d].harmonics[%d].freq", i, j),
					ActualValue: h.Freq,
					Suggestions: []string{"Use a whole-number frequency"},
				})
			}
		}
	}
}

func validateKeepOuts(s *spec.Recipe, r *Report) {
	for i, k := range s.KeepOuts {
		if !(k.Radius > 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("keep_outs[%d]: radius must be > 0", i),
				Field:       fmt.Sprintf("keep_outs[%d].radius", i),
				ActualValue: k.Radius,
				Expected:    "> 0",
			})
		}
	}
}

func validateCategories(s *spec.Recipe, r *Report) {
	names := make(map[string]bool)
	for i, c := range s.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		if c.Name == "" {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("%s: name is required", field),
				Field:   field + ".name",
			})
		} else if spec.Reserved(c.Name) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("category name %q is reserved for generated instances", c.Name),
				Field:       field + ".name",
				ActualValue: c.Name,
			})
		} else if names[c.Name] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate category name %q", c.Name),
				Field:       field + ".name",
				ActualValue: c.Name,
			})
		}
		names[c.Name] = true

		switch c.Mode {
		case "", spec.ModeScatter, spec.ModeNearPath, spec.ModeEdge:
		default:
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: unknown mode %q", field, c.Mode),
				Field:       field + ".mode",
				ActualValue: c.Mode,
				Expected:    "scatter, near_path or edge",
			})
		}
		if c.Count < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: count must not be negative", field),
				Field:       field + ".count",
				ActualValue: c.Count,
				Expected:    ">= 0",
			})
		}
		if c.MaxRadius > 0 && c.MinRadius >= c.MaxRadius {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: min_radius must be below max_radius", field),
				Field:       field + ".min_radius",
				ActualValue: fmt.Sprintf("%v-%v", c.MinRadius, c.MaxRadius),
			})
		}
		if c.Scale.Min > c.Scale.Max {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: scale.min exceeds scale.max", field),
				Field:       field + ".scale",
				ActualValue: fmt.Sprintf("%v-%v", c.Scale.Min, c.Scale.Max),
			})
		}
		if c.Mode == spec.ModeEdge && c.Edge.Step < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: edge.step must be positive", field),
				Field:       field + ".edge.step",
				ActualValue: c.Edge.Step,
			})
		}
		if c.Mode != spec.ModeEdge && c.Count > 0 && c.MaxAttempts > 0 && c.MaxAttempts < c.Count {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: max_attempts (%d) is below count (%d); the category will under-fill", field, c.MaxAttempts, c.Count),
				Field:       field + ".max_attempts",
				ActualValue: c.MaxAttempts,
			})
		}
	}
}

func validatePointsOfInterest(s *spec.Recipe, r *Report) {
	ids := make(map[string]bool)
	for i, p := range s.PointsOfInterest {
		field := fmt.Sprintf("points_of_interest[%d]", i)
		if p.ID == "" {
			r.AddError(Result{Level: LevelSchema, Message: field + ": id is required", Field: field + ".id"})
		} else if ids[p.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate point of interest id %q", p.ID),
				Field:       field + ".id",
				ActualValue: p.ID,
			})
		}
		ids[p.ID] = true

		if p.T == nil && p.Platform == nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     field + ": either t or platform must be set",
				Field:       field,
				Suggestions: []string{"Set t to place the junction on the path", "Set platform to give the destination directly"},
			})
		}
		if p.T != nil && (*p.T < 0 || *p.T > 1) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     field + ": t must lie in [0, 1]",
				Field:       field + ".t",
				ActualValue: *p.T,
				Expected:    "0 <= t <= 1",
			})
		}
		if p.Side != 0 && p.Side != 1 && p.Side != -1 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     field + ": side must be 1 (left) or -1 (right)",
				Field:       field + ".side",
				ActualValue: p.Side,
			})
		}
	}
}

func validateHammocks(s *spec.Recipe, r *Report) {
	h := s.Hammocks
	if h.MaxLinks == 0 && len(h.Regions) == 0 {
		return
	}
	if h.MinDist > h.MaxDist {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "hammocks.min_dist must not exceed max_dist",
			Field:       "hammocks.min_dist",
			ActualValue: fmt.Sprintf("%v-%v", h.MinDist, h.MaxDist),
		})
	}
	if h.Category != "" && s.CategoryByName(h.Category) == nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("hammocks.category %q names no category", h.Category),
			Field:       "hammocks.category",
			ActualValue: h.Category,
		})
	}
	for i, reg := range h.Regions {
		if !(reg.Radius > 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("hammocks.regions[%d]: radius must be > 0", i),
				Field:       fmt.Sprintf("hammocks.regions[%d].radius", i),
				ActualValue: reg.Radius,
			})
		}
	}
}
