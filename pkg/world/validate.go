package world

import (
	"fmt"

	"github.com/ChicagoDave/trailworld/pkg/layout"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// ValidateWorld re-checks a generated world against the invariants
// generation promises: unique IDs, instances on or above the ground,
// scatter clearance and lake exclusion, spur endpoints and one link per
// tree.
func ValidateWorld(w *World) *validation.Report {
	r := validation.NewReport()

	if w == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelWorld,
			Message: "world is nil",
		})
		return r
	}

	validateRecordIDs(w, r)
	validateHeights(w, r)
	validateClearance(w, r)
	validateSpurEndpoints(w, r)
	validateHammockAnchors(w, r)

	return r
}

func validateRecordIDs(w *World, r *validation.Report) {
	for cat, recs := range w.Records {
		seen := make(map[string]int, len(recs))
		for i, rec := range recs {
			if rec.ID == "" {
				r.AddError(validation.Result{
					Level:    validation.LevelWorld,
					Message:  fmt.Sprintf("%s record at index %d has empty ID", cat, i),
					Field:    fmt.Sprintf("records.%s[%d].id", cat, i),
					Expected: "non-empty string",
				})
				continue
			}
			if prev, exists := seen[rec.ID]; exists {
				r.AddError(validation.Result{
					Level:       validation.LevelWorld,
					Message:     fmt.Sprintf("duplicate record ID %q at indices %d and %d", rec.ID, prev, i),
					Field:       fmt.Sprintf("records.%s[%d].id", cat, i),
					ActualValue: rec.ID,
				})
			}
			seen[rec.ID] = i
			if rec.Category != cat {
				r.AddError(validation.Result{
					Level:       validation.LevelWorld,
					Message:     fmt.Sprintf("record %q filed under %q but has category %q", rec.ID, cat, rec.Category),
					Field:       fmt.Sprintf("records.%s[%d].category", cat, i),
					ActualValue: rec.Category,
				})
			}
		}
	}
}

func validateHeights(w *World, r *validation.Report) {
	for cat, recs := range w.Records {
		for _, rec := range recs {
			if rec.Y < 0 {
				r.AddError(validation.Result{
					Level:       validation.LevelWorld,
					Message:     fmt.Sprintf("record %q below ground (y=%.3f)", rec.ID, rec.Y),
					Field:       fmt.Sprintf("records.%s", cat),
					ActualValue: rec.Y,
					Expected:    ">= 0",
				})
			}
		}
	}
}

func validateClearance(w *World, r *validation.Report) {
	for _, c := range w.Recipe.Categories {
		if c.Mode == spec.ModeEdge {
			continue
		}
		padding := c.LakePadding
		if padding <= 0 {
			padding = 1
		}
		for _, rec := range w.Records[c.Name] {
			if d := w.Path.DistanceTo(rec.Position); d < c.Clearance {
				r.AddError(validation.Result{
					Level:       validation.LevelWorld,
					Message:     fmt.Sprintf("record %q is %.2f from the main path", rec.ID, d),
					Field:       fmt.Sprintf("categories.%s.clearance", c.Name),
					ActualValue: d,
					Expected:    fmt.Sprintf(">= %v", c.Clearance),
				})
			}
			for _, l := range w.Lakes {
				if l.Contains(rec.Position, padding) {
					r.AddError(validation.Result{
						Level:       validation.LevelWorld,
						Message:     fmt.Sprintf("record %q lies in lake %q", rec.ID, l.ID),
						Field:       fmt.Sprintf("categories.%s.lake_padding", c.Name),
						ActualValue: rec.Position,
					})
				}
			}
		}
	}
}

func validateSpurEndpoints(w *World, r *validation.Report) {
	const tolerance = 1e-6
	for _, sp := range w.Spurs {
		if sp.Curve.PointAt(0).XZ().Distance(sp.Start) > tolerance ||
			sp.Curve.PointAt(1).XZ().Distance(sp.Platform) > tolerance {
			r.AddError(validation.Result{
				Level:   validation.LevelWorld,
				Message: fmt.Sprintf("%s does not run from its start to its platform", sp.ID),
				Field:   "spurs." + sp.ID,
			})
		}
	}
}

func validateHammockAnchors(w *World, r *validation.Report) {
	trees := make(map[string]layout.Record)
	for _, rec := range w.Records[w.Recipe.Hammocks.Category] {
		trees[rec.ID] = rec
	}
	used := make(map[string]string)
	for _, l := range w.Hammocks {
		for _, id := range []string{l.AnchorA, l.AnchorB} {
			if _, ok := trees[id]; !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelWorld,
					Message:     fmt.Sprintf("%s anchors to unknown tree %q", l.ID, id),
					Field:       "hammocks." + l.ID,
					ActualValue: id,
				})
			}
			if other, ok := used[id]; ok {
				r.AddError(validation.Result{
					Level:       validation.LevelWorld,
					Message:     fmt.Sprintf("tree %q anchors both %s and %s", id, other, l.ID),
					Field:       "hammocks." + l.ID,
					ActualValue: id,
				})
			}
			used[id] = l.ID
		}
	}
}
