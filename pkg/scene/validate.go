package scene

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// ValidateBatch performs structural validation on a committed batch.
// It checks array lengths, instance IDs, matrix contents and bounds.
func ValidateBatch(b *Batch) *validation.Report {
	r := validation.NewReport()

	if b == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelWorld,
			Message: "batch is nil",
		})
		return r
	}

	validateLengths(b, r)
	if !r.Valid {
		return r
	}
	validateIDs(b, r)
	validateTransforms(b, r)
	validateColors(b, r)
	validateBoundsEnclosure(b, r)

	return r
}

func validateLengths(b *Batch, r *validation.Report) {
	if len(b.IDs) != b.Count {
		r.AddError(validation.Result{
			Level:       validation.LevelWorld,
			Message:     fmt.Sprintf("%s: %d ids for %d instances", b.Category, len(b.IDs), b.Count),
			Field:       b.Category + ".ids",
			ActualValue: len(b.IDs),
			Expected:    fmt.Sprintf("%d", b.Count),
		})
	}
	if len(b.Transforms) != b.Count*TransformStride {
		r.AddError(validation.Result{
			Level:       validation.LevelWorld,
			Message:     fmt.Sprintf("%s: %d transform floats for %d instances", b.Category, len(b.Transforms), b.Count),
			Field:       b.Category + ".transforms",
			ActualValue: len(b.Transforms),
			Expected:    fmt.Sprintf("%d", b.Count*TransformStride),
		})
	}
	if b.Colors != nil && len(b.Colors) != b.Count*ColorStride {
		r.AddError(validation.Result{
			Level:       validation.LevelWorld,
			Message:     fmt.Sprintf("%s: %d color floats for %d instances", b.Category, len(b.Colors), b.Count),
			Field:       b.Category + ".colors",
			ActualValue: len(b.Colors),
			Expected:    fmt.Sprintf("%d or none", b.Count*ColorStride),
		})
	}
}

func validateIDs(b *Batch, r *validation.Report) {
	seen := make(map[string]int, len(b.IDs))
	for i, id := range b.IDs {
		if id == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelWorld,
				Message:  fmt.Sprintf("%s: instance %d has empty ID", b.Category, i),
				Field:    fmt.Sprintf("%s.ids[%d]", b.Category, i),
				Expected: "non-empty string",
			})
			continue
		}
		if prev, exists := seen[id]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelWorld,
				Message:     fmt.Sprintf("duplicate instance ID %q at indices %d and %d", id, prev, i),
				Field:       fmt.Sprintf("%s.ids[%d]", b.Category, i),
				ActualValue: id,
			})
		}
		seen[id] = i
	}
}

func validateTransforms(b *Batch, r *validation.Report) {
	for i := 0; i < b.Count; i++ {
		m := b.Transforms[i*TransformStride : (i+1)*TransformStride]
		for _, v := range m {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				r.AddError(validation.Result{
					Level:   validation.LevelWorld,
					Message: fmt.Sprintf("%s: instance %s has a non-finite transform", b.Category, b.IDs[i]),
					Field:   fmt.Sprintf("%s.transforms[%d]", b.Category, i),
				})
				return
			}
		}
		if m[15] != 1 || m[3] != 0 || m[7] != 0 || m[11] != 0 {
			r.AddError(validation.Result{
				Level:   validation.LevelWorld,
				Message: fmt.Sprintf("%s: instance %s transform is not affine", b.Category, b.IDs[i]),
				Field:   fmt.Sprintf("%s.transforms[%d]", b.Category, i),
			})
			return
		}
		if m[13] < 0 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelWorld,
				Message:     fmt.Sprintf("%s: instance %s sits below ground (y=%.2f)", b.Category, b.IDs[i], m[13]),
				Field:       fmt.Sprintf("%s.transforms[%d]", b.Category, i),
				ActualValue: m[13],
				Expected:    ">= 0",
			})
		}
	}
}

func validateColors(b *Batch, r *validation.Report) {
	for i, v := range b.Colors {
		if v < 0 || v > 1 {
			r.AddError(validation.Result{
				Level:       validation.LevelWorld,
				Message:     fmt.Sprintf("%s: color component %d out of range", b.Category, i),
				Field:       fmt.Sprintf("%s.colors[%d]", b.Category, i),
				ActualValue: v,
				Expected:    "0..1",
			})
			return
		}
	}
}

func validateBoundsEnclosure(b *Batch, r *validation.Report) {
	const tolerance = 1e-3
	for i := 0; i < b.Count; i++ {
		x := float64(b.Transforms[i*TransformStride+12])
		z := float64(b.Transforms[i*TransformStride+14])
		if x < b.Bounds.Min.X-tolerance || x > b.Bounds.Max.X+tolerance ||
			z < b.Bounds.Min.Z-tolerance || z > b.Bounds.Max.Z+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelWorld,
				Message:     fmt.Sprintf("%s: instance %s at (%.1f, %.1f) outside batch bounds", b.Category, b.IDs[i], x, z),
				Field:       b.Category + ".bounds",
				ActualValue: fmt.Sprintf("%.1f, %.1f", x, z),
			})
			break
		}
	}
}
