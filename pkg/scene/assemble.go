package scene

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/layout"
)

// Assemble builds an uncommitted batch from placement records. It fails
// without producing anything if a record carries an unreadable color.
func Assemble(category string, records []layout.Record) (*Batch, error) {
	b := &Batch{
		Category:   category,
		Count:      len(records),
		IDs:        make([]string, len(records)),
		Transforms: make([]float32, len(records)*TransformStride),
	}

	colored := false
	for _, r := range records {
		if r.Color != "" {
			colored = true
			break
		}
	}
	if colored {
		b.Colors = make([]float32, len(records)*ColorStride)
	}

	for i, r := range records {
		b.IDs[i] = r.ID
		m := Compose(r.Point(), r.RotationY, r.Scale)
		copy(b.Transforms[i*TransformStride:], m[:])

		if !colored {
			continue
		}
		rgb := [3]float32{1, 1, 1}
		if r.Color != "" {
			c, err := ParseColor(r.Color)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", r.ID, err)
			}
			rgb = c
		}
		copy(b.Colors[i*ColorStride:], rgb[:])
	}

	b.Bounds = computeBounds(records)
	return b, nil
}

// Compose returns the column-major matrix translate(pos) * rotateY(yaw) *
// scale(s).
func Compose(pos geo.Point3, yaw float64, s geo.Point3) [16]float32 {
	c, sn := math.Cos(yaw), math.Sin(yaw)
	return [16]float32{
		float32(c * s.X), 0, float32(-sn * s.X), 0,
		0, float32(s.Y), 0, 0,
		float32(sn * s.Z), 0, float32(c * s.Z), 0,
		float32(pos.X), float32(pos.Y), float32(pos.Z), 1,
	}
}

// computeBounds calculates the AABB of the instance origins, extended up
// by each instance's vertical scale.
func computeBounds(records []layout.Record) BoundingBox {
	if len(records) == 0 {
		return BoundingBox{}
	}
	minV := geo.Point3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	maxV := geo.Point3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, r := range records {
		minV.X = math.Min(minV.X, r.Position.X)
		maxV.X = math.Max(maxV.X, r.Position.X)
		minV.Y = math.Min(minV.Y, r.Y)
		maxV.Y = math.Max(maxV.Y, r.Y+r.Scale.Y)
		minV.Z = math.Min(minV.Z, r.Position.Z)
		maxV.Z = math.Max(maxV.Z, r.Position.Z)
	}
	return BoundingBox{Min: minV, Max: maxV}
}
