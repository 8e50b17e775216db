// Package scene turns placement records into flat per-category instance
// buffers a renderer can upload directly.
package scene

import "github.com/ChicagoDave/trailworld/pkg/geo"

// Floats per instance in Batch.Transforms and Batch.Colors.
const (
	TransformStride = 16
	ColorStride     = 3
)

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min geo.Point3 `json:"min"`
	Max geo.Point3 `json:"max"`
}

// Batch is one committed, immutable snapshot of a category's instances.
// Transforms holds one column-major 4x4 matrix (T * Ry * S) per instance.
// Colors holds RGB in [0,1] per instance, or is nil when the category has
// no colors.
type Batch struct {
	Category   string      `json:"category"`
	Generation uint64      `json:"generation"`
	Count      int         `json:"count"`
	IDs        []string    `json:"ids"`
	Transforms []float32   `json:"transforms"`
	Colors     []float32   `json:"colors"`
	Bounds     BoundingBox `json:"bounds"`
}

// Update announces that a category's buffer advanced to a new generation.
type Update struct {
	Category   string `json:"category"`
	Generation uint64 `json:"generation"`
	Count      int    `json:"count"`
}
