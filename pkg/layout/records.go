package layout

import (
	"fmt"

	"github.com/ChicagoDave/trailworld/pkg/geo"
)

// Record is one placed scenery instance.
type Record struct {
	ID        string             `json:"id"`
	Category  string             `json:"category"`
	Position  geo.Point2D        `json:"position"`
	Y         float64            `json:"y"`
	Scale     geo.Point3         `json:"scale"`
	RotationY float64            `json:"rotation_y"`
	Color     string             `json:"color,omitempty"`
	Extra     map[string]float64 `json:"extra,omitempty"`
}

// RecordID formats the ID of the i-th record of a category.
func RecordID(category string, i int) string {
	return fmt.Sprintf("%s_%05d", category, i)
}

// Point returns the record's 3D position.
func (r Record) Point() geo.Point3 {
	return geo.On(r.Position, r.Y)
}
