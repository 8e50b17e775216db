package layout

import (
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
)

// spacingGrid is a uniform hash of accepted positions with cell size equal
// to the minimum spacing, so only the 3x3 neighborhood needs checking.
type spacingGrid struct {
	cell  float64
	cells map[[2]int][]geo.Point2D
}

func newSpacingGrid(spacing float64) *spacingGrid {
	return &spacingGrid{cell: spacing, cells: make(map[[2]int][]geo.Point2D)}
}

func (g *spacingGrid) key(p geo.Point2D) [2]int {
	return [2]int{int(math.Floor(p.X / g.cell)), int(math.Floor(p.Z / g.cell))}
}

func (g *spacingGrid) tooClose(p geo.Point2D) bool {
	if g.cell <= 0 {
		return false
	}
	k := g.key(p)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			for _, q := range g.cells[[2]int{k[0] + dx, k[1] + dz}] {
				if p.Distance(q) < g.cell {
					return true
				}
			}
		}
	}
	return false
}

func (g *spacingGrid) add(p geo.Point2D) {
	if g.cell <= 0 {
		return
	}
	k := g.key(p)
	g.cells[k] = append(g.cells[k], p)
}
