package world

import (
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// Summary is a compact description of a world for CLI and API output.
type Summary struct {
	Name       string             `json:"name"`
	Key        string             `json:"key"`
	Seed       float64            `json:"seed"`
	PathLength float64            `json:"path_length"`
	Lakes      int                `json:"lakes"`
	Categories []CategorySummary  `json:"categories"`
	Spurs      []SpurSummary      `json:"spurs"`
	Hammocks   int                `json:"hammocks"`
	Report     *validation.Report `json:"report"`
}

type CategorySummary struct {
	Name      string `json:"name"`
	Mode      string `json:"mode"`
	Requested int    `json:"requested,omitempty"`
	Placed    int    `json:"placed"`
}

type SpurSummary struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	JunctionT   float64 `json:"junction_t"`
	Length      float64 `json:"length"`
	Occluders   int     `json:"occluders"`
	Breadcrumbs int     `json:"breadcrumbs"`
}

// Summary describes the world.
func (w *World) Summary() Summary {
	s := Summary{
		Name:       w.Recipe.Name,
		Key:        w.Key,
		Seed:       w.Recipe.Seed,
		PathLength: w.Path.Length(),
		Lakes:      len(w.Lakes),
		Hammocks:   len(w.Hammocks),
		Report:     w.Report,
	}
	for _, c := range w.Recipe.Categories {
		s.Categories = append(s.Categories, CategorySummary{
			Name:      c.Name,
			Mode:      c.Mode,
			Requested: c.Count,
			Placed:    len(w.Records[c.Name]),
		})
	}
	for _, name := range []string{spec.CategoryOccluder, spec.CategoryBreadcrumb, spec.CategoryHammock} {
		s.Categories = append(s.Categories, CategorySummary{
			Name:   name,
			Mode:   "generated",
			Placed: len(w.Records[name]),
		})
	}
	for _, sp := range w.Spurs {
		s.Spurs = append(s.Spurs, SpurSummary{
			ID:          sp.ID,
			Kind:        sp.Kind,
			JunctionT:   sp.JunctionT,
			Length:      sp.Curve.Length(),
			Occluders:   len(sp.Occluders),
			Breadcrumbs: len(sp.Breadcrumbs),
		})
	}
	return s
}
