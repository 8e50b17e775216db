// Package world runs the full generation pipeline for a recipe:
// terrain, main path, lakes, spurs, scatter, pairing and emission.
package world

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/layout"
	"github.com/ChicagoDave/trailworld/pkg/region"
	"github.com/ChicagoDave/trailworld/pkg/sampler"
	"github.com/ChicagoDave/trailworld/pkg/scene"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/terrain"
	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// Options tunes how generation runs. It never changes what is generated.
type Options struct {
	// Workers bounds concurrent category placement. Zero means GOMAXPROCS.
	Workers int
}

// World is everything generated from one recipe. It is immutable once
// Generate returns.
type World struct {
	Recipe      spec.Recipe                `json:"-"`
	Key         string                     `json:"key"`
	BaseTerrain *terrain.HeightField       `json:"-"`
	Terrain     *terrain.HeightField       `json:"-"`
	Path        *geo.Curve                 `json:"-"`
	Lakes       []*region.Boundary         `json:"lakes"`
	Spurs       []layout.Spur              `json:"spurs"`
	Records     map[string][]layout.Record `json:"records"`
	Hammocks    []layout.HammockLink       `json:"hammocks"`
	Report      *validation.Report         `json:"report"`
}

// Generate builds a world from a recipe. The recipe is not modified.
// Equal recipes always produce equal worlds.
//
// Stages run in this order: base terrain, main path, lakes, spurs (on the
// base terrain), terrain with spur occluders, category placement (against
// the final terrain and the spurs), hammock pairing, then emission of the
// generated categories.
func Generate(r *spec.Recipe, opts Options) (*World, error) {
	rec := r.WithDefaults()
	report := validation.ValidateRecipe(&rec)
	if !report.Valid {
		return nil, fmt.Errorf("invalid recipe: %w", report.Err())
	}

	key, err := Key(&rec)
	if err != nil {
		return nil, err
	}
	w := &World{
		Recipe:  rec,
		Key:     key,
		Records: make(map[string][]layout.Record),
		Report:  report,
	}
	s := sampler.ByName(rec.Sampler)

	// 1. Terrain and main path.
	hills := make([]terrain.Hill, len(rec.Hills))
	for i, h := range rec.Hills {
		hills[i] = terrain.Hill{Center: h.Center, BaseHeight: h.BaseHeight, Radius: h.Radius, Scale: h.Scale}
	}
	if w.BaseTerrain, err = terrain.NewHeightField(hills); err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}
	if w.Path, err = geo.NewClosedCurve(rec.Path.ControlPoints, rec.Path.Samples); err != nil {
		return nil, fmt.Errorf("building main path: %w", err)
	}

	// 2. Lakes.
	for _, l := range rec.Lakes {
		hs := make([]region.Harmonic, len(l.Harmonics))
		for j, h := range l.Harmonics {
			hs[j] = region.Harmonic{Freq: h.Freq, Weight: h.Weight, PhaseSeed: h.PhaseSeed}
		}
		b, err := region.New(l.ID, l.Center, l.BaseRadius, l.Amplitude, hs, s)
		if err != nil {
			return nil, fmt.Errorf("building lake: %w", err)
		}
		w.Lakes = append(w.Lakes, b)
	}

	site := &layout.Site{
		Seed:     rec.Seed,
		Sampler:  s,
		Bounds:   rec.Bounds,
		Path:     w.Path,
		Terrain:  w.BaseTerrain,
		Lakes:    w.Lakes,
		KeepOuts: rec.KeepOuts,
	}

	// 3. Spurs, then fold their occluders into the terrain.
	spurs, spurReport := layout.BuildSpurs(site, rec.PointsOfInterest, rec.Spurs)
	report.Merge(spurReport)
	w.Spurs = spurs
	if w.Terrain, err = w.BaseTerrain.With(layout.OccluderHills(spurs)...); err != nil {
		return nil, fmt.Errorf("adding occluders: %w", err)
	}
	site.Terrain = w.Terrain
	site.Spurs = spurs

	// 4. Categories, concurrently. Each goroutine writes only its own slot.
	placed, placeReport := placeAll(site, rec.Categories, opts)
	report.Merge(placeReport)
	for i, c := range rec.Categories {
		w.Records[c.Name] = placed[i]
	}

	// 5. Hammocks.
	if rec.Hammocks.MaxLinks > 0 || len(rec.Hammocks.Regions) > 0 {
		links, pairReport := layout.PairHammocks(site, w.Records[rec.Hammocks.Category], rec.Hammocks)
		report.Merge(pairReport)
		w.Hammocks = links
	}

	// 6. Generated categories.
	w.Records[spec.CategoryOccluder] = occluderRecords(spurs)
	w.Records[spec.CategoryBreadcrumb] = breadcrumbRecords(site, spurs)
	w.Records[spec.CategoryHammock] = hammockRecords(w.Hammocks)

	report.Merge(ValidateWorld(w))
	return w, nil
}

func placeAll(site *layout.Site, cats []spec.Category, opts Options) ([][]layout.Record, *validation.Report) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	records := make([][]layout.Record, len(cats))
	reports := make([]*validation.Report, len(cats))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, c := range cats {
		g.Go(func() error {
			records[i], reports[i] = layout.PlaceCategory(site, c)
			return nil
		})
	}
	_ = g.Wait() // placement reports problems, it never fails

	report := validation.NewReport()
	for _, r := range reports {
		report.Merge(r)
	}
	return records, report
}

// Publish commits every category to the buffer set.
func (w *World) Publish(bs *scene.BufferSet) error {
	if err := bs.PublishAll(w.Records); err != nil {
		return fmt.Errorf("publishing world %s: %w", w.Key[:12], err)
	}
	return nil
}

// HeightAt samples the final terrain, occluders included.
func (w *World) HeightAt(x, z float64) float64 {
	return w.Terrain.HeightAt(x, z)
}

// Categories returns the category names in emission order: recipe
// categories first, then generated ones.
func (w *World) Categories() []string {
	names := make([]string, 0, len(w.Recipe.Categories)+3)
	for _, c := range w.Recipe.Categories {
		names = append(names, c.Name)
	}
	return append(names, spec.CategoryOccluder, spec.CategoryBreadcrumb, spec.CategoryHammock)
}
