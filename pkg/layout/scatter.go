package layout

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/sampler"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// Rejection reasons, counted per category and reported as info.
const (
	rejectBounds   = "bounds"
	rejectRadius   = "radius"
	rejectPath     = "path"
	rejectLake     = "lake"
	rejectKeepOut  = "keep_out"
	rejectSpur     = "spur"
	rejectSpacing  = "spacing"
	rejectSkipped  = "skipped"
	rejectCorridor = "corridor"
)

// PlaceCategory places one category's instances. Categories are
// independent: the result depends only on the site and c.
func PlaceCategory(site *Site, c spec.Category) ([]Record, *validation.Report) {
	switch c.Mode {
	case spec.ModeEdge:
		return placeEdge(site, c)
	case spec.ModeScatter, spec.ModeNearPath, "":
		return scatter(site, c)
	default:
		report := validation.NewReport()
		report.AddError(validation.Result{
			Level:       validation.LevelPlacement,
			Message:     fmt.Sprintf("category %q: unknown mode %q", c.Name, c.Mode),
			Field:       "categories." + c.Name + ".mode",
			ActualValue: c.Mode,
		})
		return nil, report
	}
}

// CategorySeed is the base seed of a category's placement decisions.
func CategorySeed(site *Site, c spec.Category) float64 {
	if c.SeedOffset != nil {
		return site.Seed + *c.SeedOffset
	}
	return site.Seed + sampler.Offset(c.Name)
}

// scatter runs bounded rejection sampling for the scatter and near_path modes.
func scatter(site *Site, c spec.Category) ([]Record, *validation.Report) {
	report := validation.NewReport()
	s := site.sampler()
	base := CategorySeed(site, c)
	minP, maxP := candidateBox(site.Bounds, c)
	grid := newSpacingGrid(c.Spacing)
	rejected := make(map[string]int)

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = spec.DefaultMaxAttempts
	}

	records := make([]Record, 0, c.Count)
	attempt := 0
	for ; attempt < attempts && len(records) < c.Count; attempt++ {
		seed := sampler.Derive(base, attempt, 0)

		var p geo.Point2D
		if c.Mode == spec.ModeNearPath {
			t := s.Sample(seed)
			side := sampler.Sign(s, seed+1)
			lateral := c.Clearance + s.Sample(seed+2)*c.Band
			p = site.Path.PointAt(t).XZ().Add(site.Path.LeftNormalAt(t).Scale(side * lateral))
		} else {
			p = geo.Pt(
				sampler.Range(s, seed, minP.X, maxP.X),
				sampler.Range(s, seed+1, minP.Z, maxP.Z),
			)
		}

		if reason := site.reject(p, c); reason != "" {
			rejected[reason]++
			continue
		}
		if grid.tooClose(p) {
			rejected[rejectSpacing]++
			continue
		}

		grid.add(p)
		records = append(records, site.makeRecord(c, len(records), p, seed))
	}

	summarize(report, c, records, attempt, rejected)
	return records, report
}

// reject returns the first constraint p violates, or "" if it is acceptable.
func (s *Site) reject(p geo.Point2D, c spec.Category) string {
	if !s.Bounds.Contains(p) {
		return rejectBounds
	}
	r := p.Length()
	if r < c.MinRadius || (c.MaxRadius > 0 && r > c.MaxRadius) {
		return rejectRadius
	}
	if c.Clearance > 0 && s.Path.DistanceTo(p) < c.Clearance {
		return rejectPath
	}
	padding := c.LakePadding
	if padding <= 0 {
		padding = 1
	}
	if s.InLake(p, padding) {
		return rejectLake
	}
	if s.InKeepOut(p) {
		return rejectKeepOut
	}
	if s.NearSpur(p, c.SpurClearance) {
		return rejectSpur
	}
	return ""
}

// candidateBox narrows the recipe bounds to the category's radius band.
func candidateBox(b spec.Bounds, c spec.Category) (geo.Point2D, geo.Point2D) {
	minP, maxP := b.Min, b.Max
	if c.MaxRadius > 0 {
		minP.X = math.Max(minP.X, -c.MaxRadius)
		minP.Z = math.Max(minP.Z, -c.MaxRadius)
		maxP.X = math.Min(maxP.X, c.MaxRadius)
		maxP.Z = math.Min(maxP.Z, c.MaxRadius)
	}
	return minP, maxP
}

// makeRecord derives an instance's attributes from its position, so scale,
// rotation and color do not depend on the order instances were accepted in.
func (s *Site) makeRecord(c spec.Category, i int, p geo.Point2D, seed float64) Record {
	rng := s.sampler()
	a := sampler.Spatial(p.X, p.Z, seed)

	size := c.Scale.Lerp(rng.Sample(a))
	stretch := c.Stretch.Lerp(rng.Sample(a + 1))
	if stretch == 0 {
		stretch = 1
	}
	rec := Record{
		ID:        RecordID(c.Name, i),
		Category:  c.Name,
		Position:  p,
		Y:         math.Max(0, s.groundHeight(p)-c.Sink*size),
		Scale:     geo.P3(size, size*stretch, size),
		RotationY: rng.Sample(a+2) * 2 * math.Pi,
	}
	if len(c.Palette) > 0 {
		rec.Color = c.Palette[sampler.Index(rng, a+3, len(c.Palette))]
	}
	return rec
}

func summarize(report *validation.Report, c spec.Category, records []Record, attempts int, rejected map[string]int) {
	if c.Count > 0 && len(records) < c.Count {
		report.AddWarning(validation.Result{
			Level:       validation.LevelPlacement,
			Message:     fmt.Sprintf("category %q under-filled: placed %d of %d after %d attempts", c.Name, len(records), c.Count, attempts),
			Field:       "categories." + c.Name + ".count",
			ActualValue: len(records),
			Expected:    fmt.Sprintf("%d", c.Count),
			Suggestions: []string{"Raise max_attempts", "Lower clearance or spacing", "Widen the bounds"},
		})
	}
	report.AddInfo(validation.Result{
		Level:       validation.LevelPlacement,
		Message:     fmt.Sprintf("placed %d %s (%s mode, %d attempts)", len(records), c.Name, modeName(c.Mode), attempts),
		ActualValue: rejected,
	})
}

func modeName(m string) string {
	if m == "" {
		return spec.ModeScatter
	}
	return m
}
