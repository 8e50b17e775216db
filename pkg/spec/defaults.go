package spec

// Tunables used when a recipe leaves a value at zero.
const (
	DefaultMaxAttempts       = 4000
	DefaultPathSamples       = 900
	DefaultPathWidth         = 2.4
	DefaultSpurSamples       = 240
	DefaultStartOffset       = 1.5
	DefaultOccluderRadius    = 2.4
	DefaultOccluderHeight    = 0.9
	DefaultSpurClearance     = 1.5
	DefaultBreadcrumbSpacing = 1.6
	DefaultPOIDistance       = 14
)

// WithDefaults returns a copy of r with zero tunables replaced by defaults.
// The receiver is not modified.
func (r Recipe) WithDefaults() Recipe {
	if r.SpecVersion == "" {
		r.SpecVersion = "0.1.0"
	}
	if r.Path.Samples == 0 {
		r.Path.Samples = DefaultPathSamples
	}
	if r.Path.Width == 0 {
		r.Path.Width = DefaultPathWidth
	}

	cats := make([]Category, len(r.Categories))
	for i, c := range r.Categories {
		cats[i] = c.withDefaults()
	}
	r.Categories = cats

	pois := make([]PointOfInterest, len(r.PointsOfInterest))
	for i, p := range r.PointsOfInterest {
		if p.Side == 0 {
			p.Side = 1
		}
		if p.Distance == 0 {
			p.Distance = DefaultPOIDistance
		}
		pois[i] = p
	}
	r.PointsOfInterest = pois

	s := &r.Spurs
	if s.StartOffset == 0 {
		s.StartOffset = DefaultStartOffset
	}
	if s.OccluderRadius == 0 {
		s.OccluderRadius = DefaultOccluderRadius
	}
	if s.OccluderHeight == 0 {
		s.OccluderHeight = DefaultOccluderHeight
	}
	if s.Clearance == 0 {
		s.Clearance = DefaultSpurClearance
	}
	if s.BreadcrumbSpacing == 0 {
		s.BreadcrumbSpacing = DefaultBreadcrumbSpacing
	}
	if s.LakePadding == 0 {
		s.LakePadding = 1.1
	}
	if s.Samples == 0 {
		s.Samples = DefaultSpurSamples
	}

	h := &r.Hammocks
	if h.Category == "" {
		h.Category = "tree"
	}
	if h.MinDist == 0 {
		h.MinDist = 3
	}
	if h.MaxDist == 0 {
		h.MaxDist = 6.5
	}
	if h.MaxHeightDelta == 0 {
		h.MaxHeightDelta = 0.8
	}
	if h.AttachHeight == 0 {
		h.AttachHeight = 1.4
	}
	if h.PathClearance == 0 {
		h.PathClearance = 3.5
	}
	if h.Attempts == 0 {
		h.Attempts = 300
	}
	if h.Candidates == 0 {
		h.Candidates = 40
	}
	h.Regions = append([]HammockRegion(nil), h.Regions...)
	return r
}

func (c Category) withDefaults() Category {
	if c.Mode == "" {
		c.Mode = ModeScatter
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.LakePadding == 0 {
		c.LakePadding = 1
	}
	if c.Scale == (Range{}) {
		c.Scale = Range{Min: 1, Max: 1}
	}
	if c.Stretch == (Range{}) {
		c.Stretch = Range{Min: 1, Max: 1}
	}
	if c.Mode == ModeNearPath && c.Band == 0 {
		c.Band = 4
	}
	if c.Mode == ModeEdge {
		if c.Edge.Step == 0 {
			c.Edge.Step = 1
		}
		if len(c.Edge.Sides) == 0 {
			c.Edge.Sides = []float64{-1, 1}
		}
	}
	c.Palette = append([]string(nil), c.Palette...)
	return c
}

// CategoryByName returns the category with the given name, or nil.
func (r *Recipe) CategoryByName(name string) *Category {
	for i := range r.Categories {
		if r.Categories[i].Name == name {
			return &r.Categories[i]
		}
	}
	return nil
}
