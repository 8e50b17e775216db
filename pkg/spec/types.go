package spec

import "github.com/ChicagoDave/trailworld/pkg/geo"

// Recipe is everything a world is generated from. Two equal recipes always
// produce the same world.
type Recipe struct {
	SpecVersion      string            `yaml:"spec_version" json:"spec_version"`
	Name             string            `yaml:"name" json:"name"`
	Seed             float64           `yaml:"seed" json:"seed" jsonschema:"description=Base seed every randomized decision derives from"`
	Sampler          string            `yaml:"sampler,omitempty" json:"sampler,omitempty" jsonschema:"enum=sinhash,enum=splitmix"`
	Bounds           Bounds            `yaml:"bounds" json:"bounds"`
	Path             PathDef           `yaml:"path" json:"path"`
	Hills            []HillDef         `yaml:"hills" json:"hills"`
	Lakes            []LakeDef         `yaml:"lakes" json:"lakes"`
	KeepOuts         []KeepOutDef      `yaml:"keep_outs" json:"keep_outs"`
	Categories       []Category        `yaml:"categories" json:"categories"`
	PointsOfInterest []PointOfInterest `yaml:"points_of_interest" json:"points_of_interest"`
	Spurs            SpurDef           `yaml:"spurs" json:"spurs"`
	Hammocks         HammockDef        `yaml:"hammocks" json:"hammocks"`
}

// Bounds is the axis-aligned extent scenery may be placed in.
type Bounds struct {
	Min geo.Point2D `yaml:"min" json:"min"`
	Max geo.Point2D `yaml:"max" json:"max"`
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p geo.Point2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// PathDef is the main closed travel path.
type PathDef struct {
	ControlPoints []geo.Point3 `yaml:"control_points" json:"control_points" jsonschema:"minItems=3"`
	Samples       int          `yaml:"samples,omitempty" json:"samples,omitempty"`
	Width         float64      `yaml:"width,omitempty" json:"width,omitempty"`
}

// HillDef is an ellipsoidal terrain hill. Height is the maximum over
// every hill, not their sum.
type HillDef struct {
	Center     geo.Point2D `yaml:"center" json:"center"`
	BaseHeight float64     `yaml:"base_height" json:"base_height"`
	Radius     float64     `yaml:"radius" json:"radius" jsonschema:"description=Must be positive"`
	Scale      geo.Point3  `yaml:"scale" json:"scale"`
}

// LakeDef is a lake whose shoreline radius varies with angle.
type LakeDef struct {
	ID         string        `yaml:"id" json:"id"`
	Center     geo.Point2D   `yaml:"center" json:"center"`
	BaseRadius float64       `yaml:"base_radius" json:"base_radius"`
	Amplitude  float64       `yaml:"amplitude" json:"amplitude"`
	Harmonics  []HarmonicDef `yaml:"harmonics" json:"harmonics"`
}

// HarmonicDef is one sine term of a lake shoreline. A fractional Freq
// leaves a seam where the outline closes.
type HarmonicDef struct {
	Freq      float64 `yaml:"freq" json:"freq"`
	Weight    float64 `yaml:"weight" json:"weight"`
	PhaseSeed float64 `yaml:"phase_seed" json:"phase_seed"`
}

// KeepOutDef is a disc nothing may be scattered into.
type KeepOutDef struct {
	ID     string      `yaml:"id" json:"id"`
	Center geo.Point2D `yaml:"center" json:"center"`
	Radius float64     `yaml:"radius" json:"radius"`
}

// Placement modes.
const (
	ModeScatter  = "scatter"
	ModeNearPath = "near_path"
	ModeEdge     = "edge"
)

// Categories emitted by generation itself. Recipes may not define these.
const (
	CategoryOccluder   = "occluder"
	CategoryBreadcrumb = "breadcrumb"
	CategoryHammock    = "hammock"
)

// Reserved reports whether a category name is emitted by generation.
func Reserved(name string) bool {
	return name == CategoryOccluder || name == CategoryBreadcrumb || name == CategoryHammock
}

// Category is one kind of scenery and its placement rules.
type Category struct {
	Name          string   `yaml:"name" json:"name"`
	Mode          string   `yaml:"mode,omitempty" json:"mode,omitempty" jsonschema:"enum=scatter,enum=near_path,enum=edge"`
	Count         int      `yaml:"count" json:"count"`
	Clearance     float64  `yaml:"clearance" json:"clearance" jsonschema:"description=Minimum ground distance from the main path"`
	MaxAttempts   int      `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	MinRadius     float64  `yaml:"min_radius,omitempty" json:"min_radius,omitempty"`
	MaxRadius     float64  `yaml:"max_radius,omitempty" json:"max_radius,omitempty"`
	Spacing       float64  `yaml:"spacing,omitempty" json:"spacing,omitempty"`
	LakePadding   float64  `yaml:"lake_padding,omitempty" json:"lake_padding,omitempty"`
	SpurClearance float64  `yaml:"spur_clearance,omitempty" json:"spur_clearance,omitempty"`
	Band          float64  `yaml:"band,omitempty" json:"band,omitempty"`
	Scale         Range    `yaml:"scale" json:"scale"`
	Stretch       Range    `yaml:"stretch,omitempty" json:"stretch,omitempty" jsonschema:"description=Extra vertical scale multiplier"`
	Palette       []string `yaml:"palette,omitempty" json:"palette,omitempty"`
	Sink          float64  `yaml:"sink,omitempty" json:"sink,omitempty"`
	Edge          EdgeDef  `yaml:"edge,omitempty" json:"edge,omitempty"`
	SeedOffset    *float64 `yaml:"seed_offset,omitempty" json:"seed_offset,omitempty"`
}

// EdgeDef configures path-hugging placement.
type EdgeDef struct {
	Step   float64   `yaml:"step" json:"step"`
	Offset float64   `yaml:"offset" json:"offset"`
	Jitter float64   `yaml:"jitter" json:"jitter"`
	Sides  []float64 `yaml:"sides,omitempty" json:"sides,omitempty"`
	Skip   float64   `yaml:"skip,omitempty" json:"skip,omitempty" jsonschema:"description=Probability of leaving a slot empty"`
}

// Range is a closed interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Lerp maps u in [0,1] into the range.
func (r Range) Lerp(u float64) float64 {
	return r.Min + (r.Max-r.Min)*u
}

// Spur kinds.
const (
	KindShop   = "shop"
	KindHidden = "hidden"
)

// PointOfInterest is the destination of a spur. Either T places the
// junction on the main path (platform derived from Side and Distance), or
// Platform gives the destination directly and the junction is the nearest
// point of the main path.
type PointOfInterest struct {
	ID       string       `yaml:"id" json:"id"`
	Kind     string       `yaml:"kind" json:"kind"`
	T        *float64     `yaml:"t,omitempty" json:"t,omitempty" jsonschema:"minimum=0,maximum=1"`
	Side     float64      `yaml:"side,omitempty" json:"side,omitempty" jsonschema:"enum=-1,enum=1"`
	Distance float64      `yaml:"distance,omitempty" json:"distance,omitempty"`
	Platform *geo.Point2D `yaml:"platform,omitempty" json:"platform,omitempty"`
}

// SpurDef holds tunables shared by all spurs.
type SpurDef struct {
	StartOffset       float64 `yaml:"start_offset" json:"start_offset"`
	OccluderRadius    float64 `yaml:"occluder_radius" json:"occluder_radius"`
	OccluderHeight    float64 `yaml:"occluder_height" json:"occluder_height"`
	Clearance         float64 `yaml:"clearance" json:"clearance" jsonschema:"description=Minimum gap between an occluder and the main path"`
	BreadcrumbSpacing float64 `yaml:"breadcrumb_spacing" json:"breadcrumb_spacing"`
	LakePadding       float64 `yaml:"lake_padding" json:"lake_padding"`
	Samples           int     `yaml:"samples" json:"samples"`
}

// HammockDef configures tree pairing.
type HammockDef struct {
	Category       string          `yaml:"category" json:"category"`
	MinDist        float64         `yaml:"min_dist" json:"min_dist"`
	MaxDist        float64         `yaml:"max_dist" json:"max_dist"`
	MaxHeightDelta float64         `yaml:"max_height_delta" json:"max_height_delta"`
	AttachHeight   float64         `yaml:"attach_height" json:"attach_height"`
	PathClearance  float64         `yaml:"path_clearance" json:"path_clearance"`
	MaxLinks       int             `yaml:"max_links" json:"max_links"`
	Attempts       int             `yaml:"attempts" json:"attempts"`
	Candidates     int             `yaml:"candidates" json:"candidates"`
	Regions        []HammockRegion `yaml:"regions,omitempty" json:"regions,omitempty"`
}

// HammockRegion reserves links whose anchors both lie within Radius of Center.
type HammockRegion struct {
	Center geo.Point2D `yaml:"center" json:"center"`
	Radius float64     `yaml:"radius" json:"radius"`
	Links  int         `yaml:"links" json:"links"`
}
