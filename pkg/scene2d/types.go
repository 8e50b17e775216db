package scene2d

// Scene2D is the top-down overview of a world for SVG or raster renderers.
// Coordinates are [x, z] pairs on the ground plane.
type Scene2D struct {
	Metadata  Metadata      `json:"metadata"`
	Bounds    [2][2]float64 `json:"bounds"`
	Path      Path2D        `json:"path"`
	Hills     []Hill2D      `json:"hills"`
	Lakes     []Lake2D      `json:"lakes"`
	KeepOuts  []Disc2D      `json:"keep_outs"`
	Spurs     []Spur2D      `json:"spurs"`
	Hammocks  []Hammock2D   `json:"hammocks"`
	Instances []Category2D  `json:"instances"`
}

// Metadata holds world-level summary data.
type Metadata struct {
	Name        string  `json:"name"`
	Key         string  `json:"key"`
	Seed        float64 `json:"seed"`
	PathLengthM float64 `json:"path_length_m"`
	Instances   int     `json:"instances"`
	GeneratedAt string  `json:"generated_at"`
}

// Path2D is a band along a centerline. Left and Right are the band edges;
// for the closed main path both are loops.
type Path2D struct {
	Centerline [][2]float64 `json:"centerline"`
	Left       [][2]float64 `json:"left"`
	Right      [][2]float64 `json:"right"`
	Width      float64      `json:"width"`
	Closed     bool         `json:"closed"`
}

// Hill2D is a hill's footprint and peak.
type Hill2D struct {
	Center    [2]float64 `json:"center"`
	Footprint float64    `json:"footprint"`
	Peak      float64    `json:"peak"`
}

// Lake2D is a lake shoreline, clipped to the world bounds.
type Lake2D struct {
	ID      string       `json:"id"`
	Center  [2]float64   `json:"center"`
	Outline [][2]float64 `json:"outline"`
	AreaM2  float64      `json:"area_m2"`
}

// Disc2D is a circular area.
type Disc2D struct {
	ID     string     `json:"id,omitempty"`
	Center [2]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// Spur2D describes a spur and its dressing.
type Spur2D struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	Path        Path2D       `json:"path"`
	Platform    [2]float64   `json:"platform"`
	Occluders   []Disc2D     `json:"occluders"`
	Breadcrumbs [][2]float64 `json:"breadcrumbs"`
}

// Hammock2D is a rope between two anchors.
type Hammock2D struct {
	ID string     `json:"id"`
	A  [2]float64 `json:"a"`
	B  [2]float64 `json:"b"`
}

// Category2D lists one category's instance positions and footprint radii.
type Category2D struct {
	Name      string       `json:"name"`
	Color     string       `json:"color,omitempty"`
	Positions [][2]float64 `json:"positions"`
	Radii     []float64    `json:"radii"`
}
