// Package preview rasterizes a world overview to a top-down PNG.
//
// Shapes are built as geom paths in world coordinates and mapped to pixels
// through a single affine matrix, so every layer shares one projection.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/ChicagoDave/trailworld/pkg/scene"
	"github.com/ChicagoDave/trailworld/pkg/scene2d"
)

// Image sizes in pixels. A Renderer with Size 0 uses DefaultSize.
const (
	DefaultSize = 768
	MinSize     = 16
	MaxSize     = 8192

	discSegments = 20
	minDiscPx    = 1.2
	ropePx       = 1.0
)

var (
	colorGround     = colornames.Honeydew
	colorHill       = colornames.Darkseagreen
	colorLake       = colornames.Steelblue
	colorKeepOut    = colornames.Lightgray
	colorPath       = colornames.Tan
	colorSpur       = colornames.Burlywood
	colorOccluder   = colornames.Olivedrab
	colorBreadcrumb = colornames.Saddlebrown
	colorHammock    = colornames.Indianred
	colorInstance   = colornames.Forestgreen
)

// Renderer draws overviews at a fixed pixel size.
type Renderer struct {
	Size int

	ctm  matrix.Matrix
	rast *vector.Rasterizer
	dst  *image.RGBA
}

// Render draws s into a new size x size image. The longer side of the world
// bounds fills the image; the shorter side is centered.
func Render(s *scene2d.Scene2D, size int) (*image.RGBA, error) {
	return (&Renderer{Size: size}).Render(s)
}

// WritePNG renders s and encodes it to w.
func WritePNG(w io.Writer, s *scene2d.Scene2D, size int) error {
	img, err := Render(s, size)
	if err != nil {
		return err
	}
	return EncodePNG(w, img)
}

// EncodePNG writes a rendered preview.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}
	return nil
}

// Render draws s. A Renderer is not safe for concurrent use.
func (r *Renderer) Render(s *scene2d.Scene2D) (*image.RGBA, error) {
	if s == nil {
		return nil, fmt.Errorf("preview: nil scene")
	}
	size := r.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("preview: size %d outside [%d, %d]", size, MinSize, MaxSize)
	}
	ctm, err := Projection(s.Bounds, size)
	if err != nil {
		return nil, err
	}
	r.ctm = ctm
	r.dst = image.NewRGBA(image.Rect(0, 0, size, size))
	r.rast = vector.NewRasterizer(size, size)

	draw.Draw(r.dst, r.dst.Bounds(), image.NewUniform(colorGround), image.Point{}, draw.Src)

	for _, h := range s.Hills {
		r.fill(disc(h.Center, h.Footprint), colorHill)
	}
	for _, l := range s.Lakes {
		r.fill(polygon(l.Outline), colorLake)
	}
	for _, k := range s.KeepOuts {
		r.fill(disc(k.Center, k.Radius), colorKeepOut)
	}
	r.fill(band(s.Path), colorPath)
	for _, sp := range s.Spurs {
		r.fill(band(sp.Path), colorSpur)
		for _, o := range sp.Occluders {
			r.fill(disc(o.Center, o.Radius), colorOccluder)
		}
	}
	for _, c := range s.Instances {
		var fill color.Color = colorInstance
		if c.Color != "" {
			if rgb, err := scene.ParseColor(c.Color); err == nil {
				fill = toRGBA(rgb)
			}
		}
		for i, p := range c.Positions {
			rad := 0.0
			if i < len(c.Radii) {
				rad = c.Radii[i]
			}
			r.fill(r.marker(p, rad), fill)
		}
	}
	for _, sp := range s.Spurs {
		for _, b := range sp.Breadcrumbs {
			r.fill(r.marker(b, 0), colorBreadcrumb)
		}
	}
	for _, h := range s.Hammocks {
		r.fill(r.rope(h.A, h.B), colorHammock)
	}
	return r.dst, nil
}

// Projection maps world (x, z) to pixels: x grows right, z grows up.
func Projection(bounds [2][2]float64, size int) (matrix.Matrix, error) {
	w := bounds[1][0] - bounds[0][0]
	h := bounds[1][1] - bounds[0][1]
	if !(w > 0) || !(h > 0) {
		return matrix.Matrix{}, fmt.Errorf("preview: empty bounds %v", bounds)
	}
	px := float64(size)
	s := px / math.Max(w, h)
	tx := (px-w*s)/2 - bounds[0][0]*s
	ty := (px+h*s)/2 + bounds[0][1]*s
	return matrix.Matrix{s, 0, 0, -s, tx, ty}, nil
}

// Apply maps a world point through m.
func Apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

func (r *Renderer) fill(p *path.Data, c color.Color) {
	if p == nil || len(p.Cmds) == 0 {
		return
	}
	size := r.dst.Bounds().Dx()
	r.rast.Reset(size, size)
	r.trace(p)
	r.rast.Draw(r.dst, r.dst.Bounds(), image.NewUniform(c), image.Point{})
}

// trace feeds p to the rasterizer in device space. Curves are flattened
// into a fixed number of chords.
func (r *Renderer) trace(p *path.Data) {
	var cur, start vec.Vec2
	line := func(to vec.Vec2) {
		d := Apply(r.ctm, to)
		r.rast.LineTo(float32(d.X), float32(d.Y))
		cur = to
	}
	i := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			start = p.Coords[i]
			cur = start
			d := Apply(r.ctm, start)
			r.rast.MoveTo(float32(d.X), float32(d.Y))
			i++
		case path.CmdLineTo:
			line(p.Coords[i])
			i++
		case path.CmdQuadTo:
			p0, p1, p2 := cur, p.Coords[i], p.Coords[i+1]
			for k := 1; k <= 8; k++ {
				t := float64(k) / 8
				u := 1 - t
				line(p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t)))
			}
			i += 2
		case path.CmdCubeTo:
			p0, p1, p2, p3 := cur, p.Coords[i], p.Coords[i+1], p.Coords[i+2]
			for k := 1; k <= 12; k++ {
				t := float64(k) / 12
				u := 1 - t
				line(p0.Mul(u * u * u).Add(p1.Mul(3 * u * u * t)).Add(p2.Mul(3 * u * t * t)).Add(p3.Mul(t * t * t)))
			}
			i += 3
		case path.CmdClose:
			r.rast.ClosePath()
			cur = start
		}
	}
}

// marker is an instance disc, never thinner than a pixel or so.
func (r *Renderer) marker(c [2]float64, radius float64) *path.Data {
	if minR := minDiscPx / r.ctm[0]; radius < minR {
		radius = minR
	}
	return disc(c, radius)
}

// rope is a thin quad between two anchors.
func (r *Renderer) rope(a, b [2]float64) *path.Data {
	va, vb := pt(a), pt(b)
	d := vb.Sub(va)
	l := d.Length()
	if l == 0 {
		return nil
	}
	half := ropePx / 2 / r.ctm[0]
	n := vec.Vec2{X: -d.Y, Y: d.X}.Mul(half / l)
	return (&path.Data{}).
		MoveTo(va.Add(n)).
		LineTo(vb.Add(n)).
		LineTo(vb.Sub(n)).
		LineTo(va.Sub(n)).
		Close()
}

func toRGBA(c [3]float32) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(float64(c[0]) * 255)),
		G: uint8(math.Round(float64(c[1]) * 255)),
		B: uint8(math.Round(float64(c[2]) * 255)),
		A: 255,
	}
}

func pt(c [2]float64) vec.Vec2 {
	return vec.Vec2{X: c[0], Y: c[1]}
}

func polygon(coords [][2]float64) *path.Data {
	if len(coords) < 3 {
		return nil
	}
	p := (&path.Data{}).MoveTo(pt(coords[0]))
	for _, c := range coords[1:] {
		p = p.LineTo(pt(c))
	}
	return p.Close()
}

func disc(c [2]float64, radius float64) *path.Data {
	if !(radius > 0) {
		return nil
	}
	center := pt(c)
	p := (&path.Data{}).MoveTo(center.Add(vec.Vec2{X: radius}))
	for i := 1; i < discSegments; i++ {
		a := 2 * math.Pi * float64(i) / discSegments
		p = p.LineTo(center.Add(vec.Vec2{X: radius * math.Cos(a), Y: radius * math.Sin(a)}))
	}
	return p.Close()
}

// band outlines a path's paved strip. A closed band is two loops, the
// inner one reversed, so the interior stays unfilled.
func band(b scene2d.Path2D) *path.Data {
	if len(b.Left) < 2 || len(b.Left) != len(b.Right) {
		return nil
	}
	p := &path.Data{}
	if b.Closed {
		p = p.MoveTo(pt(b.Left[0]))
		for _, c := range b.Left[1:] {
			p = p.LineTo(pt(c))
		}
		p = p.Close()
		last := len(b.Right) - 1
		p = p.MoveTo(pt(b.Right[last]))
		for i := last - 1; i >= 0; i-- {
			p = p.LineTo(pt(b.Right[i]))
		}
		return p.Close()
	}
	p = p.MoveTo(pt(b.Left[0]))
	for _, c := range b.Left[1:] {
		p = p.LineTo(pt(c))
	}
	for i := len(b.Right) - 1; i >= 0; i-- {
		p = p.LineTo(pt(b.Right[i]))
	}
	return p.Close()
}
