package layout

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/sampler"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// HammockLink hangs a prop between two trees.
type HammockLink struct {
	ID       string     `json:"id"`
	AnchorA  string     `json:"anchor_a"`
	AnchorB  string     `json:"anchor_b"`
	A        geo.Point3 `json:"a"`
	B        geo.Point3 `json:"b"`
	Midpoint geo.Point3 `json:"midpoint"`
	Length   float64    `json:"length"`
	Yaw      float64    `json:"yaw"`
	Region   int        `json:"region"` // -1 outside any region
}

// pairing holds the state of one greedy pairing run over a set of trees.
type pairing struct {
	site  *Site
	def   spec.HammockDef
	trees []Record
	used  []bool
	links []HammockLink
}

// PairHammocks greedily links pairs of trees. Regions are served first,
// each restricted to trees inside it; the remaining links come from the
// whole population. max_links caps the total. A tree anchors at most one
// link.
func PairHammocks(site *Site, trees []Record, def spec.HammockDef) ([]HammockLink, *validation.Report) {
	report := validation.NewReport()
	p := &pairing{
		site:  site,
		def:   def,
		trees: trees,
		used:  make([]bool, len(trees)),
	}
	off := sampler.Offset("hammock")

	wanted := 0
	for ri, reg := range def.Regions {
		var pool []int
		for i, t := range trees {
			if t.Position.Distance(reg.Center) <= reg.Radius {
				pool = append(pool, i)
			}
		}
		limit := min(len(p.links)+reg.Links, def.MaxLinks)
		if def.MaxLinks == 0 {
			limit = len(p.links) + reg.Links
		}
		got := p.run(pool, limit, off+float64(ri+1), ri)
		wanted += reg.Links
		if got < reg.Links {
			report.AddInfo(validation.Result{
				Level:       validation.LevelPairing,
				Message:     fmt.Sprintf("hammock region %d: linked %d of %d (%d trees inside)", ri, got, reg.Links, len(pool)),
				ActualValue: got,
			})
		}
	}

	all := make([]int, len(trees))
	for i := range all {
		all[i] = i
	}
	p.run(all, def.MaxLinks, off, -1)
	wanted = max(wanted, def.MaxLinks)

	if len(p.links) < wanted {
		report.AddInfo(validation.Result{
			Level:       validation.LevelPairing,
			Message:     fmt.Sprintf("linked %d of %d requested hammocks from %d trees", len(p.links), wanted, len(trees)),
			ActualValue: len(p.links),
		})
	}
	return p.links, report
}

// run performs one greedy pass over pool until the total number of links
// reaches limit or attempts run out. It returns the links it added.
func (p *pairing) run(pool []int, limit int, offset float64, regionIdx int) int {
	if len(pool) < 2 {
		return 0
	}
	s := p.site.sampler()
	added := 0
	for attempt := 0; attempt < p.def.Attempts && len(p.links) < limit; attempt++ {
		seed := sampler.Derive(p.site.Seed, attempt, offset)
		i := pool[sampler.Index(s, seed, len(pool))]
		if p.used[i] {
			continue
		}

		start := sampler.Index(s, seed+1, len(pool))
		scanned := 0
		for k := 0; k < len(pool) && scanned < p.def.Candidates; k++ {
			j := pool[(start+k)%len(pool)]
			if j == i || p.used[j] {
				continue
			}
			d := p.trees[i].Position.Distance(p.trees[j].Position)
			if d > p.def.MaxDist {
				continue
			}
			scanned++
			link, ok := p.tryLink(i, j, d)
			if !ok {
				continue
			}
			link.ID = fmt.Sprintf("hammock_%05d", len(p.links))
			link.Region = regionIdx
			p.links = append(p.links, link)
			p.used[i], p.used[j] = true, true
			added++
			break
		}
	}
	return added
}

func (p *pairing) tryLink(i, j int, dist float64) (HammockLink, bool) {
	a, b := p.trees[i], p.trees[j]
	if dist < p.def.MinDist {
		return HammockLink{}, false
	}
	ya := p.attachHeight(a)
	yb := p.attachHeight(b)
	if math.Abs(ya-yb) >= p.def.MaxHeightDelta {
		return HammockLink{}, false
	}
	mid := geo.MidPoint(a.Position, b.Position)
	if p.site.Path.DistanceTo(mid) < p.def.PathClearance {
		return HammockLink{}, false
	}
	if p.site.InLake(mid, 1) {
		return HammockLink{}, false
	}
	if p.site.CrossesKeepOut(a.Position, b.Position) {
		return HammockLink{}, false
	}

	pa := geo.On(a.Position, ya)
	pb := geo.On(b.Position, yb)
	d := b.Position.Sub(a.Position)
	return HammockLink{
		AnchorA:  a.ID,
		AnchorB:  b.ID,
		A:        pa,
		B:        pb,
		Midpoint: pa.Lerp(pb, 0.5),
		Length:   pa.Distance(pb),
		Yaw:      math.Atan2(d.Z, d.X),
	}, true
}

// attachHeight is where a rope ties onto a tree.
func (p *pairing) attachHeight(r Record) float64 {
	return r.Y + p.def.AttachHeight*r.Scale.Y
}
