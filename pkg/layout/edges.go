package layout

import (
	"math"

	"github.com/ChicagoDave/trailworld/pkg/sampler"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/validation"
)

// placeEdge walks the main path at fixed arc steps and drops one candidate
// per configured side. There is no rejection search: a slot that lands in
// water, a keep-out or a spur corridor is simply left empty.
func placeEdge(site *Site, c spec.Category) ([]Record, *validation.Report) {
	report := validation.NewReport()
	s := site.sampler()
	base := CategorySeed(site, c)
	rejected := make(map[string]int)

	e := c.Edge
	step := e.Step
	if step <= 0 {
		step = 1
	}
	sides := e.Sides
	if len(sides) == 0 {
		sides = []float64{-1, 1}
	}
	slots := int(math.Floor(site.Path.Length() / step))

	var records []Record
	slot := 0
	for i := 0; i < slots; i++ {
		t := float64(i) / float64(slots)
		center := site.Path.PointAt(t).XZ()
		normal := site.Path.LeftNormalAt(t)
		tangent := site.Path.FlatTangentAt(t)

		for _, side := range sides {
			if c.Count > 0 && len(records) >= c.Count {
				break
			}
			seed := sampler.Derive(base, slot, 0)
			slot++
			if e.Skip > 0 && s.Sample(seed) < e.Skip {
				rejected[rejectSkipped]++
				continue
			}

			lateral := e.Offset + sampler.Range(s, seed+1, -e.Jitter, e.Jitter)
			along := sampler.Range(s, seed+2, -e.Jitter, e.Jitter)
			p := center.Add(normal.Scale(side * lateral)).Add(tangent.Scale(along))

			switch {
			case site.InLake(p, math.Max(c.LakePadding, 1)):
				rejected[rejectLake]++
				continue
			case site.InKeepOut(p):
				rejected[rejectKeepOut]++
				continue
			case site.InSpurCorridor(p):
				rejected[rejectCorridor]++
				continue
			}
			records = append(records, site.makeRecord(c, len(records), p, seed))
		}
	}

	summarize(report, c, records, slot, rejected)
	return records, report
}
