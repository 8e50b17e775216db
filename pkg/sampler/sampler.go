// Package sampler is the single source of randomness for world generation.
//
// A Sampler maps a seed to a value in [0,1) with no hidden state. Callers
// never consume a stream: every decision derives its own seed from a base
// seed plus integer offsets, so any single placement can be recomputed in
// isolation.
package sampler

import (
	"hash/fnv"
	"math"
)

// Sampler is a pure seed -> [0,1) function.
type Sampler interface {
	Sample(seed float64) float64
}

// Func adapts a plain function to the Sampler interface.
type Func func(seed float64) float64

// Sample calls f(seed).
func (f Func) Sample(seed float64) float64 {
	return f(seed)
}

// AttemptStride separates the seeds of consecutive attempts.
const AttemptStride = 97

// below1 is the largest float64 strictly less than 1.
var below1 = math.Nextafter(1, 0)

// SinHash is the classic fract(sin(seed) * 43758.5453) hash.
type SinHash struct{}

// Sample implements Sampler.
func (SinHash) Sample(seed float64) float64 {
	v := math.Sin(seed) * 43758.5453
	return clamp01(v - math.Floor(v))
}

// SplitMix runs the SplitMix64 finaliser over the IEEE bits of the seed.
// Slower than SinHash but without its low-bit correlations.
type SplitMix struct{}

// Sample implements Sampler.
func (SplitMix) Sample(seed float64) float64 {
	z := math.Float64bits(seed) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return clamp01(float64(z>>11) / (1 << 53))
}

// Default is the sampler used when a caller does not supply one.
var Default Sampler = SinHash{}

// ByName returns the sampler registered under name. Unknown names fall back
// to Default.
func ByName(name string) Sampler {
	switch name {
	case "splitmix":
		return SplitMix{}
	default:
		return Default
	}
}

// Derive returns the seed for attempt k of a stream identified by offset.
func Derive(base float64, attempt int, offset float64) float64 {
	return base + float64(attempt)*AttemptStride + offset
}

// Range maps a sample for seed into [lo, hi).
func Range(s Sampler, seed, lo, hi float64) float64 {
	return lo + (hi-lo)*s.Sample(seed)
}

// Index maps a sample for seed into [0, n). n must be positive.
func Index(s Sampler, seed float64, n int) int {
	i := int(s.Sample(seed) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Sign returns -1 or +1.
func Sign(s Sampler, seed float64) float64 {
	if s.Sample(seed) < 0.5 {
		return -1
	}
	return 1
}

// Spatial folds a position into a seed so attributes follow location rather
// than placement order.
func Spatial(x, z, seed float64) float64 {
	return x*12.9898 + z*78.233 + seed*0.6180339887
}

// Offset returns a stable per-name seed offset in [0, 10000).
func Offset(name string) float64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return float64(h.Sum32() % 10000)
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return below1
	}
	return v
}
