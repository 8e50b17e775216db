package sampler

import (
	"math"
	"testing"
)

func TestSinHashInUnitInterval(t *testing.T) {
	s := SinHash{}
	for i := -5000; i < 5000; i++ {
		seed := float64(i) * 0.37
		v := s.Sample(seed)
		if v < 0 || v >= 1 {
			t.Fatalf("Sample(%v) = %v, want [0,1)", seed, v)
		}
	}
}

func TestSplitMixInUnitInterval(t *testing.T) {
	s := SplitMix{}
	for i := 0; i < 10000; i++ {
		v := s.Sample(float64(i))
		if v < 0 || v >= 1 {
			t.Fatalf("Sample(%d) = %v, want [0,1)", i, v)
		}
	}
}

func TestSamplersArePure(t *testing.T) {
	for _, s := range []Sampler{SinHash{}, SplitMix{}} {
		for _, seed := range []float64{0, 1, 42.5, -17, 1e6} {
			if a, b := s.Sample(seed), s.Sample(seed); a != b {
				t.Errorf("%T.Sample(%v) not reproducible: %v vs %v", s, seed, a, b)
			}
		}
	}
}

func TestSinHashMean(t *testing.T) {
	s := SinHash{}
	sum := 0.0
	const n = 20000
	for i := 0; i < n; i++ {
		sum += s.Sample(Derive(1234, i, 7))
	}
	mean := sum / n
	if math.Abs(mean-0.5) > 0.02 {
		t.Errorf("mean = %.4f, want ~0.5", mean)
	}
}

func TestClampNeverReturnsOne(t *testing.T) {
	if v := clamp01(1); v >= 1 {
		t.Errorf("clamp01(1) = %v, want < 1", v)
	}
	if v := clamp01(math.NaN()); v != 0 {
		t.Errorf("clamp01(NaN) = %v, want 0", v)
	}
}

func TestDerive(t *testing.T) {
	if got := Derive(10, 3, 5); got != 10+3*97+5 {
		t.Errorf("Derive(10, 3, 5) = %v, want %v", got, 10+3*97+5)
	}
}

func TestIndexBounds(t *testing.T) {
	s := Func(func(float64) float64 { return below1 })
	if got := Index(s, 0, 5); got != 4 {
		t.Errorf("Index at upper edge = %d, want 4", got)
	}
	s = Func(func(float64) float64 { return 0 })
	if got := Index(s, 0, 5); got != 0 {
		t.Errorf("Index at lower edge = %d, want 0", got)
	}
}

func TestOffsetStable(t *testing.T) {
	if Offset("tree") != Offset("tree") {
		t.Error("Offset not stable")
	}
	if Offset("tree") == Offset("rock") {
		t.Error("expected distinct offsets for tree and rock")
	}
	if o := Offset("flower"); o < 0 || o >= 10000 {
		t.Errorf("Offset out of range: %v", o)
	}
}

func TestByName(t *testing.T) {
	if _, ok := ByName("splitmix").(SplitMix); !ok {
		t.Error("ByName(splitmix) should return SplitMix")
	}
	if _, ok := ByName("").(SinHash); !ok {
		t.Error("ByName(\"\") should return the default SinHash")
	}
}
