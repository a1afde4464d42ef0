package random

import (
	"testing"
)

func TestProvider_Seed(t *testing.T) {
	if got := NewProvider(-7).Seed(); got != -7 {
		t.Errorf("Seed = %d, want -7", got)
	}
}

func TestStream_SameSeedSameSequence(t *testing.T) {
	a := NewProvider(42).Stream("transactions")
	b := NewProvider(42).Stream("transactions")

	for i := 0; i < 1000; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestStream_NamesAreIndependent(t *testing.T) {
	p := NewProvider(42)
	weather := p.Stream("weather")
	first := make([]float64, 10)
	for i := range first {
		first[i] = weather.Float64()
	}

	// Drawing heavily from another stream must not shift this one.
	other := p.Stream("market/AAPL")
	for i := 0; i < 500; i++ {
		other.Normal(0, 1)
	}
	again := p.Stream("weather")
	for i := range first {
		if v := again.Float64(); v != first[i] {
			t.Fatalf("draw %d changed after using another stream: %v vs %v", i, v, first[i])
		}
	}

	if p.Stream("a").Float64() == p.Stream("b").Float64() {
		t.Error("different names produced the same first draw")
	}
}

func TestStream_DifferentSeedsDiffer(t *testing.T) {
	a := NewProvider(1).Stream("x")
	b := NewProvider(2).Stream("x")
	same := 0
	for i := 0; i < 100; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 100 {
		t.Error("seeds 1 and 2 produced identical sequences")
	}
}

func TestStream_IntRangeInclusive(t *testing.T) {
	s := NewProvider(7).Stream("ints")
	seen := make(map[int]bool)
	for i := 0; i < 5000; i++ {
		v := s.IntRange(1, 4)
		if v < 1 || v > 4 {
			t.Fatalf("IntRange(1, 4) = %d", v)
		}
		seen[v] = true
	}
	for v := 1; v <= 4; v++ {
		if !seen[v] {
			t.Errorf("value %d never drawn", v)
		}
	}

	if v := s.IntRange(5, 5); v != 5 {
		t.Errorf("IntRange(5, 5) = %d, want 5", v)
	}
}

func TestStream_UniformBounds(t *testing.T) {
	s := NewProvider(7).Stream("uniform")
	for i := 0; i < 5000; i++ {
		v := s.Uniform(-8, 3)
		if v < -8 || v >= 3 {
			t.Fatalf("Uniform(-8, 3) = %v", v)
		}
	}
}

func TestStream_ChanceExtremes(t *testing.T) {
	s := NewProvider(7).Stream("chance")
	for i := 0; i < 1000; i++ {
		if s.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !s.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}

func TestStream_NormalMean(t *testing.T) {
	s := NewProvider(3).Stream("normal")
	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Normal(10, 2)
	}
	mean := sum / n
	if mean < 9.9 || mean > 10.1 {
		t.Errorf("sample mean = %v, want about 10", mean)
	}
}

func TestChoice(t *testing.T) {
	s := NewProvider(11).Stream("choice")
	items := []string{"Checking", "Credit Card"}
	counts := make(map[string]int)
	for i := 0; i < 2000; i++ {
		counts[Choice(s, items)]++
	}
	for _, it := range items {
		if counts[it] < 800 {
			t.Errorf("%q chosen %d times out of 2000", it, counts[it])
		}
	}
}
