package scale

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func TestLinearMonotonicAndRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		d0, d1 := r.Float64()*400-200, r.Float64()*400-200
		r0, r1 := r.Float64()*1000, r.Float64()*1000
		if d0 == d1 || r0 == r1 {
			continue
		}
		s := NewLinear(d0, d1, r0, r1)

		a, b := math.Min(d0, d1), math.Max(d0, d1)
		x := a + r.Float64()*(b-a)
		y := a + r.Float64()*(b-a)
		if x > y {
			x, y = y, x
		}
		// direction of the mapping is the product of the two orientations
		dir := math.Copysign(1, (d1-d0)*(r1-r0))
		if dir*(s.Scale(y)-s.Scale(x)) < -eps {
			t.Fatalf("Scale not monotonic for domain [%g,%g] range [%g,%g]", d0, d1, r0, r1)
		}
		if got := s.Invert(s.Scale(x)); math.Abs(got-x) > 1e-6 {
			t.Fatalf("Expected round trip %g, got %g", x, got)
		}
	}
}

func TestLinearInvertedDomain(t *testing.T) {
	y := NewLinear(200, 1, 500, 0)
	if got := y.Scale(1); math.Abs(got) > eps {
		t.Errorf("Expected rank 1 at the top (0), got %g", got)
	}
	if got := y.Scale(200); math.Abs(got-500) > eps {
		t.Errorf("Expected rank 200 at the bottom (500), got %g", got)
	}
}

func TestFiveTrackScenario(t *testing.T) {
	values := []float64{0.3, 0.5, 0.7, 0.9, 0.4}
	lo, hi, ok := Extent(values)
	if !ok {
		t.Fatal("Expected extent")
	}
	s := NewLinear(lo, hi, 0, 800)

	if got := s.Scale(0.3); math.Abs(got-0) > eps {
		t.Errorf("Expected 0.3 at range minimum, got %g", got)
	}
	if got := s.Scale(0.9); math.Abs(got-800) > eps {
		t.Errorf("Expected 0.9 at range maximum, got %g", got)
	}
	mid := 400.0
	if got := s.Scale(0.4); got <= 0 || got >= mid {
		t.Errorf("Expected 0.4 strictly between minimum and midpoint, got %g", got)
	}

	// the scatter's configured domain [0.3, 1] keeps 0.3 at the minimum
	fixed := NewLinear(0.3, 1, 0, 800)
	if got := fixed.Scale(0.3); math.Abs(got) > eps {
		t.Errorf("Expected 0.3 at minimum, got %g", got)
	}
	if got := fixed.Scale(1); math.Abs(got-800) > eps {
		t.Errorf("Expected 1 at maximum, got %g", got)
	}
	if got := fixed.Scale(0.4); got <= 0 || got >= mid {
		t.Errorf("Expected 0.4 closer to minimum, got %g", got)
	}
}

func TestDegenerateDomain(t *testing.T) {
	s, err := NewLinearChecked(0.42, 0.42, 0, 100)
	if !errors.Is(err, ErrDegenerateDomain) {
		t.Fatalf("Expected ErrDegenerateDomain, got %v", err)
	}
	if !s.Degenerate() {
		t.Error("Expected degenerate flag")
	}
	if got := s.Scale(0.42); math.Abs(got-50) > eps {
		t.Errorf("Expected single value at range midpoint 50, got %g", got)
	}
	if math.IsNaN(s.Invert(10)) {
		t.Error("Expected finite inverse on degenerate scale")
	}

	if _, err := NewLinearChecked(0, 1, 0, 100); err != nil {
		t.Errorf("Expected no error for valid domain, got %v", err)
	}
}

func TestTicksAndNice(t *testing.T) {
	s := NewLinear(0.3, 1, 0, 100)
	ticks := s.Ticks(7)
	want := []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}
	if len(ticks) != len(want) {
		t.Fatalf("Expected %d ticks, got %v", len(want), ticks)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("Tick %d: expected %g, got %g", i, want[i], ticks[i])
		}
	}

	n := NewLinear(0.27, 0.93, 0, 100).Nice(5)
	d0, d1 := n.Domain()
	if math.Abs(d0-0.2) > eps || math.Abs(d1-1.0) > eps {
		t.Errorf("Expected nice domain [0.2, 1], got [%g, %g]", d0, d1)
	}

	inv := NewLinear(200, 1, 0, 100).Ticks(4)
	if inv[0] != 50 || inv[len(inv)-1] != 200 {
		t.Errorf("Expected ascending ticks 50..200, got %v", inv)
	}
}

func TestBand(t *testing.T) {
	keys := []string{"Fearless", "Speak Now", "Red", "1989"}
	b := NewBand(keys, 0, 400, 0.2, 0)

	if math.Abs(b.Step()-400/3.8) > eps {
		t.Errorf("Unexpected step %g", b.Step())
	}
	if math.Abs(b.Bandwidth()-b.Step()*0.8) > eps {
		t.Errorf("Unexpected bandwidth %g", b.Bandwidth())
	}

	first, _ := b.Start("Fearless")
	last, _ := b.Start("1989")
	if first != 0 {
		t.Errorf("Expected first band at 0, got %g", first)
	}
	if math.Abs(last+b.Bandwidth()-400) > 1e-6 {
		t.Errorf("Expected last band to end at 400, got %g", last+b.Bandwidth())
	}

	if _, ok := b.Start("Midnights"); ok {
		t.Error("Expected unknown key to report ok=false")
	}

	empty := NewBand(nil, 0, 100, 0.1, 0.1)
	if empty.Bandwidth() != 0 {
		t.Errorf("Expected zero bandwidth for empty band scale, got %g", empty.Bandwidth())
	}
}
