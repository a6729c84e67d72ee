// Package scale maps data values to pixel positions.
//
// Scales are plain values: they hold no mutable state and every method is
// total, so they can be shared freely between renders.
package scale

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateDomain is reported when a domain has zero width. The scale
// returned alongside it is still usable.
var ErrDegenerateDomain = errors.New("degenerate domain")

// degeneratePad is how far a zero-width domain is widened on each side.
const degeneratePad = 0.5

// Linear is a continuous linear scale. The domain may be inverted
// (e.g. [200, 1] for ranks drawn with 1 at the top).
type Linear struct {
	d0, d1     float64
	r0, r1     float64
	degenerate bool
}

// NewLinear never fails: a zero-width domain is widened by ±0.5 so its single
// value maps to the middle of the range.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	s := Linear{d0: d0, d1: d1, r0: r0, r1: r1}
	if d0 == d1 || math.IsNaN(d0) || math.IsNaN(d1) {
		if math.IsNaN(d0) {
			d0 = 0
		}
		s.d0, s.d1 = d0-degeneratePad, d0+degeneratePad
		s.degenerate = true
	}
	return s
}

// NewLinearChecked is NewLinear that also reports a degenerate domain.
func NewLinearChecked(d0, d1, r0, r1 float64) (Linear, error) {
	s := NewLinear(d0, d1, r0, r1)
	if s.degenerate {
		return s, fmt.Errorf("%w: [%g, %g]", ErrDegenerateDomain, d0, d1)
	}
	return s, nil
}

func (s Linear) Scale(v float64) float64 {
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Invert maps a pixel back into the domain. A zero-width range inverts to
// the domain start.
func (s Linear) Invert(px float64) float64 {
	if s.r1 == s.r0 {
		return s.d0
	}
	t := (px - s.r0) / (s.r1 - s.r0)
	return s.d0 + t*(s.d1-s.d0)
}

func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }
func (s Linear) Range() (float64, float64)  { return s.r0, s.r1 }
func (s Linear) Degenerate() bool           { return s.degenerate }

// WithRange returns a copy of the scale drawing into a new pixel range.
func (s Linear) WithRange(r0, r1 float64) Linear {
	s.r0, s.r1 = r0, r1
	return s
}

// Nice extends the domain outward to round tick boundaries.
func (s Linear) Nice(count int) Linear {
	if s.degenerate {
		return s
	}
	lo, hi := s.d0, s.d1
	reversed := lo > hi
	if reversed {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	if step <= 0 {
		return s
	}
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	if reversed {
		lo, hi = hi, lo
	}
	s.d0, s.d1 = lo, hi
	return s
}

// Ticks returns roughly count evenly spaced round values inside the domain,
// in ascending order.
func (s Linear) Ticks(count int) []float64 {
	lo, hi := s.d0, s.d1
	if lo > hi {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	if step <= 0 {
		return []float64{lo}
	}
	start := math.Ceil(lo/step - 1e-9)
	end := math.Floor(hi/step + 1e-9)
	ticks := make([]float64, 0, int(end-start)+1)
	for i := start; i <= end; i++ {
		// rounding keeps 0.30000000000000004 out of axis labels
		ticks = append(ticks, roundTo(i*step, step))
	}
	return ticks
}

func tickStep(lo, hi float64, count int) float64 {
	if count <= 0 {
		count = 10
	}
	span := hi - lo
	if span <= 0 || math.IsInf(span, 0) {
		return 0
	}
	raw := span / float64(count)
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	switch ratio := raw / power; {
	case ratio >= 7.07:
		return 10 * power
	case ratio >= 3.16:
		return 5 * power
	case ratio >= 1.41:
		return 2 * power
	default:
		return power
	}
}

func roundTo(v, step float64) float64 {
	decimals := math.Max(0, -math.Floor(math.Log10(step)))
	p := math.Pow(10, decimals)
	return math.Round(v*p) / p
}

// Extent returns the min and max of values. ok is false for an empty slice.
func Extent(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}
