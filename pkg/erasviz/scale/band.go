package scale

// Band maps an ordered set of category keys to equal-width slots.
//
// Padding follows the usual band-scale convention: paddingInner is the
// fraction of each step left empty between bands, paddingOuter the number
// of steps (as a fraction) left empty before the first and after the last.
type Band struct {
	keys      []string
	index     map[string]int
	r0        float64
	step      float64
	bandwidth float64
	offset    float64
}

func NewBand(keys []string, r0, r1, paddingInner, paddingOuter float64) Band {
	b := Band{
		keys:  append([]string(nil), keys...),
		index: make(map[string]int, len(keys)),
		r0:    r0,
	}
	for i, k := range b.keys {
		if _, dup := b.index[k]; !dup {
			b.index[k] = i
		}
	}
	n := float64(len(b.keys))
	if n == 0 {
		return b
	}
	paddingInner = clamp01(paddingInner)
	if paddingOuter < 0 {
		paddingOuter = 0
	}
	b.step = (r1 - r0) / (n - paddingInner + 2*paddingOuter)
	b.bandwidth = b.step * (1 - paddingInner)
	b.offset = b.step * paddingOuter
	return b
}

// Start returns the leading edge of key's band. ok is false for keys that
// are not part of the scale.
func (b Band) Start(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.r0 + b.offset + float64(i)*b.step, true
}

func (b Band) Center(key string) (float64, bool) {
	start, ok := b.Start(key)
	return start + b.bandwidth/2, ok
}

func (b Band) Bandwidth() float64 { return b.bandwidth }
func (b Band) Step() float64      { return b.step }

func (b Band) Keys() []string {
	return append([]string(nil), b.keys...)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
