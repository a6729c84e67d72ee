// Package tooltip computes hover tooltips: pure content, pure placement, and
// a small shown/hidden state machine driven by pointer events.
package tooltip

// Offset is the gap between the pointer and the tooltip box, in pixels.
const Offset = 12.0

// Position places a tw x th tooltip for a pointer at (px, py) on a vw x vh
// surface. The box sits to the right of and above the pointer, flips to the
// other side of the pointer when it would overflow the right or top edge,
// and is finally clamped to [0, vw-tw] x [0, vh-th].
//
// A tooltip larger than the surface is pinned to the top-left corner.
func Position(px, py, tw, th, vw, vh float64) (left, top float64) {
	left = px + Offset
	if left+tw > vw {
		left = px - Offset - tw
	}
	top = py - Offset - th
	if top < 0 {
		top = py + Offset
	}
	return clamp(left, 0, vw-tw), clamp(top, 0, vh-th)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
