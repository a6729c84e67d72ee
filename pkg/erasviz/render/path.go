package render

import (
	"fmt"
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

func pt(x, y float64) string { return fmt.Sprintf("%.2f,%.2f", x, y) }

// LinePath joins points with straight segments.
func LinePath(pts []Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M" + pt(p.X, p.Y))
			continue
		}
		b.WriteString("L" + pt(p.X, p.Y))
	}
	return b.String()
}

// MonotoneX draws a cubic curve through pts that never overshoots in y
// between neighbouring points. Points must be sorted by x.
func MonotoneX(pts []Point) string {
	n := len(pts)
	if n < 3 {
		return LinePath(pts)
	}

	tangents := make([]float64, n)
	for i := 1; i < n-1; i++ {
		tangents[i] = slope3(pts[i-1], pts[i], pts[i+1])
	}
	tangents[0] = slope2(pts[0], pts[1], tangents[1])
	tangents[n-1] = slope2(pts[n-1], pts[n-2], tangents[n-2])

	var b strings.Builder
	b.WriteString("M" + pt(pts[0].X, pts[0].Y))
	for i := 0; i < n-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		dx := (p1.X - p0.X) / 3
		fmt.Fprintf(&b, "C%s %s %s",
			pt(p0.X+dx, p0.Y+dx*tangents[i]),
			pt(p1.X-dx, p1.Y-dx*tangents[i+1]),
			pt(p1.X, p1.Y))
	}
	return b.String()
}

// slope3 is the Steffen tangent at p1.
func slope3(p0, p1, p2 Point) float64 {
	h0, h1 := p1.X-p0.X, p2.X-p1.X
	if h0 == 0 || h1 == 0 {
		return 0
	}
	s0, s1 := (p1.Y-p0.Y)/h0, (p2.Y-p1.Y)/h1
	p := (s0*h1 + s1*h0) / (h0 + h1)
	return (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
}

// slope2 is the end tangent at p0 given the tangent t at its neighbour.
func slope2(p0, p1 Point, t float64) float64 {
	h := p1.X - p0.X
	if h == 0 {
		return t
	}
	return (3*(p1.Y-p0.Y)/h - t) / 2
}

func sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// BumpX links points with horizontal-tangent cubic segments.
func BumpX(pts []Point) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M" + pt(pts[0].X, pts[0].Y))
	for i := 1; i < len(pts); i++ {
		p0, p1 := pts[i-1], pts[i]
		mx := (p0.X + p1.X) / 2
		fmt.Fprintf(&b, "C%s %s %s", pt(mx, p0.Y), pt(mx, p1.Y), pt(p1.X, p1.Y))
	}
	return b.String()
}
