package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const svgFont = "Inter, Arial, sans-serif"

// WriteSVG serialises a scene as a standalone SVG document. Failed and
// loading scenes become a single centered message.
func WriteSVG(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" data-chart="%s" data-generation="%d">`+"\n",
		s.Size.Width, s.Size.Height, s.Size.Width, s.Size.Height, escapeXML(s.Chart), s.Generation)

	switch s.Status {
	case StatusReady:
		for _, m := range s.Marks {
			writeMark(bw, m)
		}
	case StatusFailed:
		writeMessage(bw, s, "Could not load data: "+s.Message)
	default:
		writeMessage(bw, s, "Loading…")
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeMessage(w *bufio.Writer, s Scene, msg string) {
	fmt.Fprintf(w, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="14" text-anchor="middle">%s</text>`+"\n",
		s.Size.Width/2, s.Size.Height/2, svgFont, escapeXML(msg))
}

func writeMark(w *bufio.Writer, m Mark) {
	attrs := markAttrs(m)
	switch m.Kind {
	case KindCircle:
		fmt.Fprintf(w, `  <circle cx="%.2f" cy="%.2f" r="%.2f"%s/>`+"\n", m.X, m.Y, m.R, attrs)
	case KindRect:
		fmt.Fprintf(w, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"%s/>`+"\n", m.X, m.Y, m.W, m.H, attrs)
	case KindLine:
		fmt.Fprintf(w, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"%s/>`+"\n", m.X, m.Y, m.X2, m.Y2, attrs)
	case KindPath:
		if m.D == "" {
			return
		}
		fill := ""
		if m.Fill == "" {
			fill = ` fill="none"`
		}
		fmt.Fprintf(w, `  <path d="%s"%s%s/>`+"\n", m.D, fill, attrs)
	case KindText:
		anchor := m.Anchor
		if anchor == "" {
			anchor = "start"
		}
		fmt.Fprintf(w, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.0f" text-anchor="%s"%s>%s</text>`+"\n",
			m.X, m.Y, svgFont, m.FontSize, anchor, attrs, escapeXML(m.Text))
	}
}

func markAttrs(m Mark) string {
	var b strings.Builder
	fmt.Fprintf(&b, ` data-key="%s"`, escapeXML(m.Key))
	if m.TrackID >= 0 {
		fmt.Fprintf(&b, ` data-track="%d" data-emphasis="%s"`, m.TrackID, m.Emphasis)
	}
	if m.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, escapeXML(m.Fill))
	}
	if m.Stroke != "" && m.StrokeWidth > 0 {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%.2f"`, escapeXML(m.Stroke), m.StrokeWidth)
	}
	if m.Dash != "" {
		fmt.Fprintf(&b, ` stroke-dasharray="%s"`, m.Dash)
	}
	if m.Opacity < 1 {
		fmt.Fprintf(&b, ` opacity="%.2f"`, m.Opacity)
	}
	return b.String()
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string { return xmlReplacer.Replace(s) }
