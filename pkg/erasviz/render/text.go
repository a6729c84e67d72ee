package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/models"
)

// TextStrip renders tracks as one row of colored dots for terminals: era
// color per track, emphasized tracks as bold filled dots, dimmed tracks
// faint, the playing track as a play glyph. Rows wrap at width cells.
func TextStrip(tracks []models.Track, set highlight.Set, playing, width int) string {
	if len(tracks) == 0 {
		return ""
	}
	if width <= 0 {
		width = 60
	}
	var b strings.Builder
	for i, t := range tracks {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(models.EraColor(t.Album, "#888888")))
		glyph := "·"
		switch Classify(t.ID, set) {
		case Emphasized:
			style = style.Bold(true)
			glyph = "●"
		case Dimmed:
			style = style.Faint(true)
		default:
			glyph = "○"
		}
		if t.ID == playing {
			glyph = playGlyph
		}
		b.WriteString(style.Render(glyph))
	}
	return b.String()
}

// Legend lists the eras present in tracks, each in its color.
func Legend(tracks []models.Track) string {
	eras, _ := models.Setlist(tracks).ByEra()
	parts := make([]string, 0, len(eras))
	for _, era := range eras {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(models.EraColor(era, "#888888"))).
			Render("■ "+era))
	}
	return strings.Join(parts, "  ")
}
