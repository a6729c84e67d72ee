package tooltip

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/himanishpuri/erasviz/pkg/models"
)

// Content is what a tooltip shows for one track.
type Content struct {
	TrackID int      `json:"track_id"`
	Title   string   `json:"title"`
	Era     string   `json:"era"`
	Lines   []string `json:"lines"`
}

// ContentFor builds the tooltip body for t. It never modifies t.
func ContentFor(t models.Track) Content {
	lines := []string{
		fmt.Sprintf("Danceability: %.3f (%d%%)", t.Danceability, int(math.Round(t.Danceability*100))),
		"Era: " + t.Era(),
	}
	if t.Ranked() {
		lines = append(lines,
			fmt.Sprintf("Peak #%d", t.PeakRank),
			fmt.Sprintf("Average rank: %.1f", t.AverageRank),
		)
	}
	if t.HasWeeks() {
		lines = append(lines, fmt.Sprintf("%s weeks on chart", humanize.Comma(int64(t.WeeksOnChart))))
	}
	if t.TrackNumber > 0 {
		lines = append(lines, fmt.Sprintf("%s track on the album", humanize.Ordinal(t.TrackNumber)))
	}
	return Content{TrackID: t.ID, Title: t.Title, Era: t.Era(), Lines: lines}
}

// Size estimates the rendered box for 12px text with 8px padding.
func (c Content) Size() (w, h float64) {
	longest := len([]rune(c.Title))
	for _, l := range c.Lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	const charWidth, lineHeight, padding = 7.0, 16.0, 8.0
	w = float64(longest)*charWidth + 2*padding
	h = float64(len(c.Lines)+1)*lineHeight + 2*padding
	return w, h
}
