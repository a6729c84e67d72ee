package dataset

import "strings"

const (
	colTitle        = "title"
	colAlbum        = "album"
	colDanceability = "danceability"
	colPeakRank     = "peak_rank"
	colAverageRank  = "average_rank"
	colWeeks        = "weeks_on_chart"
	colTrackNumber  = "track_number"
	colAlbumCover   = "album_cover"
	colAudio        = "audio_ref"
)

var headerAliases = map[string]string{
	"name":           colTitle,
	"title":          colTitle,
	"song":           colTitle,
	"track":          colTitle,
	"album":          colAlbum,
	"era":            colAlbum,
	"danceability":   colDanceability,
	"peak_rank":      colPeakRank,
	"peak":           colPeakRank,
	"average_rank":   colAverageRank,
	"avg_rank":       colAverageRank,
	"weeks_on_chart": colWeeks,
	"weeks":          colWeeks,
	"track_number":   colTrackNumber,
	"track_no":       colTrackNumber,
	"album_cover":    colAlbumCover,
	"cover":          colAlbumCover,
	"audio":          colAudio,
	"audio_ref":      colAudio,
	"audio_url":      colAudio,
	"preview_url":    colAudio,
}

// normalizeHeader lowercases a header cell and folds spaces and dashes into
// underscores: "Peak Rank" -> "peak_rank".
func normalizeHeader(cell string) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	cell = strings.ToLower(strings.TrimSpace(cell))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(cell)
}

// columnIndex maps canonical column names to header positions. The first
// occurrence of a column wins.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, cell := range header {
		canonical, ok := headerAliases[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := idx[canonical]; !seen {
			idx[canonical] = i
		}
	}
	return idx
}

func toRawRecord(row []string, idx map[string]int) RawRow {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return RawRow{
		Title:        get(colTitle),
		Album:        get(colAlbum),
		Danceability: get(colDanceability),
		PeakRank:     get(colPeakRank),
		AverageRank:  get(colAverageRank),
		WeeksOnChart: get(colWeeks),
		TrackNumber:  get(colTrackNumber),
		AlbumCover:   get(colAlbumCover),
		AudioRef:     get(colAudio),
	}
}
