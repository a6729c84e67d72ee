package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/himanishpuri/erasviz/pkg/models"
)

// RawRow is a source row before coercion.
type RawRow = models.RawRecord

// Coerce converts raw rows into tracks. Rows failing a required numeric field
// are dropped, never zero-filled; IDs and positions are assigned over the
// surviving rows so they stay dense.
func Coerce(rows []RawRow, kind Kind) ([]models.Track, []MalformedRecord) {
	tracks := make([]models.Track, 0, len(rows))
	var dropped []MalformedRecord

	for i, raw := range rows {
		t, bad, ok := coerceRow(raw, kind)
		if !ok {
			bad.Row = i + 1
			dropped = append(dropped, bad)
			continue
		}
		t.ID = len(tracks)
		t.Position = len(tracks) + 1
		tracks = append(tracks, t)
	}
	return tracks, dropped
}

func coerceRow(raw RawRow, kind Kind) (models.Track, MalformedRecord, bool) {
	t := models.Track{
		Title:      raw.Title,
		Album:      raw.Album,
		AlbumCover: raw.AlbumCover,
		AudioRef:   raw.AudioRef,
	}

	d, err := parseDecimal(raw.Danceability)
	if err != "" {
		return t, MalformedRecord{Field: colDanceability, Value: raw.Danceability, Reason: err}, false
	}
	if d < 0 || d > 1 {
		return t, MalformedRecord{Field: colDanceability, Value: raw.Danceability, Reason: "out of range [0,1]"}, false
	}
	t.Danceability = d

	peak, peakErr := parseRank(raw.PeakRank)
	avg, avgErr := parseDecimal(raw.AverageRank)
	if avgErr == "" && avg < 1 {
		avgErr = "must be at least 1"
	}
	if kind.ranksRequired() {
		if peakErr != "" {
			return t, MalformedRecord{Field: colPeakRank, Value: raw.PeakRank, Reason: peakErr}, false
		}
		if avgErr != "" {
			return t, MalformedRecord{Field: colAverageRank, Value: raw.AverageRank, Reason: avgErr}, false
		}
	}
	if peakErr == "" && avgErr == "" {
		t.PeakRank = peak
		t.AverageRank = avg
	}

	t.WeeksOnChart = -1
	if w, err := parseCount(raw.WeeksOnChart, 0); err == "" {
		t.WeeksOnChart = w
	}
	if n, err := parseCount(raw.TrackNumber, 1); err == "" {
		t.TrackNumber = n
	}
	return t, MalformedRecord{}, true
}

// parseDecimal returns a non-empty reason when s is not a finite number.
func parseDecimal(s string) (float64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "missing"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, "not a number"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "not finite"
	}
	return v, ""
}

func parseRank(s string) (int, string) {
	return parseCount(s, 1)
}

// parseCount accepts integral decimal text ("12" or "12.0") no smaller
// than min.
func parseCount(s string, min int) (int, string) {
	v, reason := parseDecimal(s)
	if reason != "" {
		return 0, reason
	}
	if v != math.Trunc(v) {
		return 0, "not an integer"
	}
	if v < float64(min) {
		return 0, "below " + strconv.Itoa(min)
	}
	return int(v), ""
}
