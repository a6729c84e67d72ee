package models

// Track is one row of a loaded dataset. Tracks are immutable once the loader
// hands them out; views only ever read them.
type Track struct {
	// ID is the 0-based index in the filtered sequence.
	ID int `json:"id"`
	// Position is the 1-based index in the filtered, source-ordered sequence.
	Position int `json:"position"`

	Title        string  `json:"title"`
	Album        string  `json:"album"`
	Danceability float64 `json:"danceability"`

	// PeakRank and AverageRank are 1 = best. Zero means absent.
	PeakRank    int     `json:"peak_rank,omitempty"`
	AverageRank float64 `json:"average_rank,omitempty"`
	// WeeksOnChart is -1 when the source had no value.
	WeeksOnChart int `json:"weeks_on_chart"`

	TrackNumber int    `json:"track_number,omitempty"`
	AlbumCover  string `json:"album_cover,omitempty"`
	AudioRef    string `json:"audio_ref,omitempty"`
}

// Era returns the canonical display name of the track's album.
func (t Track) Era() string {
	return CanonicalAlbum(t.Album)
}

// Ranked reports whether the track can appear in rank-encoded views.
func (t Track) Ranked() bool {
	return t.PeakRank > 0 && t.AverageRank >= 1
}

// HasWeeks reports whether WeeksOnChart carries a real value.
func (t Track) HasWeeks() bool {
	return t.WeeksOnChart >= 0
}

func (t Track) IsTrackFive() bool {
	return t.TrackNumber == 5
}

// Filter returns the tracks for which keep returns true, preserving order.
func Filter(tracks []Track, keep func(Track) bool) []Track {
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Danceabilities projects the danceability column.
func Danceabilities(tracks []Track) []float64 {
	out := make([]float64, len(tracks))
	for i, t := range tracks {
		out[i] = t.Danceability
	}
	return out
}
