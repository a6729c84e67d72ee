package models

// RawRecord is one dataset row before numeric coercion. Every field keeps the
// exact source text so a re-load applies the same drop rules as a fresh CSV.
type RawRecord struct {
	Title        string `json:"title"`
	Album        string `json:"album"`
	Danceability string `json:"danceability"`
	PeakRank     string `json:"peak_rank"`
	AverageRank  string `json:"average_rank"`
	WeeksOnChart string `json:"weeks_on_chart"`
	TrackNumber  string `json:"track_number"`
	AlbumCover   string `json:"album_cover"`
	AudioRef     string `json:"audio_ref"`
}

// DatasetInfo describes a stored dataset.
type DatasetInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Source  string `json:"source"`
	Rows    int    `json:"rows"`
	Created int64  `json:"created_unix"`
}
