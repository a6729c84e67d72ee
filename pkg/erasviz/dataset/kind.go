package dataset

import "fmt"

// Kind selects which columns a dataset must provide.
type Kind string

const (
	// KindChart is chart performance data: ranks are required.
	KindChart Kind = "chart"
	// KindSetlist is the performed order of songs.
	KindSetlist Kind = "setlist"
	// KindCatalog is album track listings with optional track numbers.
	KindCatalog Kind = "catalog"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindChart, KindSetlist, KindCatalog:
		return k, nil
	}
	return "", fmt.Errorf("unknown dataset kind %q", s)
}

// requiredColumns lists the canonical columns a source of this kind must
// have in its header.
func (k Kind) requiredColumns() []string {
	switch k {
	case KindChart:
		return []string{colTitle, colAlbum, colDanceability, colPeakRank, colAverageRank}
	default:
		return []string{colTitle, colAlbum, colDanceability}
	}
}

// ranksRequired reports whether rows without both ranks are dropped.
func (k Kind) ranksRequired() bool {
	return k == KindChart
}
