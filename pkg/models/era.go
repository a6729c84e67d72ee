package models

import (
	"regexp"
	"strings"
)

// editionSuffix matches a trailing parenthetical that names a re-release,
// e.g. "(Taylor's Version)", "(Deluxe Edition)", "(The Til Dawn Edition)".
var editionSuffix = regexp.MustCompile(`(?i)\s*\([^()]*\b(version|edition)\)\s*$`)

// CanonicalAlbum strips edition suffixes from an album title. Suffixes are
// removed repeatedly so "Red (Taylor's Version) (Deluxe Edition)" becomes "Red".
func CanonicalAlbum(album string) string {
	name := strings.TrimSpace(album)
	for {
		stripped := editionSuffix.ReplaceAllString(name, "")
		if stripped == name {
			return name
		}
		name = strings.TrimSpace(stripped)
	}
}

// ReleaseOrder lists eras in studio release order.
var ReleaseOrder = []string{
	"Fearless", "Speak Now", "Red", "1989", "reputation",
	"Lover", "folklore", "evermore", "Midnights",
}

// TourOrder lists eras in the order the tour performs them.
var TourOrder = []string{
	"Lover", "Fearless", "evermore", "reputation", "Speak Now",
	"Red", "folklore", "1989", "Midnights",
}

var eraColors = map[string]string{
	"Lover":      "#f7b0cc",
	"Fearless":   "#efc180",
	"evermore":   "#c5ac90",
	"reputation": "#000003",
	"Speak Now":  "#bea7c4",
	"Red":        "#7a2e39",
	"folklore":   "#d1cec7",
	"1989":       "#b5e5f8",
	"Midnights":  "#242e47",
}

// EraColor returns the palette color for an era (raw or canonical name), or
// fallback when the era is not part of the palette.
func EraColor(album, fallback string) string {
	if c, ok := eraColors[CanonicalAlbum(album)]; ok {
		return c
	}
	return fallback
}

// EraGenres are the genre tags shown next to each era.
var EraGenres = map[string][]string{
	"Fearless":   {"country pop", "pop rock"},
	"Speak Now":  {"country pop", "pop rock"},
	"Red":        {"pop", "country", "rock"},
	"1989":       {"synth-pop", "electropop", "dance-pop"},
	"reputation": {"electropop", "synth-pop", "hip hop"},
	"Lover":      {"pop", "synth-pop", "pop rock"},
	"folklore":   {"indie folk", "chamber pop", "alternative rock"},
	"evermore":   {"indie folk", "chamber rock", "alternative rock"},
	"Midnights":  {"synth-pop", "electropop", "chill-out"},
}

// OrderIndex returns the position of era in order, or -1.
func OrderIndex(order []string, era string) int {
	for i, e := range order {
		if e == era {
			return i
		}
	}
	return -1
}
