//go:build !js && !wasm

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

const setlistCSV = `title,album,danceability
Miss Americana,Lover,0.662
Cruel Summer,Lover,0.552
Willow,evermore,0.392
Anti-Hero,Midnights,0.637
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "setlist.csv")
	if err := os.WriteFile(path, []byte(setlistCSV), 0o644); err != nil {
		t.Fatalf("Failed to write csv: %v", err)
	}
	return path
}

func TestParseOffsets(t *testing.T) {
	got, err := parseOffsets("0, 500,1200.5")
	if err != nil {
		t.Fatalf("parseOffsets failed: %v", err)
	}
	if len(got) != 3 || got[2] != 1200.5 {
		t.Errorf("Expected [0 500 1200.5], got %v", got)
	}
	if got, _ := parseOffsets(" "); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
	if _, err := parseOffsets("0,x"); err == nil {
		t.Error("Expected error for bad offset")
	}
}

func TestSparkline(t *testing.T) {
	s := sparkline([]float64{0, 0.5, 1, 2, -1})
	if utf8.RuneCountInString(s) != 5 {
		t.Fatalf("Expected 5 cells, got %q", s)
	}
	if !strings.HasPrefix(s, "▁") || !strings.Contains(s, "█") {
		t.Errorf("Expected low and high blocks, got %q", s)
	}
}

func TestRenderWritesSVG(t *testing.T) {
	src := writeCSV(t)
	out := filepath.Join(t.TempDir(), "setlist.svg")

	err := newApp().Run([]string{"erasviz", "render", "--chart", "setlist", "--kind", "setlist", "--section", "1", "--out", out, src})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.Contains(string(data), `data-chart="setlist"`) {
		t.Errorf("Expected setlist svg, got %.80s", data)
	}
}

func TestImportThenInspectFromStore(t *testing.T) {
	src := writeCSV(t)
	db := filepath.Join(t.TempDir(), "erasviz.sqlite3")

	if err := newApp().Run([]string{"erasviz", "import", "--kind", "setlist", "--db", db, "--name", "tour", src}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if err := newApp().Run([]string{"erasviz", "inspect", "--kind", "setlist", "--db", db, "sqlite://#tour"}); err != nil {
		t.Errorf("inspect from store failed: %v", err)
	}
	if err := newApp().Run([]string{"erasviz", "datasets", "--db", db}); err != nil {
		t.Errorf("datasets failed: %v", err)
	}
}

func TestRenderRejectsMissingSource(t *testing.T) {
	err := newApp().Run([]string{"erasviz", "render", "--kind", "setlist", filepath.Join(t.TempDir(), "nope.csv")})
	if err == nil {
		t.Error("Expected missing source to fail")
	}
}
