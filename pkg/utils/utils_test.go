package utils

import (
	"path/filepath"
	"testing"
)

func TestSafeFileName(t *testing.T) {
	tests := map[string]string{
		"Don't Blame Me":          "dont-blame-me",
		"...Ready For It?":        "ready-for-it",
		"Anti-Hero":               "anti-hero",
		"willow (Taylor's Cut)":   "willow-taylors-cut",
		"  spaced   out  ":        "spaced-out",
		"Shake It Off (Taylor’s)": "shake-it-off-taylors",
	}
	for in, want := range tests {
		if got := SafeFileName(in); got != want {
			t.Errorf("SafeFileName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	if a == b {
		t.Fatal("Expected distinct UUIDs")
	}
	if !IsUUID(a) {
		t.Errorf("Expected %q to parse as UUID", a)
	}
	if IsUUID("not-a-view") {
		t.Error("Expected malformed id to be rejected")
	}
}

func TestMakeDirAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := MakeDir(dir); err != nil {
		t.Fatalf("MakeDir failed: %v", err)
	}
	if FileExists(dir) {
		t.Error("Expected directory not to count as a file")
	}
}

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=e-ORhEE9VVg", "e-ORhEE9VVg", false},
		{"https://youtu.be/e-ORhEE9VVg", "e-ORhEE9VVg", false},
		{"https://www.youtube.com/embed/abc123", "abc123", false},
		{"https://example.com/watch?v=nope", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractYouTubeID(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractYouTubeID(%q): unexpected error state %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractYouTubeID(%q): expected %q, got %q", tt.url, tt.want, got)
		}
	}
}
