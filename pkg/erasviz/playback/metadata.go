//go:build !js && !wasm
// +build !js,!wasm

package playback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

// Metadata is what ffprobe reports about an audio file.
type Metadata struct {
	Title      string
	Artist     string
	Album      string
	Format     string
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// String renders the tags as "Artist - Title (Album)", skipping blanks.
func (m Metadata) String() string {
	var parts []string
	if m.Artist != "" {
		parts = append(parts, m.Artist)
	}
	if m.Title != "" {
		parts = append(parts, m.Title)
	}
	s := strings.Join(parts, " - ")
	if m.Album != "" {
		s = strings.TrimSpace(s + " (" + m.Album + ")")
	}
	return s
}

type probeResult struct {
	Format struct {
		Name     string            `json:"format_name"`
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		Type       string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// tag looks a key up case-insensitively; containers disagree on "TITLE"
// versus "title".
func (p *probeResult) tag(key string) string {
	for k, v := range p.Format.Tags {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// ProbeMetadata runs ffprobe on path, bounded by probeTimeout when ctx has
// no deadline of its own.
func ProbeMetadata(ctx context.Context, path string) (Metadata, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, probeTimeout)
		defer cancel()
	}

	raw, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	).Output()
	if err != nil {
		if ctx.Err() != nil {
			return Metadata{}, ctx.Err()
		}
		return Metadata{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var probe probeResult
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Metadata{}, fmt.Errorf("decoding ffprobe output: %w", err)
	}

	meta := Metadata{
		Title:  probe.tag("title"),
		Artist: probe.tag("artist"),
		Album:  probe.tag("album"),
		Format: probe.Format.Name,
	}
	audio := false
	for _, st := range probe.Streams {
		if st.Type == "audio" {
			meta.SampleRate, _ = strconv.Atoi(st.SampleRate)
			meta.Channels = st.Channels
			audio = true
			break
		}
	}
	if !audio {
		return Metadata{}, errors.New("no audio stream found")
	}
	if secs, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		meta.Duration = time.Duration(secs * float64(time.Second))
	}
	return meta, nil
}

// ProbeDuration fits FileResolver.Probe.
func ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	meta, err := ProbeMetadata(ctx, path)
	if err != nil {
		return 0, err
	}
	return meta.Duration, nil
}
