package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractYouTubeID pulls the video id out of the common YouTube URL shapes
// (watch?v=, youtu.be/, /embed/, /v/, /shorts/).
func ExtractYouTubeID(youtubeURL string) (string, error) {
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	host := strings.ToLower(u.Host)
	switch {
	case strings.Contains(host, "youtu.be"):
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	case strings.Contains(host, "youtube.com"):
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		for _, prefix := range []string{"/embed/", "/v/", "/shorts/"} {
			if id, ok := strings.CutPrefix(u.Path, prefix); ok && id != "" {
				return strings.Trim(id, "/"), nil
			}
		}
	}

	return "", fmt.Errorf("unable to extract video ID from URL: %s", youtubeURL)
}

func IsYouTubeURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Host)
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}

// IsYouTubeID reports whether s looks like a bare 11-character video id.
func IsYouTubeID(s string) bool {
	return youtubeIDPattern.MatchString(s)
}
