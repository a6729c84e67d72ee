package main

import (
	"fmt"

	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/erasviz/render"
	"github.com/himanishpuri/erasviz/pkg/models"
)

// MaxSurface bounds the width and height a view may be mounted with.
const MaxSurface = 8192

// Pointer events accepted by POST /api/views/{id}/pointer
const (
	PointerEnter = "enter"
	PointerMove  = "move"
	PointerLeave = "leave"
)

// DatasetListResponse is the response for GET /api/datasets
type DatasetListResponse struct {
	Datasets []string `json:"datasets"`
	Charts   []string `json:"charts"`
}

// DatasetResponse is the response for GET /api/datasets/{name}
type DatasetResponse struct {
	Name    string         `json:"name"`
	Kind    string         `json:"kind"`
	Tracks  []models.Track `json:"tracks"`
	Count   int            `json:"count"`
	Dropped int            `json:"dropped"`
}

// MountRequest is the request body for POST /api/views
type MountRequest struct {
	Chart          string  `json:"chart"`
	Dataset        string  `json:"dataset"`
	Storyboard     string  `json:"storyboard,omitempty"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	TrackID        int     `json:"track_id,omitempty"`
}

func (r *MountRequest) Validate() error {
	if r.Chart == "" {
		return fmt.Errorf("chart is required")
	}
	if r.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if r.Width < 0 || r.Height < 0 || r.ViewportHeight < 0 {
		return fmt.Errorf("sizes must be non-negative")
	}
	if r.Width > MaxSurface || r.Height > MaxSurface {
		return fmt.Errorf("surface too large: %gx%g (maximum: %d)", r.Width, r.Height, MaxSurface)
	}
	return nil
}

func (r *MountRequest) viewConfig() erasviz.ViewConfig {
	return erasviz.ViewConfig{
		Chart:          r.Chart,
		Dataset:        r.Dataset,
		Storyboard:     r.Storyboard,
		Width:          r.Width,
		Height:         r.Height,
		ViewportHeight: r.ViewportHeight,
		TrackID:        r.TrackID,
	}
}

// ViewResponse describes a mounted view and its current scene.
type ViewResponse struct {
	ID              string        `json:"id"`
	Status          render.Status `json:"status"`
	Error           string        `json:"error,omitempty"`
	ContainerHeight float64       `json:"container_height"`
	Scene           render.Scene  `json:"scene"`
}

// ScrollRequest is the request body for POST /api/views/{id}/scroll.
// Offset is the distance scrolled past the top of the pinned region.
type ScrollRequest struct {
	Offset         float64 `json:"offset"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
}

type ScrollResponse struct {
	Scroll       highlight.ScrollState `json:"scroll"`
	PageProgress float64               `json:"page_progress"`
	Section      *highlight.Section    `json:"section,omitempty"`
	Scene        render.Scene          `json:"scene"`
}

// PointerRequest is the request body for POST /api/views/{id}/pointer.
// Without a track id, enter hit-tests the scene at (x, y).
type PointerRequest struct {
	Event   string  `json:"event"`
	TrackID *int    `json:"track_id,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

func (r *PointerRequest) Validate() error {
	switch r.Event {
	case PointerEnter, PointerMove, PointerLeave:
		return nil
	}
	return fmt.Errorf("event must be one of enter, move, leave; got %q", r.Event)
}

// ClickRequest is the request body for POST /api/views/{id}/click. Without
// a track id the scene is hit-tested at (x, y).
type ClickRequest struct {
	TrackID *int    `json:"track_id,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// PlaybackDTO is the shared playback state. Error carries the failure that
// last returned playback to idle.
type PlaybackDTO struct {
	Status  string `json:"status"`
	Dataset string `json:"dataset,omitempty"`
	TrackID *int   `json:"track_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Error   string `json:"error,omitempty"`
}

func playbackDTO(st playback.State, err error) PlaybackDTO {
	dto := PlaybackDTO{Status: st.Status.String()}
	if st.Status == playback.Playing {
		id := st.TrackID
		dto.Dataset, dto.TrackID, dto.Title, dto.Owner = st.Dataset, &id, st.Title, st.Owner
	}
	if err == nil {
		err = st.Err
	}
	if err != nil {
		dto.Error = err.Error()
	}
	return dto
}

// ClickResponse reports whether the click landed on a track and the
// resulting playback state.
type ClickResponse struct {
	Hit      bool        `json:"hit"`
	Playback PlaybackDTO `json:"playback"`
}

// DeleteViewResponse is the response for DELETE /api/views/{id}
type DeleteViewResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
