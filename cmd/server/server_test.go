package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/erasviz/dataset"
	"github.com/himanishpuri/erasviz/pkg/erasviz/highlight"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/erasviz/tooltip"
	"github.com/himanishpuri/erasviz/pkg/logger"
)

const chartCSV = `name,album,danceability,peak_rank,average_rank,weeks_on_chart,audio_ref
Cruel Summer,Lover,0.552,1,9,52,https://audio.test/cruel-summer.mp3
Anti-Hero,Midnights,0.637,1,6,20,https://audio.test/anti-hero.mp3
Shake It Off,1989,0.8,1,3,50,
`

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.csv")
	if err := os.WriteFile(path, []byte(chartCSV), 0o644); err != nil {
		t.Fatalf("Failed to write csv: %v", err)
	}

	engine, err := erasviz.New(
		erasviz.WithLogger(logger.Discard()),
		erasviz.WithTransition(0),
		erasviz.WithResolver(playback.URLResolver{}),
		erasviz.WithDataset("chart", path, dataset.KindChart),
		erasviz.WithStoryboard("test", &highlight.Storyboard{Name: "test", Sections: []highlight.Section{
			{Title: "Opening", Highlight: []int{0}},
			{Title: "Hits", Highlight: []int{1, 2}},
		}}),
	)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	s := NewServer(engine, &ServerConfig{Port: 0, AllowedOrigins: []string{"*"}})
	s.log = logger.Discard()
	return s, s.setupRoutes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func mountView(t *testing.T, h http.Handler) ViewResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/views", MountRequest{Chart: "scatter", Dataset: "chart", Storyboard: "test", Width: 800, Height: 500})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[ViewResponse](t, rec)
}

func intPtr(v int) *int { return &v }

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header, got %q", got)
	}
}

func TestGetDataset(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/datasets/chart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[DatasetResponse](t, rec)
	if resp.Count != 3 || resp.Name != "chart" {
		t.Errorf("Expected 3 tracks in chart, got %d in %s", resp.Count, resp.Name)
	}

	if rec := do(t, h, http.MethodGet, "/api/datasets/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown dataset, got %d", rec.Code)
	}

	list := decodeBody[DatasetListResponse](t, do(t, h, http.MethodGet, "/api/datasets", nil))
	if len(list.Datasets) != 1 || len(list.Charts) == 0 {
		t.Errorf("Expected one dataset and the chart list, got %+v", list)
	}
}

func TestMountValidation(t *testing.T) {
	_, h := newTestServer(t)
	tests := []struct {
		name string
		req  MountRequest
		want int
	}{
		{"missing chart", MountRequest{Dataset: "chart"}, http.StatusBadRequest},
		{"too large", MountRequest{Chart: "scatter", Dataset: "chart", Width: 10000}, http.StatusBadRequest},
		{"unknown chart", MountRequest{Chart: "pie", Dataset: "chart"}, http.StatusBadRequest},
		{"unknown dataset", MountRequest{Chart: "scatter", Dataset: "nope"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPost, "/api/views", tt.req); rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestViewLifecycle(t *testing.T) {
	_, h := newTestServer(t)
	view := mountView(t, h)
	if view.Status != "ready" || len(view.Scene.Marks) == 0 {
		t.Fatalf("Expected ready view with marks, got %s", view.Status)
	}

	rec := do(t, h, http.MethodPost, "/api/views/"+view.ID+"/scroll", ScrollRequest{Offset: 600})
	scroll := decodeBody[ScrollResponse](t, rec)
	if scroll.Scroll.SectionIndex != 1 || scroll.Section == nil || scroll.Section.Title != "Hits" {
		t.Errorf("Expected section Hits, got %+v", scroll)
	}
	if scroll.PageProgress <= 0 || scroll.PageProgress > 100 {
		t.Errorf("Expected page progress in (0, 100], got %v", scroll.PageProgress)
	}

	rec = do(t, h, http.MethodGet, "/api/views/"+view.ID+"/svg", nil)
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected svg content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `data-key="track-1"`) {
		t.Error("Expected track marks in svg")
	}

	rec = do(t, h, http.MethodDelete, "/api/views/"+view.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on unmount, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/views/"+view.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after unmount, got %d", rec.Code)
	}
}

func TestPointer(t *testing.T) {
	_, h := newTestServer(t)
	view := mountView(t, h)
	path := "/api/views/" + view.ID + "/pointer"

	snap := decodeBody[tooltip.Snapshot](t, do(t, h, http.MethodPost, path, PointerRequest{Event: "enter", TrackID: intPtr(1), X: 100, Y: 100}))
	if !snap.Visible || snap.Content == nil || snap.Content.Title != "Anti-Hero" {
		t.Errorf("Expected Anti-Hero tooltip, got %+v", snap)
	}
	snap = decodeBody[tooltip.Snapshot](t, do(t, h, http.MethodPost, path, PointerRequest{Event: "leave"}))
	if snap.Visible {
		t.Error("Expected tooltip hidden after leave")
	}
	if rec := do(t, h, http.MethodPost, path, PointerRequest{Event: "hover"}); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown event, got %d", rec.Code)
	}
}

func TestClickTogglesSharedPlayback(t *testing.T) {
	_, h := newTestServer(t)
	a := mountView(t, h)
	b := mountView(t, h)

	resp := decodeBody[ClickResponse](t, do(t, h, http.MethodPost, "/api/views/"+a.ID+"/click", ClickRequest{TrackID: intPtr(0)}))
	if resp.Playback.Status != "playing" || resp.Playback.TrackID == nil || *resp.Playback.TrackID != 0 {
		t.Fatalf("Expected track 0 playing, got %+v", resp.Playback)
	}

	resp = decodeBody[ClickResponse](t, do(t, h, http.MethodPost, "/api/views/"+b.ID+"/click", ClickRequest{TrackID: intPtr(1)}))
	if *resp.Playback.TrackID != 1 || resp.Playback.Owner != b.ID {
		t.Errorf("Expected track 1 owned by second view, got %+v", resp.Playback)
	}

	st := decodeBody[PlaybackDTO](t, do(t, h, http.MethodGet, "/api/playback", nil))
	if st.Status != "playing" || *st.TrackID != 1 {
		t.Errorf("Expected shared state Playing(1), got %+v", st)
	}

	st = decodeBody[PlaybackDTO](t, do(t, h, http.MethodDelete, "/api/playback", nil))
	if st.Status != "idle" {
		t.Errorf("Expected idle after stop, got %+v", st)
	}
}

func TestClickFailureIsIdle(t *testing.T) {
	_, h := newTestServer(t)
	view := mountView(t, h)

	// Shake It Off has no audio reference
	rec := do(t, h, http.MethodPost, "/api/views/"+view.ID+"/click", ClickRequest{TrackID: intPtr(2)})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for playback failure, got %d", rec.Code)
	}
	resp := decodeBody[ClickResponse](t, rec)
	if resp.Playback.Status != "idle" || resp.Playback.Error == "" {
		t.Errorf("Expected idle with error, got %+v", resp.Playback)
	}

	if rec := do(t, h, http.MethodPost, "/api/views/"+view.ID+"/click", ClickRequest{TrackID: intPtr(99)}); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown track, got %d", rec.Code)
	}
}

func TestUnmountReleasesPlayback(t *testing.T) {
	s, h := newTestServer(t)
	view := mountView(t, h)
	do(t, h, http.MethodPost, "/api/views/"+view.ID+"/click", ClickRequest{TrackID: intPtr(0)})

	do(t, h, http.MethodDelete, "/api/views/"+view.ID, nil)
	if st := s.engine.Playback().State(); st.Status != playback.Idle {
		t.Errorf("Expected idle after unmount, got %v", st)
	}
}

func TestWaveformUnavailableForURLAudio(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/datasets/chart/waveform/0", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for remote audio, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/datasets/chart/waveform/x", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad id, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, h := newTestServer(t)
	if rec := do(t, h, http.MethodGet, "/api/views", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPut, "/api/playback", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestMalformedViewID(t *testing.T) {
	_, h := newTestServer(t)
	if rec := do(t, h, http.MethodGet, "/api/views/not-a-view", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/views/00000000-0000-4000-8000-000000000000", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestCORSRestrictedOrigins(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := corsMiddleware([]string{"https://eras.example/"})(next)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://eras.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://eras.example" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/views", nil)
	req.Header.Set("Origin", "https://other.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for unknown origin, got %q", got)
	}
}
