package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/himanishpuri/erasviz/pkg/erasviz"
	"github.com/himanishpuri/erasviz/pkg/erasviz/playback"
	"github.com/himanishpuri/erasviz/pkg/erasviz/tooltip"
	"github.com/himanishpuri/erasviz/pkg/logger"
	"github.com/himanishpuri/erasviz/pkg/utils"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Server hosts visualization sessions over HTTP. One engine is shared by
// every client, so playback is single-track across all of them.
type Server struct {
	engine *erasviz.Engine
	config *ServerConfig
	log    erasviz.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	ConfigPath     string
	AllowedOrigins []string
	LogRequests    bool
}

func NewServer(engine *erasviz.Engine, config *ServerConfig) *Server {
	return &Server{
		engine: engine,
		config: config,
		log:    logger.GetLogger().Named("server"),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, erasviz.ErrUnknownDataset), errors.Is(err, erasviz.ErrUnknownTrack):
		return http.StatusNotFound
	case errors.Is(err, erasviz.ErrUnknownChart), errors.Is(err, erasviz.ErrUnknownStoryboard):
		return http.StatusBadRequest
	case errors.Is(err, erasviz.ErrNotReady), errors.Is(err, erasviz.ErrViewClosed):
		return http.StatusConflict
	case errors.Is(err, erasviz.ErrNoAnalysis):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "erasviz API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":    "GET /health",
			"datasets":  "GET /api/datasets",
			"dataset":   "GET /api/datasets/{name}",
			"waveform":  "GET /api/datasets/{name}/waveform/{id}",
			"mount":     "POST /api/views",
			"scene":     "GET /api/views/{id}",
			"svg":       "GET /api/views/{id}/svg",
			"scroll":    "POST /api/views/{id}/scroll",
			"pointer":   "POST /api/views/{id}/pointer",
			"click":     "POST /api/views/{id}/click",
			"unmount":   "DELETE /api/views/{id}",
			"playback":  "GET /api/playback",
			"stopAudio": "DELETE /api/playback",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"views":  s.engine.ViewCount(),
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleListDatasets handles GET /api/datasets
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.respondJSON(w, http.StatusOK, DatasetListResponse{
		Datasets: s.engine.DatasetNames(),
		Charts:   erasviz.Charts(),
	})
}

// handleDataset routes /api/datasets/{name} and
// /api/datasets/{name}/waveform/{id}
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/datasets/"), "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		s.handleGetDataset(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "waveform":
		id, err := strconv.Atoi(parts[2])
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid track ID")
			return
		}
		s.handleWaveform(w, r, parts[0], id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request, name string) {
	ds, err := s.engine.Dataset(r.Context(), name)
	if err != nil {
		s.log.Errorf("Failed to load dataset %s: %v", name, err)
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, DatasetResponse{
		Name:    ds.Name,
		Kind:    string(ds.Kind),
		Tracks:  ds.Tracks,
		Count:   len(ds.Tracks),
		Dropped: ds.Dropped,
	})
}

func (s *Server) handleWaveform(w http.ResponseWriter, r *http.Request, name string, trackID int) {
	a, err := s.engine.Analyze(r.Context(), name, trackID)
	if err != nil {
		s.log.Warnf("Waveform for %s/%d unavailable: %v", name, trackID, err)
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, a)
}

// handleMount handles POST /api/views
func (s *Server) handleMount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req MountRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := s.engine.Mount(r.Context(), req.viewConfig())
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.log.Infof("Mounted %s view %s over %s", req.Chart, v.ID(), req.Dataset)
	s.respondJSON(w, http.StatusCreated, viewResponse(v))
}

func viewResponse(v *erasviz.View) ViewResponse {
	resp := ViewResponse{
		ID:              v.ID(),
		Status:          v.Status(),
		ContainerHeight: v.ContainerHeight(),
		Scene:           v.Tick(),
	}
	if err := v.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// handleView routes requests to /api/views/{id}[/action]
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id, action, _ := strings.Cut(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/views/"), "/"), "/")
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "View ID required")
		return
	}
	if !utils.IsUUID(id) {
		s.respondError(w, http.StatusBadRequest, "Invalid view ID")
		return
	}
	v, ok := s.engine.View(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "View not found")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.respondJSON(w, http.StatusOK, viewResponse(v))
	case action == "" && r.Method == http.MethodDelete:
		s.engine.Unmount(id)
		s.log.Infof("Unmounted view %s", id)
		s.respondJSON(w, http.StatusOK, DeleteViewResponse{Message: "View unmounted", ID: id})
	case action == "svg" && r.Method == http.MethodGet:
		v.Tick()
		w.Header().Set("Content-Type", "image/svg+xml")
		if err := v.WriteSVG(w); err != nil {
			s.log.Errorf("Failed to write svg for %s: %v", id, err)
		}
	case action == "scroll" && r.Method == http.MethodPost:
		s.handleScroll(w, r, v)
	case action == "pointer" && r.Method == http.MethodPost:
		s.handlePointer(w, r, v)
	case action == "click" && r.Method == http.MethodPost:
		s.handleClick(w, r, v)
	case action == "" || action == "svg" || action == "scroll" || action == "pointer" || action == "click":
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request, v *erasviz.View) {
	var req ScrollRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ViewportHeight > 0 {
		cfg := v.Config()
		v.Resize(cfg.Width, cfg.Height, req.ViewportHeight)
	}
	ss, scene := v.Scroll(req.Offset)
	resp := ScrollResponse{Scroll: ss, PageProgress: v.PageProgress(), Scene: scene}
	if sec, ok := v.Section(); ok {
		resp.Section = &sec
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request, v *erasviz.View) {
	var req PointerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var snap tooltip.Snapshot
	switch {
	case req.Event == PointerLeave:
		snap = v.Leave()
	case req.Event == PointerMove:
		snap = v.Move(req.X, req.Y)
	case req.TrackID != nil:
		var err error
		if snap, err = v.Hover(*req.TrackID, req.X, req.Y); err != nil {
			s.respondError(w, statusFor(err), err.Error())
			return
		}
	default:
		snap = v.PointerAt(req.X, req.Y)
	}
	s.respondJSON(w, http.StatusOK, snap)
}

// handleClick toggles playback. A track that cannot play is not an HTTP
// error: the response carries state Idle and the failure message.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request, v *erasviz.View) {
	var req ClickRequest
	if !s.decode(w, r, &req) {
		return
	}

	var (
		st  playback.State
		hit = true
		err error
	)
	if req.TrackID != nil {
		st, err = v.Click(r.Context(), *req.TrackID)
	} else {
		st, hit, err = v.ClickAt(r.Context(), req.X, req.Y)
	}

	var failure *playback.Failure
	if err != nil && !errors.As(err, &failure) {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, ClickResponse{Hit: hit, Playback: playbackDTO(st, err)})
}

// handlePlayback handles GET and DELETE /api/playback
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.respondJSON(w, http.StatusOK, playbackDTO(s.engine.Playback().State(), nil))
	case http.MethodDelete:
		s.respondJSON(w, http.StatusOK, playbackDTO(s.engine.Playback().Stop(), nil))
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
