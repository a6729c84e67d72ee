package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const shutdownGrace = 5 * time.Second

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)

	mux.HandleFunc("/api/datasets", s.handleListDatasets)
	mux.HandleFunc("/api/datasets/", s.handleDataset)

	mux.HandleFunc("/api/views", s.handleMount)
	mux.HandleFunc("/api/views/", s.handleView)

	mux.HandleFunc("/api/playback", s.handlePlayback)

	var handler http.Handler = mux
	if s.config.LogRequests {
		handler = s.logRequests(handler)
	}
	return corsMiddleware(s.config.AllowedOrigins)(handler)
}

// corsMiddleware answers preflights and tags responses for the configured
// origins. An empty list or a lone "*" allows any origin.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	anyOrigin := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			anyOrigin = true
		}
		allowed[strings.TrimSuffix(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")
			switch {
			case anyOrigin:
				h.Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			if h.Get("Access-Control-Allow-Origin") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// logRequests writes one line per request once it has been served.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Infof("%s %s %d %s (%s)", r.Method, r.URL.Path, rec.status,
			time.Since(start).Round(time.Microsecond), clientAddr(r))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// clientAddr prefers the first X-Forwarded-For hop over the socket peer.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Infof("erasviz server listening on %s", addr)
	if s.config.ConfigPath != "" {
		s.log.Infof("   Config: %s", s.config.ConfigPath)
	}
	s.log.Infof("   Datasets: %v", s.engine.DatasetNames())
	s.log.Infof("   CORS Origins: %v", s.config.AllowedOrigins)
	s.log.Infof("Endpoints:")
	for _, e := range endpoints {
		s.log.Infof("   %-6s %-36s - %s", e[0], e[1], e[2])
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var endpoints = [][3]string{
	{"GET", "/health", "Health check"},
	{"GET", "/api/datasets", "Registered datasets and charts"},
	{"GET", "/api/datasets/{name}", "Loaded tracks"},
	{"GET", "/api/datasets/{name}/waveform/{id}", "Waveform and spectrum of a track"},
	{"POST", "/api/views", "Mount a chart"},
	{"GET", "/api/views/{id}", "Current scene"},
	{"GET", "/api/views/{id}/svg", "Current scene as SVG"},
	{"POST", "/api/views/{id}/scroll", "Scroll position"},
	{"POST", "/api/views/{id}/pointer", "Pointer enter/move/leave"},
	{"POST", "/api/views/{id}/click", "Toggle playback"},
	{"DELETE", "/api/views/{id}", "Unmount"},
	{"GET", "/api/playback", "Shared playback state"},
}
