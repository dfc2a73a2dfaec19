// Package server exposes the vehicle history service over HTTP: the
// persistence API the feed consumes, plus a rendered-timeline endpoint built
// on the timeline engine.
package server

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tbraack/garagelog/internal/timeline"
	"github.com/tbraack/garagelog/internal/vehicle"
)

// Server handles HTTP requests for vehicle history
type Server struct {
	service   *vehicle.Service
	registry  *timeline.Registry
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// New creates a new Server with default mux
func New(service *vehicle.Service, basicAuth BasicAuth) *Server {
	return NewWithMux(service, basicAuth, http.NewServeMux())
}

// NewWithMux creates a new Server with a custom mux for testing
func NewWithMux(service *vehicle.Service, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		registry:  timeline.NewRegistry(),
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers and answers preflight requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="garagelog"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux.
// Routes must be registered from most specific to least specific.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/vehicles/{id}/images/{imageID}/file", s.requireAuth(s.handleGetImageFile))
	s.mux.HandleFunc("GET /api/vehicles/{id}/images", s.requireAuth(s.handleListImages))
	s.mux.HandleFunc("PATCH /api/vehicles/{id}/images", s.requireAuth(s.handlePatchImage))

	s.mux.HandleFunc("POST /api/vehicles/{id}/photos/process", s.requireAuth(s.handleProcessPhoto))
	s.mux.HandleFunc("POST /api/vehicles/{id}/photos", s.requireAuth(s.handleUploadPhoto))

	s.mux.HandleFunc("DELETE /api/vehicles/{id}/timeline/{eventID}", s.requireAuth(s.handleDeleteEvent))
	s.mux.HandleFunc("GET /api/vehicles/{id}/timeline", s.requireAuth(s.handleTimeline))
	s.mux.HandleFunc("GET /api/vehicles/{id}/events", s.requireAuth(s.handleListEvents))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
