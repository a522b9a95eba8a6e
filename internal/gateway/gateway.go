// Package gateway exposes configured clients over a small HTTP API.
package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/meter"
	"github.com/ineyio/textgen/transport"
)

// maxBodyBytes bounds the generate request body.
const maxBodyBytes = 1 << 20

// Server routes HTTP requests to named clients.
type Server struct {
	clients map[string]textgen.Client
	names   []string
	logger  *slog.Logger
	health  *meter.HealthMeter
}

// New creates a server over clients. A nil logger uses slog.Default().
func New(clients map[string]textgen.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	slices.Sort(names)
	return &Server{clients: clients, names: names, logger: logger}
}

// WithHealth reports vendor health from h in the client listing. h must also
// be installed as a meter on the clients to see any results.
func (s *Server) WithHealth(h *meter.HealthMeter) *Server {
	s.health = h
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/clients", func(r chi.Router) {
		r.Get("/", s.listClients)
		r.Get("/{name}/models", s.listModels)
		r.Post("/{name}/generate", s.generate)
	})
	return r
}

type clientInfo struct {
	Name         string             `json:"name"`
	Type         textgen.ClientType `json:"type"`
	DefaultModel string             `json:"defaultModel,omitempty"`
	Health       string             `json:"health,omitempty"`
}

func (s *Server) listClients(w http.ResponseWriter, _ *http.Request) {
	out := make([]clientInfo, 0, len(s.names))
	for _, name := range s.names {
		c := s.clients[name]
		info := clientInfo{Name: name, Type: c.Type(), DefaultModel: c.Core().DefaultModel}
		if s.health != nil {
			info.Health = s.health.Health(c.Type()).String()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	c, ok := s.client(w, r)
	if !ok {
		return
	}
	models, err := c.Models(transport.WithRequestID(r.Context(), middleware.GetReqID(r.Context())))
	if err != nil {
		s.writeClientError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.client(w, r)
	if !ok {
		return
	}

	var req textgen.GenerateTextRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := c.GenerateText(transport.WithRequestID(r.Context(), middleware.GetReqID(r.Context())), req)
	if err != nil {
		s.writeClientError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) client(w http.ResponseWriter, r *http.Request) (textgen.Client, bool) {
	name := chi.URLParam(r, "name")
	c, ok := s.clients[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown client "+name)
	}
	return c, ok
}

func (s *Server) writeClientError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "client call failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeError(w, status, err.Error())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.InfoContext(r.Context(), "http",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
