// Package apitest provides a fake cluster dashboard for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rileyhilliard/raytop/internal/nodes"
)

// Server is a fake dashboard serving GET /nodes?view=summary.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	nodes       []nodes.RawNode
	msg         string
	status      int
	rawBody     string
	omitSummary bool

	// Requests counts node list requests served.
	requests int
}

// NewServer starts a fake dashboard. Callers must Close it.
func NewServer() *Server {
	s := &Server{msg: "Node summary fetched."}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))
	r.Get("/nodes", s.handleNodes)

	s.Server = httptest.NewServer(r)
	return s
}

// SetNodes replaces the node summary served.
func (s *Server) SetNodes(list ...nodes.RawNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = list
}

// SetMessage sets the response's msg field.
func (s *Server) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
}

// FailWith makes every request answer with status and a JSON error body.
// Zero restores normal responses.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetRawBody makes the server answer 200 with body verbatim. Empty restores
// normal responses.
func (s *Server) SetRawBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBody = body
}

// OmitSummary drops data.summary from responses.
func (s *Server) OmitSummary(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitSummary = omit
}

// Requests returns how many node list requests were served.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	status, msg, rawBody, omit := s.status, s.msg, s.rawBody, s.omitSummary
	list := append([]nodes.RawNode(nil), s.nodes...)
	s.mu.Unlock()

	if r.URL.Query().Get("view") != "summary" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"result": false, "msg": "unsupported view"})
		return
	}
	if status != 0 {
		writeJSON(w, status, map[string]any{"result": false, "msg": http.StatusText(status)})
		return
	}
	if rawBody != "" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(rawBody))
		return
	}

	data := map[string]any{}
	if !omit {
		if list == nil {
			list = []nodes.RawNode{}
		}
		data["summary"] = list
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": true, "msg": msg, "data": data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
