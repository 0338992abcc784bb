package ledgertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Call is one request received by Server.
type Call struct {
	Method string
	Route  string
	Body   map[string]any
	Header http.Header
}

// Server is an httptest server that routes by path and records every
// request in arrival order. Unregistered routes answer 404.
type Server struct {
	*httptest.Server

	t        testing.TB
	mu       sync.Mutex
	calls    []Call
	handlers map[string]http.HandlerFunc
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{t: t, handlers: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers handler for route (without the leading slash).
func (s *Server) Handle(route string, handler http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[strings.Trim(route, "/")] = handler
}

// RespondJSON registers a handler that always answers status and body.
func (s *Server) RespondJSON(route string, status int, body any) {
	s.Handle(route, func(writer http.ResponseWriter, _ *http.Request) {
		WriteJSON(writer, status, body)
	})
}

// RespondTx registers a builder handler answering {"tx": encoded}.
func (s *Server) RespondTx(route string, encoded string) {
	s.RespondJSON(route, http.StatusOK, map[string]string{"tx": encoded})
}

// Calls returns a copy of the recorded requests.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Routes returns the recorded routes in arrival order.
func (s *Server) Routes() []string {
	calls := s.Calls()
	routes := make([]string, 0, len(calls))
	for _, call := range calls {
		routes = append(routes, call.Route)
	}
	return routes
}

func (s *Server) serve(writer http.ResponseWriter, request *http.Request) {
	route := strings.Trim(request.URL.Path, "/")
	call := Call{Method: request.Method, Route: route, Header: request.Header.Clone()}

	raw, err := io.ReadAll(request.Body)
	if err != nil {
		s.t.Errorf("failed to read request body: %v", err)
	}
	request.Body = io.NopCloser(bytes.NewReader(raw))
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &call.Body); err != nil {
			s.t.Errorf("request body for /%s is not a JSON object: %v", route, err)
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	handler, ok := s.handlers[route]
	s.mu.Unlock()

	if !ok {
		http.NotFound(writer, request)
		return
	}
	handler(writer, request)
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}
