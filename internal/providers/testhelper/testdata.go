// Package testhelper provides utilities for provider tests: loading testdata
// fixtures and serving them from a fake GraphQL endpoint.
package testhelper

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// LoadTestdata loads a testdata file from the caller's testdata directory.
func LoadTestdata(t *testing.T, filename string) []byte {
	t.Helper()

	testdataPath := filepath.Join("testdata", filename)
	data, err := os.ReadFile(testdataPath) //nolint:gosec // Test file paths are controlled
	if err != nil {
		t.Fatalf("Failed to load testdata file %s: %v", testdataPath, err)
	}
	return data
}

// LoadJSON loads and unmarshals JSON from a testdata file.
func LoadJSON(t *testing.T, filename string, v any) {
	t.Helper()

	data := LoadTestdata(t, filename)
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON from testdata file %s: %v", filename, err)
	}
}

// LoadData loads a GraphQL response fixture and returns its "data" tree.
func LoadData(t *testing.T, filename string) map[string]any {
	t.Helper()

	var resp struct {
		Data map[string]any `json:"data"`
	}
	LoadJSON(t, filename, &resp)
	return resp.Data
}

// Request is a request captured by a GraphQLServer.
type Request struct {
	Header    http.Header
	Query     string
	Variables map[string]any
}

// GraphQLServer serves fixture bodies in order, repeating the last one.
type GraphQLServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   [][]byte
	status   int
	requests []Request
}

// NewGraphQLServer starts a server answering with the given fixture files.
func NewGraphQLServer(t *testing.T, status int, fixtures ...string) *GraphQLServer {
	t.Helper()

	s := &GraphQLServer{status: status}
	for _, f := range fixtures {
		s.bodies = append(s.bodies, LoadTestdata(t, f))
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *GraphQLServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	_ = json.Unmarshal(raw, &body)

	s.mu.Lock()
	idx := len(s.requests)
	s.requests = append(s.requests, Request{Header: r.Header.Clone(), Query: body.Query, Variables: body.Variables})
	if idx >= len(s.bodies) {
		idx = len(s.bodies) - 1
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	if idx >= 0 {
		_, _ = w.Write(s.bodies[idx])
	}
}

// Requests returns the captured requests.
func (s *GraphQLServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}
