package httpapp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/metastable-void/alarkhabil-server/internal/auth"
	"github.com/metastable-void/alarkhabil-server/internal/config"
	"github.com/metastable-void/alarkhabil-server/internal/secret"
	"github.com/metastable-void/alarkhabil-server/internal/store/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dsnName := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dsnName))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	authSvc := auth.NewService(st, secret.New("test root"))
	return NewServer(st, authSvc, config.Config{})
}

func TestRootGreeting(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "Hello, world! 0 authors\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestRootRejectsPost(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/nope", "/api/v1/nope", "/api/v1/author/nope", "/api/v1/admin/nope/nope"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		server.ServeHTTP(resp, req)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, resp.Code)
		}
		var payload map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s: error body is not JSON: %v", path, err)
		}
		if payload["status"] != "error" {
			t.Fatalf("%s: expected error status, got %v", path, payload["status"])
		}
	}
}

func TestMethodMismatchIs405(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/author/list"},
		{http.MethodGet, "/api/v1/account/new"},
		{http.MethodPost, "/api/v1/invite/new"},
		{http.MethodGet, "/api/v1/admin/post/delete"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		server.ServeHTTP(resp, req)
		if resp.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestSignedEndpointRejectsGarbage(t *testing.T) {
	server := newTestServer(t)

	// Not a signed envelope at all.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/channel/new", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "go_goroutines") {
		t.Fatalf("expected prometheus output")
	}
}

func TestSplitPath(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"/", 0},
		{"", 0},
		{"/author/list", 2},
		{"/author/list/", 2},
		{"/admin/meta/update", 3},
	}
	for _, tc := range cases {
		if got := splitPath(tc.in); len(got) != tc.want {
			t.Fatalf("splitPath(%q) = %v, want %d segments", tc.in, got, tc.want)
		}
	}
}

type flushSpy struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushSpy) Flush() { f.flushed = true }

func TestStatusRecorderForwardsFlush(t *testing.T) {
	spy := &flushSpy{ResponseWriter: httptest.NewRecorder()}
	rec := &statusRecorder{ResponseWriter: spy, status: http.StatusOK}

	var w http.ResponseWriter = rec
	f, ok := w.(http.Flusher)
	if !ok {
		t.Fatalf("statusRecorder does not implement http.Flusher")
	}
	f.Flush()
	if !spy.flushed {
		t.Fatalf("Flush not forwarded to the wrapped writer")
	}
}

func TestPathLabelBoundsCardinality(t *testing.T) {
	if got := pathLabel("/api/v1/post/info"); got != "/api/v1/post/info" {
		t.Fatalf("known path mangled: %q", got)
	}
	if got := pathLabel("/swagger/index.html"); got != "/swagger/" {
		t.Fatalf("swagger not collapsed: %q", got)
	}
	if got := pathLabel("/some/random/junk"); got != "other" {
		t.Fatalf("unknown path not collapsed: %q", got)
	}
}
