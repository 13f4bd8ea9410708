package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds a gin engine with routes registered but no middleware.
func newTestRouter(t *testing.T, deps *RouterDeps) *gin.Engine {
	t.Helper()

	if deps.Log == nil {
		deps.Log = quietLogger()
	}

	r := gin.New()
	registerRoutes(context.Background(), r.Group("/api"), deps)
	return r
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidatePathID(t *testing.T) {
	if err := validatePathID("abc"); err != nil {
		t.Errorf("expected valid id, got %v", err)
	}
	if err := validatePathID(""); err == nil {
		t.Error("expected error for empty id")
	}
	if err := validatePathID(strings.Repeat("x", 256)); err == nil {
		t.Error("expected error for oversized id")
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in       string
		fallback int
		want     int
	}{
		{"10", 50, 10},
		{"abc", 50, 50},
		{"-1", 50, 50},
		{"9999", 50, maxPaginationLimit},
	}

	for _, tc := range tests {
		if got := parseInt(tc.in, tc.fallback); got != tc.want {
			t.Errorf("parseInt(%q, %d) = %d, want %d", tc.in, tc.fallback, got, tc.want)
		}
	}
}

func TestParseOffset(t *testing.T) {
	if got := parseOffset("-5"); got != 0 {
		t.Errorf("parseOffset(-5) = %d, want 0", got)
	}
	if got := parseOffset("200000"); got != maxPaginationOffset {
		t.Errorf("parseOffset(200000) = %d, want %d", got, maxPaginationOffset)
	}
}
