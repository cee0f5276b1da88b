package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/venturehub/mentor-scheduling/internal/config"
)

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		Paths:       []string{"/v1/mentors"},
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

func testContext(method, path, bearer string) echo.Context {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestSkipCachePrivateEndpoints(t *testing.T) {
	cfg := cacheCfg()
	// per-user payloads must never be cached, token or not
	for _, path := range []string{
		"/v1/bookings",
		"/v1/connections",
		"/v1/connections/pending",
		"/v1/sessions/upcoming",
		"/v1/me",
		"/v1/availability",
	} {
		if !skipCache(cfg, testContext("GET", path, "")) {
			t.Errorf("GET %s must bypass the cache", path)
		}
	}
}

func TestSkipCacheAuthorizationHeader(t *testing.T) {
	cfg := cacheCfg()
	// a token on an otherwise cacheable path still bypasses: the cache
	// key carries no caller identity, so nothing a credentialed caller
	// receives may be stored or replayed
	if !skipCache(cfg, testContext("GET", "/v1/mentors", "some.jwt.token")) {
		t.Error("credentialed request must bypass the cache")
	}
	if skipCache(cfg, testContext("GET", "/v1/mentors", "")) {
		t.Error("anonymous mentor directory request should be cacheable")
	}
}

func TestSkipCacheMethods(t *testing.T) {
	cfg := cacheCfg()
	if !skipCache(cfg, testContext("POST", "/v1/mentors", "")) {
		t.Error("non-GET must bypass the cache")
	}
}

func TestCacheablePath(t *testing.T) {
	paths := []string{"/v1/mentors"}
	cases := []struct {
		path string
		want bool
	}{
		{"/v1/mentors", true},
		{"/v1/mentors/7/availability", true},
		{"/v1/mentors/7/schedule", true},
		{"/v1/mentorship", false}, // prefix must end at a path boundary
		{"/v1/bookings", false},
		{"/healthz", false},
	}
	for _, tc := range cases {
		if got := cacheablePath(paths, tc.path); got != tc.want {
			t.Errorf("cacheablePath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestCaptureWriterTruncation(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 10}
	if _, err := cw.Write([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if cw.truncated() {
		t.Error("body at exactly the limit is complete")
	}
	if _, err := cw.Write([]byte("overflow")); err != nil {
		t.Fatal(err)
	}
	if !cw.truncated() {
		t.Error("body past the limit must be reported truncated")
	}
	if got := cw.buf.Len(); got != 10 {
		t.Errorf("buffered %d bytes, want 10", got)
	}
	// the client still receives the whole response
	if rec.Body.Len() != 18 {
		t.Errorf("client received %d bytes, want 18", rec.Body.Len())
	}
}
