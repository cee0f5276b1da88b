package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/venturehub/mentor-scheduling/internal/config"
)

func signedToken(t *testing.T, sub uint64) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "role": "MENTEE"})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBearerSub(t *testing.T) {
	if got := bearerSub("Bearer " + signedToken(t, 42)); got != "42" {
		t.Errorf("bearerSub = %q, want 42", got)
	}
	for _, header := range []string{"", "Basic abc", "Bearer not.a.jwt"} {
		if got := bearerSub(header); got != "guest" {
			t.Errorf("bearerSub(%q) = %q, want guest", header, got)
		}
	}
}

func TestUserIDPrefersContext(t *testing.T) {
	c := testContext("GET", "/v1/bookings", signedToken(t, 42))
	c.Set("user_id", float64(7))
	if got := userID(c); got != "7" {
		t.Errorf("userID = %q, want 7 from context", got)
	}
}

func TestBuildRateKeyPerUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	// the limiter runs before JWTAuth, so the key builder must read the
	// bearer token itself to shard buckets per caller
	a := buildRateKey(cfg, testContext("GET", "/v1/bookings", signedToken(t, 1)))
	b := buildRateKey(cfg, testContext("GET", "/v1/bookings", signedToken(t, 2)))
	if a == b {
		t.Fatalf("rate keys for different callers must differ, both %q", a)
	}
	if a != "rl:user:1" || b != "rl:user:2" {
		t.Errorf("unexpected keys %q / %q", a, b)
	}
	anon := buildRateKey(cfg, testContext("GET", "/v1/mentors", ""))
	if anon != "rl:user:guest" {
		t.Errorf("anonymous key = %q, want rl:user:guest", anon)
	}
}
