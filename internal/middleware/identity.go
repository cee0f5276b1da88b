package middleware

// identity.go holds the client identification helper shared by the rate
// limiter and the response cache.  Keys built from it distinguish
// authenticated users from anonymous traffic.

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// userID returns a stable identifier for the caller, or "guest" when
// the request carries no usable identity.  JWTAuth stores the numeric
// sub claim under "user_id"; when the limiter runs before JWTAuth that
// key is not set yet, so the bearer token's sub claim is read directly.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case uint64, int64, int, float64:
		return fmt.Sprint(v)
	}
	return bearerSub(c.Request().Header.Get("Authorization"))
}

// bearerSub extracts the sub claim from a bearer token without checking
// the signature.  The value only shards rate buckets; JWTAuth performs
// the real verification before any handler runs.
func bearerSub(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "guest"
	}
	tok, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(header[len(prefix):]), jwt.MapClaims{})
	if err != nil {
		return "guest"
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "guest"
	}
	switch sub := claims["sub"].(type) {
	case float64:
		return fmt.Sprint(uint64(sub))
	case string:
		if sub != "" {
			return sub
		}
	}
	return "guest"
}
