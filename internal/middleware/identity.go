package middleware

// identity.go holds the context keys set by JWTAuth and the helpers that read
// them back.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// CurrentUser returns the user resolved by JWTAuth.  ok is false on routes
// that are not behind the gate.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok && u.ID != ""
}

// userID returns the authenticated user id, or "anon".
func userID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}
