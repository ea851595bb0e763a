package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/service"
)

// Authenticator resolves a raw bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (model.User, error)
}

// JWTAuth returns an Echo middleware that requires an `Authorization:
// Bearer <token>` header, resolves the token to a user and stores it in the
// request context.  Handlers read it back with CurrentUser.  Any failure
// stops the chain with a 401 `{"message": ...}` body.
func JWTAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": service.MsgNoToken})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			u, err := auth.Authenticate(c.Request().Context(), raw)
			if err != nil {
				var e *service.Error
				if errors.As(err, &e) && e.Kind == service.KindUnauthorized {
					slog.Info("bearer token rejected", "reason", e.Error(), "path", c.Path())
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": e.Message})
				}
				slog.Error("bearer token resolution failed", "error", err, "path", c.Path())
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
			}

			c.Set(userKey, u)
			c.Set(userIDKey, u.ID)
			return next(c)
		}
	}
}
