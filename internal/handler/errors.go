package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/service"
)

const msgServerError = "Server Error"

// errInvalidBody is returned when the request body cannot be decoded.
var errInvalidBody = service.BadRequest("Invalid request body")

// HTTPErrorHandler writes every error as a `{"message": ...}` body.  Service
// errors map by kind; echo's own errors keep their status; anything else is
// a 500 whose detail only goes to the log.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, echo.Map{"message": msg})
	}
	if werr != nil {
		slog.Error("write error response", "error", werr)
	}
}

func classify(err error) (int, string) {
	var se *service.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case service.KindValidation, service.KindBadRequest, service.KindConflict:
			return http.StatusBadRequest, se.Message
		case service.KindNotFound:
			return http.StatusNotFound, se.Message
		case service.KindForbidden:
			return http.StatusForbidden, se.Message
		case service.KindUnauthorized:
			return http.StatusUnauthorized, se.Message
		default:
			return http.StatusInternalServerError, msgServerError
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, msgServerError
		}
		if s, ok := he.Message.(string); ok {
			return he.Code, s
		}
		return he.Code, fmt.Sprint(he.Message)
	}
	return http.StatusInternalServerError, msgServerError
}
