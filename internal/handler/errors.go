package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/repository"
)

// Messages shared by several handlers.
const (
	MsgInternal    = "Internal Server Error"
	MsgUnavailable = "Service temporarily unavailable, please try again"
	MsgInvalidBody = "Invalid request body"
)

// errorBody is the envelope every failed request is answered with.
type errorBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ErrorHandler is installed as echo's HTTPErrorHandler.  It is the only
// place an error is turned into a response: *echo.HTTPError keeps its code
// and message, anything else becomes a logged 500 with a generic message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := http.StatusInternalServerError, MsgInternal
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
		if he.Internal != nil {
			slog.Error("request failed", "method", c.Request().Method, "path", c.Request().URL.Path,
				"status", code, "err", he.Internal)
		}
	} else {
		slog.Error("unhandled error", "method", c.Request().Method, "path", c.Request().URL.Path, "err", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, errorBody{Success: false, StatusCode: code, Message: msg})
	}
	if werr != nil {
		slog.Error("write error response", "err", werr)
	}
}

// storeError maps a store failure to an HTTP error.  notFound is used for
// repository.ErrNotFound; failure is the generic message for anything else.
func storeError(err error, notFound, failure string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, MsgUnavailable).SetInternal(err)
	case errors.Is(err, repository.ErrNotFound) && notFound != "":
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, failure).SetInternal(err)
	}
}
