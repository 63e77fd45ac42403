package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// deniedMessage is the one message every tenant or role denial renders with.
// Which internal rule fired is deliberately not revealed; the audit trail
// keeps that detail.
const deniedMessage = "access denied"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Collapses every tenant/role denial into one indistinguishable 403.
//   - Maps Echo's own errors (bind failures, 404s) to their codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Every tenant/role failure renders identically, regardless of which
	// internal rule triggered it.
	if domain.IsDenial(err) {
		log.Debug().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request denied")
		return http.StatusForbidden, deniedMessage
	}

	if errors.Is(err, domain.ErrMatterNotFound) {
		return http.StatusNotFound, "matter not found"
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
