package middleware

import (
	"errors"
	"net/http"

	"campaignAdvisor/pkg/logger"
	"campaignAdvisor/pkg/tracing"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler renders errors that escape handlers, including router 404/405s.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	traceID := tracing.TraceIDFromContext(c.Request().Context())
	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error",
			"trace_id", traceID,
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, errorResponse{Message: message, TraceID: traceID})
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}
