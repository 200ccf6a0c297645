package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campaignAdvisor/pkg/tracing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(TraceID())
	e.GET("/trace", func(c echo.Context) error {
		return c.String(http.StatusOK, tracing.TraceIDFromContext(c.Request().Context()))
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})
	return e
}

func TestTraceIDReusesHeader(t *testing.T) {
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set(tracing.HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(tracing.HeaderRequestID))
}

func TestTraceIDGenerates(t *testing.T) {
	e := newTestEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trace", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, rec.Body.String(), rec.Header().Get(tracing.HeaderRequestID))
}

func TestErrorHandler(t *testing.T) {
	e := newTestEcho()

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"message":"Not Found"`)
	})

	t.Run("plain error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		req.Header.Set(tracing.HeaderRequestID, "req-9")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"trace_id":"req-9"`)
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(RateLimit(1, 1))
	e.GET("/api", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	get := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, get("/api"))
	assert.Equal(t, http.StatusTooManyRequests, get("/api"))
	assert.Equal(t, http.StatusNoContent, get("/healthz"), "ops routes are not limited")
}

func TestRateLimitDisabled(t *testing.T) {
	e := echo.New()
	e.Use(RateLimit(0, 0))
	e.GET("/api", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}
