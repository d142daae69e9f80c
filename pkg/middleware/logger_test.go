package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedEcho(buf *bytes.Buffer, opts ...LoggerOpts) *echo.Echo {
	l := slog.New(slog.NewJSONHandler(buf, nil))
	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(Logger(append([]LoggerOpts{WithLogger(l)}, opts...)...))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/fail", func(c echo.Context) error { return errors.New("boom") })
	return e
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "REQUEST", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ok", entry["uri"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "REQUEST_ERROR", entry["msg"])
	assert.Equal(t, "boom", entry["err"])
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogger_Skipper(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf, WithSkipper(func(c echo.Context) bool { return c.Path() == "/ok" }))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Zero(t, buf.Len())
}
