package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogRequest(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	e.Use(LogRequest(LogRequestConfig{
		Logger: zap.New(core).Sugar(),
		Enabled: func(c echo.Context) bool {
			return c.Path() != "/health"
		},
		KeyAndValues: func(c echo.Context) []any {
			return []any{"session_id", c.Request().Header.Get("X-Session-ID")}
		},
	}))
	e.POST("/search", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})
	e.GET("/bad", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"dress"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Session-ID", "s1")
	e.ServeHTTP(httptest.NewRecorder(), req)
	makeRequest(e, http.MethodGet, "/bad")
	makeRequest(e, http.MethodGet, "/health")

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, zapcore.InfoLevel, first.Level)
	fields := first.ContextMap()
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Equal(t, "s1", fields["session_id"])
	assert.Contains(t, fields, "request_body")
	assert.Contains(t, fields, "response_body")

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
