package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRequest(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMetrics(t *testing.T) {
	metrics, err := util.GetHistogramVec(httpRequestsDuration, "code", "method", "path")
	require.NoError(t, err)
	metrics.Reset()

	e := echo.New()
	e.Use(Metrics())
	e.GET("/search", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/broken", func(c echo.Context) error {
		return errors.New("internal error")
	})

	for range 3 {
		makeRequest(e, http.MethodGet, "/search?q=dress")
	}
	makeRequest(e, http.MethodGet, "/broken")
	makeRequest(e, http.MethodGet, "/nothing-here-1")
	makeRequest(e, http.MethodGet, "/nothing-here-2")

	body := makeRequest(e, http.MethodGet, "/metrics").Body.String()
	assert.Contains(t, body, `request_duration_seconds_count{code="200",method="GET",path="/search"} 3`)
	assert.Contains(t, body, `request_duration_seconds_count{code="500",method="GET",path="/broken"} 1`)
	assert.Contains(t, body, `request_duration_seconds_count{code="404",method="GET",path="/not-found"} 2`)
}

func TestNormalizeHTTPStatus(t *testing.T) {
	t.Parallel()
	cases := map[int]string{101: "1xx", 204: "2xx", 301: "3xx", 405: "4xx", 503: "5xx"}
	for status, want := range cases {
		assert.Equal(t, want, normalizeHTTPStatus(status))
	}
}
