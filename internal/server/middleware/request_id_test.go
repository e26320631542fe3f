package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	handler := func(c echo.Context) error {
		reqID := GetRequestIDFromEchoContext(c)
		if reqID == "" {
			return echo.NewHTTPError(http.StatusInternalServerError, "request ID not found in context")
		}
		if log.RequestID(c.Request().Context()) != reqID {
			return echo.NewHTTPError(http.StatusInternalServerError, "request ID not propagated to logger context")
		}
		return c.String(http.StatusOK, reqID)
	}

	t.Run("keeps incoming id", func(t *testing.T) {
		t.Parallel()
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(XCorrelationID, "custom-request-id")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, RequestID()(handler)(c))
		assert.Equal(t, "custom-request-id", c.Get(XRequestID))
		assert.Equal(t, "custom-request-id", rec.Body.String())
		assert.Equal(t, "custom-request-id", rec.Header().Get(XRequestID))
	})

	t.Run("generates uuid", func(t *testing.T) {
		t.Parallel()
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, RequestID()(handler)(c))
		_, err := uuid.Parse(rec.Header().Get(XRequestID))
		assert.NoError(t, err)
		assert.Equal(t, rec.Header().Get(XRequestID), rec.Body.String())
	})
}
