package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *controller) CacheStats(c echo.Context) error {
	stats, err := h.search.CacheStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *controller) ClearCache(c echo.Context) error {
	if err := h.search.ClearCache(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
