package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/shop-assistant/internal/server/middleware"
)

type sessionRequest struct {
	SessionID string `json:"-" header:"X-Session-ID" validate:"required,max=64"`
}

type updatePreferencesRequest struct {
	SessionID string `json:"-" header:"X-Session-ID" validate:"required,max=64"`
	models.PreferencesPatch
}

func (h *controller) GetPreferences(c echo.Context) error {
	var req sessionRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}
	prefs, err := h.preferences.Get(c.Request().Context(), req.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

func (h *controller) UpdatePreferences(c echo.Context) error {
	var req updatePreferencesRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}
	prefs, err := h.preferences.Update(c.Request().Context(), req.SessionID, req.PreferencesPatch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

func (h *controller) ResetPreferences(c echo.Context) error {
	var req sessionRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.preferences.Reset(c.Request().Context(), req.SessionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
