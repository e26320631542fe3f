package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/usecase"
)

type Controller interface {
	Search(c echo.Context) error
	Chat(c echo.Context) error
	GetPreferences(c echo.Context) error
	UpdatePreferences(c echo.Context) error
	ResetPreferences(c echo.Context) error
	CacheStats(c echo.Context) error
	ClearCache(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	service     string
	search      usecase.SearchUsecase
	chat        usecase.ChatUsecase
	preferences usecase.PreferenceUsecase
}

func NewController(
	conf *config.Config,
	search usecase.SearchUsecase,
	chat usecase.ChatUsecase,
	preferences usecase.PreferenceUsecase,
) Controller {
	return &controller{
		service:     conf.Server.Service,
		search:      search,
		chat:        chat,
		preferences: preferences,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.service,
	})
}
