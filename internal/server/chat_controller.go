package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	pkgmdw "github.com/nguyentranbao-ct/shop-assistant/internal/server/middleware"
	"github.com/nguyentranbao-ct/shop-assistant/internal/usecase"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/ctxval"
)

func (h *controller) Chat(c echo.Context) error {
	var req usecase.ChatRequest
	if err := pkgmdw.BindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	reply, err := h.chat.Chat(ctx, req)
	if err != nil {
		return err
	}
	ctxval.Set(ctx, logKeySession, req.SessionID)
	ctxval.Set(ctx, logKeyAction, string(reply.Action))
	return c.JSON(http.StatusOK, reply)
}
