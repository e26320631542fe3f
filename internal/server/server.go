package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/shop-assistant/internal/server/middleware"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/ctxval"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"go.uber.org/fx"
)

type logKey string

const (
	logKeySource  logKey = "source"
	logKeyCached  logKey = "cached"
	logKeySession logKey = "session_id"
	logKeyAction  logKey = "action"
)

// NewEcho builds the router with every route and middleware but does not
// listen.
func NewEcho(conf *config.Config, handler Controller) (*echo.Echo, error) {
	httpLog := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: httpLog,
		Enabled: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path != "/health" && path != "/metrics"
		},
		KeyAndValues: func(c echo.Context) []any {
			args := make([]any, 0, 8)
			ctxval.Range(c.Request().Context(), func(k, v any) bool {
				if key, ok := k.(logKey); ok {
					args = append(args, string(key), v)
				}
				return true
			})
			return args
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))
	if conf.Server.StatsDAddr != "" {
		profiler, err := pkgmdw.ProfilerWithConfig(pkgmdw.ProfilerConfig{
			Log:     httpLog,
			Address: conf.Server.StatsDAddr,
			Service: conf.Server.Service,
		})
		if err != nil {
			return nil, err
		}
		e.Use(profiler)
	}
	if conf.Server.EnablePprof {
		pkgmdw.PprofWrap(e, "")
	}

	e.GET("/health", handler.Health)

	searchCORS := pkgmdw.CORS()
	e.Any("/search", handler.Search, searchCORS)

	api := e.Group("/api/v1", pkgmdw.CORSWithConfig(pkgmdw.CORSConfig{
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, X-Session-ID",
	}))
	api.Any("/search", handler.Search, searchCORS)
	api.POST("/chat", handler.Chat)
	api.GET("/preferences", handler.GetPreferences)
	api.PATCH("/preferences", handler.UpdatePreferences)
	api.DELETE("/preferences", handler.ResetPreferences)
	api.GET("/cache/stats", handler.CacheStats)
	api.DELETE("/cache", handler.ClearCache)

	return e, nil
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
) error {
	e, err := NewEcho(conf, handler)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}
