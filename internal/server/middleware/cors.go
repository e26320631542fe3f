package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type CORSConfig struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
}

var DefaultCORSConfig = CORSConfig{
	AllowOrigin:  "*",
	AllowMethods: "GET, POST, OPTIONS",
	AllowHeaders: "Content-Type",
}

// CORS applies the public, credential-less policy of the search endpoint.
func CORS() echo.MiddlewareFunc {
	return CORSWithConfig(DefaultCORSConfig)
}

// CORSWithConfig sets the CORS headers on every response and answers
// preflight requests with an empty 200.
func CORSWithConfig(config CORSConfig) echo.MiddlewareFunc {
	if config.AllowOrigin == "" {
		config.AllowOrigin = DefaultCORSConfig.AllowOrigin
	}
	if config.AllowMethods == "" {
		config.AllowMethods = DefaultCORSConfig.AllowMethods
	}
	if config.AllowHeaders == "" {
		config.AllowHeaders = DefaultCORSConfig.AllowHeaders
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, config.AllowOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, config.AllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, config.AllowHeaders)
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}
