package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"google.golang.org/grpc/codes"
)

// ErrorHandler renders every error as a ResponseError.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := toResponseError(err, c)
		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.Message = "no route matched"
		}
		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "status", resp.Status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}

func toResponseError(err error, c echo.Context) *ResponseError {
	var re *ResponseError
	if errors.As(err, &re) {
		if re.Products == nil {
			re.Products = []any{}
		}
		return re
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp := NewResponseError(he.Code, "", fmt.Sprint(he.Message))
		resp.Err = err
		return resp
	}

	if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
		resp := NewResponseError(499, codes.Canceled.String(), "request canceled")
		resp.Err = err
		return resp
	}

	code := models.Code(err)
	status := HTTPStatus(code)
	message := models.Message(err)
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	resp := NewResponseError(status, code.String(), message)
	resp.Err = err
	return resp
}

// HTTPStatus maps a grpc code carried by domain errors to an HTTP status.
func HTTPStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}
