package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

var (
	DefaultSkipper = func(c echo.Context) bool {
		return false
	}
)

type Skipper func(c echo.Context) bool

type Logger interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Debugw(msg string, args ...any)
	Infow(msg string, args ...any)
	Warnw(msg string, args ...any)
	Errorw(msg string, args ...any)
}

// ResponseError is the JSON error body shared by every endpoint. Products is
// always an empty list so search clients can read it unconditionally.
type ResponseError struct {
	Status   int    `json:"-"`
	Err      error  `json:"-"`
	Success  bool   `json:"success"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"error"`
	Products []any  `json:"products"`
}

func NewResponseError(status int, code, message string) *ResponseError {
	return &ResponseError{
		Status:   status,
		Code:     code,
		Message:  message,
		Products: []any{},
	}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("status: %d, code: %s; message: %s; err: %v", e.Status, e.Code, e.Message, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}
