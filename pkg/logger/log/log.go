// Package log exposes context aware helpers on top of the root logger.
// Every entry carries the request id found in the context, if any.
package log

import (
	"context"
	"os"

	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger"
	"go.uber.org/zap"
)

type ctxKey string

const requestIDKey ctxKey = "x-request-id"

// WithRequestID returns a copy of ctx whose log entries carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func sugar(ctx context.Context) *zap.SugaredLogger {
	l := logger.Root().WithOptions(zap.AddCallerSkip(1)).Sugar()
	if id := RequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}

func Logw(ctx context.Context, level logger.Level, msg string, kv ...any) {
	sugar(ctx).Logw(level, msg, kv...)
}

func Debugw(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Debugw(msg, kv...)
}

func Infow(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Infow(msg, kv...)
}

func Warnw(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Warnw(msg, kv...)
}

func Errorw(ctx context.Context, msg string, kv ...any) {
	sugar(ctx).Errorw(msg, kv...)
}

func Infof(ctx context.Context, template string, args ...any) {
	sugar(ctx).Infof(template, args...)
}

func Warnf(ctx context.Context, template string, args ...any) {
	sugar(ctx).Warnf(template, args...)
}

func Errorf(ctx context.Context, template string, args ...any) {
	sugar(ctx).Errorf(template, args...)
}

// Fatal logs without a context and exits.
func Fatal(args ...any) {
	logger.Root().Sugar().Error(args...)
	_ = logger.Root().Sync()
	os.Exit(1)
}
