// Package logger builds named zap loggers configured from the LOG_ environment.
package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Config struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type Logger struct {
	*zap.SugaredLogger
}

var (
	mu   sync.RWMutex
	root *zap.Logger
)

// Root returns the process wide base logger, building it on first use.
func Root() *zap.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		built, err := build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: fallback to production config: %v\n", err)
			built = zap.Must(zap.NewProduction())
		}
		root = built
	}
	return root
}

// SetRoot swaps the base logger, mostly for tests and CLI commands.
func SetRoot(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	root = l
}

func build() (*zap.Logger, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "LOG_"}); err != nil {
		return nil, fmt.Errorf("parse log config: %w", err)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func Named(name string) (*Logger, error) {
	if name == "" {
		return nil, fmt.Errorf("logger name is required")
	}
	return &Logger{SugaredLogger: Root().Named(name).Sugar()}, nil
}

func MustNamed(name string) *Logger {
	l, err := Named(name)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Logger) Unwrap() *zap.SugaredLogger {
	return l.SugaredLogger
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// Reflect wraps v so that it is encoded with reflection instead of fmt.
func (l *Logger) Reflect(key string, v any) zap.Field {
	return zap.Reflect(key, v)
}
