package app

import (
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/kafka"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/extractor"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/fetcher"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/stores"
	"github.com/nguyentranbao-ct/shop-assistant/internal/server"
	"github.com/nguyentranbao-ct/shop-assistant/internal/usecase"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

// Options wires the whole dependency graph. Constructors only run when an
// invoked function needs them, so the CLI never dials mongo or kafka.
func Options(conf *config.Config) fx.Option {
	log := logger.MustNamed("app")
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Supply(conf),
		fx.Provide(
			stores.NewRegistry,
			fetcher.NewFetcher,
			extractor.NewExtractor,
			usecase.NewStoreSearcher,
			usecase.NewOrchestrator,

			newAlternateSource,
			newCacheStore,
			newResultCache,
			kafka.NewPublisher,
			newEventPublisher,
			newPreferenceRepository,
			newLLMService,
			newIntentClassifier,
			newStyleAdvisor,

			usecase.NewSearchUsecase,
			usecase.NewPreferenceUsecase,
			usecase.NewChatUsecase,

			server.NewController,
		),
	)
}

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		Options(conf),
		fx.Invoke(funcs...),
	)
}
