package app

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/upb/logbridge/config"
	"github.com/upb/logbridge/engine"
	"github.com/upb/logbridge/observability"
)

const (
	// EngineToken names the root engine in the fx graph.
	EngineToken = "logger_engine"
	// OptionsToken names the options the root engine is built from.
	OptionsToken = "logger_options"
)

var (
	engineTag  = fmt.Sprintf(`name:"%s"`, EngineToken)
	optionsTag = fmt.Sprintf(`name:"%s"`, OptionsToken)
)

// ForRoot registers the engine built from opts, and an *observability.Factory
// bound to it for the whole application. Nil opts means defaults.
func ForRoot(opts *config.Options) fx.Option {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	return fx.Module("logger",
		fx.Provide(
			fx.Annotate(
				func() *config.Options { return opts },
				fx.ResultTags(optionsTag),
			),
		),
		coreOptions(),
	)
}

func coreOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(newEngine, fx.ParamTags(optionsTag)),
			fx.Annotate(asService, fx.ResultTags(engineTag)),
			fx.Annotate(observability.NewFactory, fx.ParamTags(engineTag)),
			NewShutdownSignal,
		),
		fx.Invoke(registerShutdown),
	)
}

func newEngine(opts *config.Options) (*engine.Logger, error) {
	l, err := engine.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine logger: %w", err)
	}
	return l, nil
}

func asService(l *engine.Logger) observability.LoggerService {
	return l
}
