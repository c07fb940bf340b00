package app

import (
	"go.uber.org/fx"

	"github.com/upb/logbridge/observability"
)

// FeatureOptions configures ForFeature.
type FeatureOptions struct {
	// Name is the fx module name. Defaults to "logger-feature".
	Name string
	// Logger replaces the root engine for loggers created in this feature.
	Logger observability.LoggerService
}

type featureParams struct {
	fx.In

	Engine observability.LoggerService `name:"logger_engine" optional:"true"`
}

// ForFeature returns a module that privately provides an
// *observability.Factory to the scoped options. Without a root engine or a
// custom Logger, the factory hands out silent loggers.
func ForFeature(opts FeatureOptions, scoped ...fx.Option) fx.Option {
	name := opts.Name
	if name == "" {
		name = "logger-feature"
	}
	provide := func(p featureParams) *observability.Factory {
		if opts.Logger != nil {
			return observability.NewFactory(opts.Logger)
		}
		return observability.NewFactory(p.Engine)
	}
	return fx.Module(name, append([]fx.Option{fx.Provide(provide, fx.Private)}, scoped...)...)
}
