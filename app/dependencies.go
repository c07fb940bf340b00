package app

import (
	"context"
	"fmt"

	"github.com/upb/logbridge/config"
	"github.com/upb/logbridge/engine"
	"github.com/upb/logbridge/observability"
)

// Dependencies wires the logger without fx, for plain main functions and
// scripts.
type Dependencies struct {
	Config  *config.Config
	Engine  *engine.Logger
	Loggers *observability.Factory
	Logger  *observability.ContextLogger
}

// NewDependencies builds the engine from cfg.Logger and a factory bound to it.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg}

	if err := deps.initEngine(); err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	deps.Loggers = observability.NewFactory(deps.Engine)
	deps.Logger = deps.Loggers.For(observability.TypeOf[Dependencies]())
	deps.Logger.Debug(observability.Fields{"msg": "dependencies initialized", "environment": cfg.Environment})

	return deps, nil
}

func (d *Dependencies) initEngine() error {
	l, err := engine.New(&d.Config.Logger)
	if err != nil {
		return err
	}
	d.Engine = l
	return nil
}

// Close runs the final flush for signal, when buffered, and releases the engine.
func (d *Dependencies) Close(ctx context.Context, signal string) error {
	if d.Engine == nil {
		return nil
	}
	d.Logger.Debug("shutting down dependencies")
	d.Engine.OnApplicationShutdown(signal)
	if err := d.Engine.Close(); err != nil {
		return fmt.Errorf("failed to close engine: %w", err)
	}
	return nil
}
