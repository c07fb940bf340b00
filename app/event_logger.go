package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/upb/logbridge/observability"
)

// EventLogger writes fx lifecycle events through a ContextLogger.
type EventLogger struct {
	logger *observability.ContextLogger
	signal *ShutdownSignal
}

var _ fxevent.Logger = (*EventLogger)(nil)

// NewEventLogger creates an EventLogger. signal may be nil.
func NewEventLogger(logger *observability.ContextLogger, signal *ShutdownSignal) *EventLogger {
	return &EventLogger{logger: logger, signal: signal}
}

type eventLoggerParams struct {
	fx.In

	Engine observability.LoggerService `name:"logger_engine" optional:"true"`
	Signal *ShutdownSignal             `optional:"true"`
}

// WithEventLogger makes fx log its own events through the root engine, under
// the "fx" context.
func WithEventLogger() fx.Option {
	return fx.WithLogger(func(p eventLoggerParams) fxevent.Logger {
		return NewEventLogger(observability.New(observability.Name("fx"), p.Engine), p.Signal)
	})
}

// LogEvent implements fxevent.Logger.
func (l *EventLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Verbose(observability.Fields{"msg": "OnStart hook executing", "callee": e.FunctionName, "caller": e.CallerName})
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "OnStart hook failed", "callee": e.FunctionName, "caller": e.CallerName, "error": e.Err.Error()}, "")
			return
		}
		l.logger.Verbose(observability.Fields{"msg": "OnStart hook executed", "callee": e.FunctionName, "runtime": e.Runtime.String()})
	case *fxevent.OnStopExecuting:
		l.logger.Verbose(observability.Fields{"msg": "OnStop hook executing", "callee": e.FunctionName, "caller": e.CallerName})
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "OnStop hook failed", "callee": e.FunctionName, "caller": e.CallerName, "error": e.Err.Error()}, "")
			return
		}
		l.logger.Verbose(observability.Fields{"msg": "OnStop hook executed", "callee": e.FunctionName, "runtime": e.Runtime.String()})
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "error encountered while applying options", "type": e.TypeName, "module": e.ModuleName, "error": e.Err.Error()}, "")
			return
		}
		l.logger.Debug(observability.Fields{"msg": "supplied", "type": e.TypeName, "module": e.ModuleName})
	case *fxevent.Provided:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "error encountered while applying options", "constructor": e.ConstructorName, "module": e.ModuleName, "error": e.Err.Error()}, "")
			return
		}
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug(observability.Fields{"msg": "provided", "constructor": e.ConstructorName, "type": rtype, "module": e.ModuleName, "private": e.Private})
		}
	case *fxevent.Invoking:
		l.logger.Debug(observability.Fields{"msg": "invoking", "function": e.FunctionName, "module": e.ModuleName})
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "invoke failed", "function": e.FunctionName, "module": e.ModuleName, "error": e.Err.Error()}, e.Trace)
		}
	case *fxevent.Stopping:
		l.signal.Record(e.Signal)
		if e.Signal != nil {
			l.logger.Log(observability.Fields{"msg": "received signal", "signal": signalName(e.Signal)})
		}
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "stop failed", "error": e.Err.Error()}, "")
		}
	case *fxevent.RollingBack:
		l.logger.Error(observability.Fields{"msg": "start failed, rolling back", "error": e.StartErr.Error()}, "")
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "rollback failed", "error": e.Err.Error()}, "")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "start failed", "error": e.Err.Error()}, "")
			return
		}
		l.logger.Log("started")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(observability.Fields{"msg": "custom logger initialization failed", "error": e.Err.Error()}, "")
			return
		}
		l.logger.Debug(observability.Fields{"msg": "initialized custom fxevent.Logger", "function": e.ConstructorName})
	}
}
