package observability

import (
	"reflect"
	"sync"
)

// ContextLogger is the logger components receive by injection. It carries a
// context name and forwards to a bound LoggerService.
type ContextLogger struct {
	mu      sync.RWMutex
	engine  LoggerService
	context string
}

// New creates a ContextLogger. Both name and engine may be nil.
func New(name ContextName, engine LoggerService) *ContextLogger {
	return &ContextLogger{
		engine:  engine,
		context: ResolveContextName(name),
	}
}

// SetContext replaces the stored context.
func (l *ContextLogger) SetContext(name ContextName) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.context = ResolveContextName(name)
}

// Context returns the stored context.
func (l *ContextLogger) Context() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.context
}

// InjectLogger binds engine, replacing any previous binding. A nil engine
// makes the logger silent.
func (l *ContextLogger) InjectLogger(engine LoggerService) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engine = engine
}

// Engine returns the bound service, or nil.
func (l *ContextLogger) Engine() LoggerService {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.engine
}

// Error logs payload at error severity.
//
// An error payload is rewritten into its name, message and exposed fields, and
// the trace is replaced by the error's own stack (or the caller's stack when
// the error carries none). Other payloads keep the given trace.
func (l *ContextLogger) Error(payload any, trace string, context ...string) {
	engine, ctx, ok := l.target(LevelError, context)
	if !ok {
		return
	}
	if err, isErr := payload.(error); isErr && !isNilError(err) {
		_, stack := SplitStack(err)
		if stack == "" {
			stack = captureStack(1)
		}
		engine.Error(ErrorFields(err), stack, ctx)
		return
	}
	engine.Error(payload, trace, ctx)
}

// Log logs payload at the default severity.
func (l *ContextLogger) Log(payload any, context ...string) {
	if engine, ctx, ok := l.target(LevelLog, context); ok {
		engine.Log(payload, ctx)
	}
}

// Warn logs payload at warn severity.
func (l *ContextLogger) Warn(payload any, context ...string) {
	if engine, ctx, ok := l.target(LevelWarn, context); ok {
		engine.Warn(payload, ctx)
	}
}

// Debug logs payload at debug severity.
func (l *ContextLogger) Debug(payload any, context ...string) {
	if engine, ctx, ok := l.target(LevelDebug, context); ok {
		engine.Debug(payload, ctx)
	}
}

// Verbose logs payload at verbose severity.
func (l *ContextLogger) Verbose(payload any, context ...string) {
	if engine, ctx, ok := l.target(LevelVerbose, context); ok {
		engine.Verbose(payload, ctx)
	}
}

// target returns the engine and effective context for a call, or ok=false
// when the call must be dropped.
func (l *ContextLogger) target(level Level, context []string) (LoggerService, string, bool) {
	l.mu.RLock()
	engine, ctx := l.engine, l.context
	l.mu.RUnlock()

	if engine == nil || !engine.Supports(level) {
		return nil, "", false
	}
	if len(context) > 0 && context[0] != "" {
		ctx = context[0]
	}
	return engine, ctx, true
}

func isNilError(err error) bool {
	if err == nil {
		return true
	}
	rv := reflect.ValueOf(err)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
