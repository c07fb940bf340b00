package observability

// Factory hands out a fresh ContextLogger to each consumer, pre-bound to one
// engine.
type Factory struct {
	engine LoggerService
}

// NewFactory returns a Factory for engine. A nil engine yields silent loggers.
func NewFactory(engine LoggerService) *Factory {
	return &Factory{engine: engine}
}

// For returns a new ContextLogger tagged with name.
func (f *Factory) For(name ContextName) *ContextLogger {
	if f == nil {
		return New(name, nil)
	}
	return New(name, f.engine)
}

// Engine returns the engine new loggers are bound to.
func (f *Factory) Engine() LoggerService {
	if f == nil {
		return nil
	}
	return f.engine
}
