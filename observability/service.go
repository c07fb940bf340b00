package observability

// LoggerService is what a ContextLogger forwards to.
//
// Supports reports whether the service handles a severity. A ContextLogger
// never calls a severity method its service does not support.
type LoggerService interface {
	Supports(level Level) bool
	Error(payload any, trace, context string)
	Log(payload any, context string)
	Warn(payload any, context string)
	Debug(payload any, context string)
	Verbose(payload any, context string)
}

// Fields is a plain structured payload. Its keys become top-level record keys.
type Fields map[string]any

// Fielder is implemented by values that expose extra plain data for a record.
type Fielder interface {
	LogFields() Fields
}
