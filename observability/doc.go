// Package observability provides the context-tagged logger that application
// components receive by injection.
//
// A ContextLogger never writes anything itself. It resolves the effective
// context, rewrites error payloads into structured fields and forwards the
// call to whatever LoggerService is bound to it. When nothing is bound, or the
// bound service does not handle a severity, calls are silently dropped.
package observability
