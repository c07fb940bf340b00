// Package app registers the logger with a go.uber.org/fx application.
//
// ForRoot and ForRootAsync build the engine once per application and expose it
// under EngineToken. ForFeature gives a module its own logger factory, bound to
// the root engine or to a custom LoggerService. Dependencies offers the same
// wiring for hosts that do not use fx.
package app
