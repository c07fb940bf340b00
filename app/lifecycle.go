package app

import (
	"context"
	"os"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/fx"

	"github.com/upb/logbridge/engine"
)

var signalNames = map[os.Signal]string{
	syscall.SIGHUP:  "SIGHUP",
	syscall.SIGINT:  "SIGINT",
	syscall.SIGQUIT: "SIGQUIT",
	syscall.SIGTERM: "SIGTERM",
}

func signalName(sig os.Signal) string {
	if name, ok := signalNames[sig]; ok {
		return name
	}
	return strings.ToUpper(sig.String())
}

// ShutdownSignal holds the name of the signal that stopped the application.
type ShutdownSignal struct {
	mu   sync.RWMutex
	name string
}

// NewShutdownSignal creates an empty ShutdownSignal.
func NewShutdownSignal() *ShutdownSignal {
	return &ShutdownSignal{}
}

// Record stores sig. Later calls overwrite earlier ones.
func (s *ShutdownSignal) Record(sig os.Signal) {
	if s == nil || sig == nil {
		return
	}
	s.mu.Lock()
	s.name = signalName(sig)
	s.mu.Unlock()
}

// Name returns the recorded signal name, or "" if none was recorded.
func (s *ShutdownSignal) Name() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

type shutdownParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Engine    *engine.Logger
	Signal    *ShutdownSignal
}

// registerShutdown flushes the engine when the application stops.
func registerShutdown(p shutdownParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			p.Engine.OnApplicationShutdown(p.Signal.Name())
			return p.Engine.Close()
		},
	})
}
