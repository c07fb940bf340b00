package handlers

import (
	"net/http"
	"time"

	"github.com/upb/logbridge/app"
	"github.com/upb/logbridge/utils"
)

// Version is reported by the status endpoint.
const Version = "0.1.0"

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// LoggerStatus describes the running engine.
type LoggerStatus struct {
	Level         string `json:"level"`
	Format        string `json:"format"`
	Output        string `json:"output"`
	Buffered      bool   `json:"buffered"`
	FlushInterval string `json:"flush_interval,omitempty"`
}

// StatusResponse is the body of GET /api/v1/status
type StatusResponse struct {
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
	Logger      LoggerStatus `json:"logger"`
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Version:     Version,
			Environment: deps.Config.Environment,
			Logger: LoggerStatus{
				Level:  deps.Config.Logger.Level,
				Format: deps.Config.Logger.Format,
				Output: deps.Config.Logger.Output.Path,
			},
		}
		if deps.Engine != nil && deps.Engine.Buffered() {
			resp.Logger.Buffered = true
			resp.Logger.FlushInterval = deps.Engine.FlushInterval().Round(time.Millisecond).String()
		}
		_ = utils.WriteOK(w, resp)
	}
}
