package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/upb/logbridge/app"
	"github.com/upb/logbridge/middleware"
	"github.com/upb/logbridge/observability"
	"github.com/upb/logbridge/utils"
)

const maxRelayBody = 1 << 20

// RelayLogRequest is the body of POST /api/v1/logs. Payload may be any JSON
// value: strings become the message, objects are merged into the record.
type RelayLogRequest struct {
	Level   string          `json:"level" validate:"required,oneof=error log info warn debug verbose"`
	Context string          `json:"context"`
	Trace   string          `json:"trace"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// RelayLogHandler writes the posted record through the request logger.
func RelayLogHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RelayLogRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRelayBody)).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(&req); err != nil {
			_ = utils.WriteBadRequest(w, "validation failed", utils.GetValidationFields(err))
			return
		}

		var payload any
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			_ = utils.WriteBadRequest(w, "invalid payload", nil)
			return
		}
		level, err := observability.ParseLevel(req.Level)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		relay(middleware.LoggerFromContext(r.Context()), level, payload, req.Trace, req.Context)
		_ = utils.WriteAccepted(w, "logged")
	}
}

func relay(logger *observability.ContextLogger, level observability.Level, payload any, trace, context string) {
	switch level {
	case observability.LevelError:
		logger.Error(payload, trace, context)
	case observability.LevelWarn:
		logger.Warn(payload, context)
	case observability.LevelDebug:
		logger.Debug(payload, context)
	case observability.LevelVerbose:
		logger.Verbose(payload, context)
	default:
		logger.Log(payload, context)
	}
}
