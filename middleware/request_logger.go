package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/upb/logbridge/engine"
	"github.com/upb/logbridge/observability"
)

// RequestLogger gives every request its own ContextLogger, bound to a child
// of root that carries the request id, and logs the request when it
// completes. A nil root produces silent loggers.
func RequestLogger(root *engine.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := chimiddleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = uuid.NewString()
			}

			var svc observability.LoggerService
			if root != nil {
				svc = root.Child(observability.Fields{"request_id": requestID})
			}
			logger := observability.New(observability.Name("http"), svc)

			ctx := WithRequestID(r.Context(), requestID)
			ctx = WithLogger(ctx, logger)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := observability.Fields{
				"msg":         "request completed",
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				logger.Error(fields, "")
				return
			}
			logger.Log(fields)
		})
	}
}
