package store

import (
	"log/slog"

	"github.com/aussiebroadwan/console/internal/console/lifecycle"
)

// LoggingMiddleware logs every intent at debug level. Operation arguments
// and payloads are left out of the record; they carry passwords and
// tokens.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next lifecycle.DispatchFunc) lifecycle.DispatchFunc {
		return func(in lifecycle.Intent) {
			if n, ok := in.(lifecycle.Notification); ok {
				attrs := []any{
					"op", n.Op,
					"phase", n.Phase.String(),
					"req_id", n.RequestID.String(),
				}
				if n.Err != nil {
					attrs = append(attrs, "error", n.Err.Message, "code", n.Err.Code)
				}
				logger.Debug("lifecycle", attrs...)
			} else {
				logger.Debug("intent", "type", in.Type())
			}
			next(in)
		}
	}
}
