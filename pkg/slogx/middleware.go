package slogx

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport wraps an http.RoundTripper and logs every outgoing request with
// its status and duration. The logger is taken from the request context when
// present so lines carry the req_id of the operation that issued them.
func Transport(base *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{base: base, next: next}
}

type loggingTransport struct {
	base *slog.Logger
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	logger := t.base
	if l, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok {
		logger = l
	}
	logger = logger.With("method", r.Method, "path", r.URL.Path)

	resp, err := t.next.RoundTrip(r)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		logger.Warn("http_request_failed", "duration_ms", duration, "error", err)
		return nil, err
	}

	logger.Debug("http_request",
		"status", resp.StatusCode,
		"duration_ms", duration,
	)
	return resp, nil
}
