package pkgrouter

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

//nolint:gochecknoglobals // read-only lookup table
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"x-api-key":     {},
}

// quietRoutes log successful requests at debug.
//
//nolint:gochecknoglobals // read-only lookup table
var quietRoutes = map[string]struct{}{
	"/":       {},
	"/health": {},
}

func maskHeaders(headers http.Header) http.Header {
	masked := headers.Clone()
	for key := range masked {
		if _, ok := sensitiveHeaders[strings.ToLower(key)]; ok {
			masked.Set(key, "***")
		}
	}
	return masked
}

// responseRecorder remembers the status and size of a response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

func routeOf(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func levelFor(route string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	if _, ok := quietRoutes[route]; ok {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// middlewareLogging writes one record per request. Bodies are never logged.
func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		route := routeOf(r)

		slog.Log(r.Context(), levelFor(route, rec.status), "request served",
			slog.Group("http",
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"headers", maskHeaders(r.Header),
				"status", rec.status,
				"bytes", rec.size,
			),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}
