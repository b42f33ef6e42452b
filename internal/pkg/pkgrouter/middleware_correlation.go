package pkgrouter

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shandysiswandi/flaken/internal/pkg/pkglog"
	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

const (
	// HeaderCorrelationID carries the correlation id in both directions.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is read when HeaderCorrelationID is absent; some proxies set only this one.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// normalizeCID trims v and rejects values that are unsafe to echo back in a
// header or write to a log line.
func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if !utf8.ValidString(v) || strings.IndexFunc(v, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
		return ""
	}
	if len(v) <= maxCorrelationIDLen {
		return v
	}

	// cut before the rune that would cross the limit
	n := maxCorrelationIDLen
	for n > 0 && !utf8.RuneStart(v[n]) {
		n--
	}
	return v[:n]
}

func middlewareCorrelationID(ids pkguid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := normalizeCID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = normalizeCID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && ids != nil {
				cid = ids.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.WithCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
