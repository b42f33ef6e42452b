package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/flaken/internal/pkg/pkglog"
)

type staticGenerator struct {
	value string
	calls int
}

func (g *staticGenerator) Generate() string {
	g.calls++
	return g.value
}

func TestMiddlewareCorrelationID(t *testing.T) {
	tests := []struct {
		name      string
		headers   map[string]string
		want      string
		wantCalls int
	}{
		{"correlation header wins", map[string]string{HeaderCorrelationID: "header-cid", HeaderRequestID: "req"}, "header-cid", 0},
		{"request id fallback", map[string]string{HeaderRequestID: "req-cid"}, "req-cid", 0},
		{"generated when missing", nil, "generated", 1},
		{"generated when unsafe", map[string]string{HeaderCorrelationID: "bad\tcid"}, "generated", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &staticGenerator{value: "generated"}

			var gotCID string
			h := middlewareCorrelationID(gen)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCID, _ = pkglog.CorrelationID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/ids/1", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get(HeaderCorrelationID); got != tt.want {
				t.Fatalf("expected response header %q, got %q", tt.want, got)
			}
			if gotCID != tt.want {
				t.Fatalf("expected context cid %q, got %q", tt.want, gotCID)
			}
			if gen.calls != tt.wantCalls {
				t.Fatalf("expected %d generator calls, got %d", tt.wantCalls, gen.calls)
			}
		})
	}
}

func TestMiddlewareCorrelationIDWithoutGenerator(t *testing.T) {
	var ok bool
	h := middlewareCorrelationID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = pkglog.CorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ids/1", nil))

	if ok || rec.Header().Get(HeaderCorrelationID) != "" {
		t.Fatalf("expected no correlation id without a generator")
	}
}
