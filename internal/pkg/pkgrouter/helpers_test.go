package pkgrouter

import (
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeCID(t *testing.T) {
	if got := normalizeCID("  abc  "); got != "abc" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := normalizeCID("a\nb"); got != "" {
		t.Fatalf("expected empty for embedded newline, got %q", got)
	}
	long := strings.Repeat("a", 200)
	if got := normalizeCID(long); len(got) != 128 {
		t.Fatalf("expected length 128, got %d", len(got))
	}
}

func TestNormalizeCIDKeepsRunesWhole(t *testing.T) {
	// 127 ASCII bytes followed by a 3-byte rune straddles the limit
	v := strings.Repeat("a", 127) + "€€"

	got := normalizeCID(v)
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8, got %q", got)
	}
	if got != strings.Repeat("a", 127) {
		t.Fatalf("expected cut before the straddling rune, got %d bytes", len(got))
	}

	if got := normalizeCID(strings.Repeat("€", 60)); got != strings.Repeat("€", 42) {
		t.Fatalf("expected 42 whole runes, got %q", got)
	}

	if got := normalizeCID("cid-\xff"); got != "" {
		t.Fatalf("expected invalid UTF-8 to be rejected, got %q", got)
	}
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "secret")
	headers.Set("X-Trace", "ok")

	masked := maskHeaders(headers)
	if got := masked.Get("Authorization"); got != "***" {
		t.Fatalf("expected masked authorization, got %q", got)
	}
	if got := masked.Get("X-Trace"); got != "ok" {
		t.Fatalf("expected X-Trace to stay, got %q", got)
	}
	if got := headers.Get("Authorization"); got != "secret" {
		t.Fatalf("expected original headers unchanged, got %q", got)
	}
}

func TestInternalFrames(t *testing.T) {
	stack := []byte("goroutine 1 [running]:\n" +
		"main.handler()\n" +
		"\t/src/flaken/internal/flake/inbound/http_endpoint.go:42 +0x1d\n" +
		"net/http.HandlerFunc.ServeHTTP()\n" +
		"\t/usr/local/go/src/net/http/server.go:2136 +0x29\n")

	frames := internalFrames(stack)
	if len(frames) != 1 || frames[0] != "internal/flake/inbound/http_endpoint.go:42" {
		t.Fatalf("unexpected frames: %#v", frames)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		route  string
		status int
		want   slog.Level
	}{
		{"/health", http.StatusOK, slog.LevelDebug},
		{"/ids/:id", http.StatusOK, slog.LevelInfo},
		{"/ids/:id", http.StatusBadRequest, slog.LevelWarn},
		{"/health", http.StatusServiceUnavailable, slog.LevelError},
	}

	for _, tt := range tests {
		if got := levelFor(tt.route, tt.status); got != tt.want {
			t.Fatalf("levelFor(%q, %d) = %v, want %v", tt.route, tt.status, got, tt.want)
		}
	}
}
