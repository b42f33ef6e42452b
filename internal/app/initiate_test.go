package app

import (
	"slices"
	"testing"
)

type arrayConfig struct {
	arrays map[string][]string
}

func (c arrayConfig) Close() error                 { return nil }
func (c arrayConfig) GetInt(string) int64          { return 0 }
func (c arrayConfig) GetBool(string) bool          { return false }
func (c arrayConfig) GetString(string) string      { return "" }
func (c arrayConfig) GetArray(key string) []string { return c.arrays[key] }

func (c arrayConfig) Has(key string) bool {
	_, ok := c.arrays[key]
	return ok
}

func TestCORSOrigins(t *testing.T) {
	got := corsOrigins(arrayConfig{})
	if !slices.Equal(got, []string{"*"}) {
		t.Fatalf("expected wildcard when unset, got %v", got)
	}

	got = corsOrigins(arrayConfig{arrays: map[string][]string{
		"server.cors.allowed_origins": {"https://a.example", "https://b.example"},
	}})
	if !slices.Equal(got, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected origins: %v", got)
	}
}
