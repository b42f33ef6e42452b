package pkgconfig

import "io"

// Config is a read-only view over application configuration.
type Config interface {
	io.Closer

	// Has reports whether key was set in the file or the environment.
	Has(key string) bool

	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	// GetArray splits a comma-separated value.
	GetArray(key string) []string
}
