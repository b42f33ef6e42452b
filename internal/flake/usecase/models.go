package usecase

import "github.com/shandysiswandi/flaken/internal/pkg/pkguid"

// DefaultMaxBatch caps the ids issued by one request. New lowers it further
// when the layout has fewer sequence values per millisecond.
const DefaultMaxBatch = 4096

// Settings is the deployment layout shared by every node of this process.
type Settings struct {
	Epoch          uint64
	TimestampBits  uint64
	IdentifierBits uint64
	MaxBatch       int
}

// DefaultSettings mirrors the library defaults.
func DefaultSettings() Settings {
	return Settings{
		Epoch:          pkguid.DefaultEpoch,
		TimestampBits:  pkguid.DefaultTimestampBits,
		IdentifierBits: pkguid.DefaultIdentifierBits,
		MaxBatch:       DefaultMaxBatch,
	}
}

type IssueResult struct {
	Identifier uint64
	IDs        []uint64
}

type BatchResult struct {
	Results []IssueResult
}
