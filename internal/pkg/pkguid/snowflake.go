package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrIdentifierRange reports an identifier that does not fit the identifier field.
var ErrIdentifierRange = errors.New("identifier does not fit the identifier bits")

// SnowflakeConfig configures a Snowflake.
type SnowflakeConfig struct {
	Epoch          uint64
	TimestampBits  uint64
	IdentifierBits uint64
	// Identifier below zero picks a random identifier within IdentifierBits.
	Identifier int64
	Clock      Clock
}

// DefaultSnowflakeConfig uses the library defaults and identifier 0.
func DefaultSnowflakeConfig() SnowflakeConfig {
	return SnowflakeConfig{
		Epoch:          DefaultEpoch,
		TimestampBits:  DefaultTimestampBits,
		IdentifierBits: DefaultIdentifierBits,
	}
}

// Parts is a decoded flake id.
type Parts struct {
	Timestamp  uint64
	Identifier uint64
	Sequence   uint64
}

// Time returns the timestamp as a UTC time.
func (p Parts) Time() time.Time {
	return time.UnixMilli(int64(p.Timestamp)).UTC()
}

// Snowflake generates numeric IDs from a Generator, serializing calls so it
// can be shared between goroutines.
type Snowflake struct {
	mu  sync.Mutex
	gen *Generator
}

func generateRandomNodeID(bits uint64) (uint64, error) {
	var nodeID uint64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return nodeID & ^clearLow(bits), nil
}

// NewSnowflake validates cfg and constructs a Snowflake. Unlike Generator it
// reports invalid configuration as an error.
func NewSnowflake(cfg SnowflakeConfig) (*Snowflake, error) {
	layout, err := NewLayout(cfg.TimestampBits, cfg.IdentifierBits)
	if err != nil {
		return nil, err
	}

	var identifier uint64
	if cfg.Identifier < 0 {
		identifier, err = generateRandomNodeID(layout.IdentifierBits)
		if err != nil {
			return nil, err
		}
	} else {
		identifier = uint64(cfg.Identifier)
		if identifier > layout.MaxIdentifier() {
			return nil, fmt.Errorf("%w: %d > %d", ErrIdentifierRange, identifier, layout.MaxIdentifier())
		}
	}

	gen := NewGeneratorWithClock(cfg.Clock).
		WithEpoch(cfg.Epoch).
		WithBitwidths(layout.TimestampBits, layout.IdentifierBits).
		WithIdentifier(identifier)

	return &Snowflake{gen: gen}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen.Next()
}

// GenerateN returns n consecutive IDs issued under a single lock.
func (s *Snowflake) GenerateN(n int) []uint64 {
	if n < 1 {
		return nil
	}

	ids := make([]uint64, n)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range ids {
		ids[i] = s.gen.Next()
	}

	return ids
}

// Encode is Generator.Encode with the epoch precondition reported as an error.
func (s *Snowflake) Encode(timestamp, identifier, sequence uint64) (uint64, error) {
	if timestamp < s.gen.Epoch() {
		return 0, fmt.Errorf("%w: %d < %d", ErrBeforeEpoch, timestamp, s.gen.Epoch())
	}
	return s.gen.Encode(timestamp, identifier, sequence), nil
}

// Decode splits id using this Snowflake's epoch and layout.
func (s *Snowflake) Decode(id uint64) Parts {
	ts, identifier, seq := s.gen.Decode(id)
	return Parts{Timestamp: ts, Identifier: identifier, Sequence: seq}
}

// Identifier, Epoch and Layout are fixed at construction and safe to read
// without the lock.
func (s *Snowflake) Identifier() uint64 { return s.gen.Identifier() }
func (s *Snowflake) Epoch() uint64      { return s.gen.Epoch() }
func (s *Snowflake) Layout() Layout     { return s.gen.Layout() }
