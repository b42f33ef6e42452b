package pkguid

import (
	"errors"
	"fmt"
	"time"
)

// DefaultEpoch is 2013-01-01T00:00:00Z in milliseconds since the Unix epoch.
const DefaultEpoch uint64 = 1356998400000

// Default bit allocation: 42 timestamp bits, 10 identifier bits, 12 sequence bits.
const (
	DefaultTimestampBits  uint64 = 42
	DefaultIdentifierBits uint64 = 10
	DefaultSequenceBits   uint64 = 64 - DefaultTimestampBits - DefaultIdentifierBits
)

var (
	// ErrInvalidBitwidths reports a layout that leaves no room for a sequence field.
	ErrInvalidBitwidths = errors.New("timestamp and identifier bits must sum to less than 64")
	// ErrBeforeEpoch reports a timestamp older than the generator epoch.
	ErrBeforeEpoch = errors.New("timestamp is before the epoch")
)

// Clock provides wall-clock readings. Readings taken from time.Now carry a
// monotonic component, so the elapsed time between two of them is immune to
// wall-clock adjustments.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Layout is the split of the 64-bit id into its three fields, ordered from the
// most significant: timestamp, identifier, sequence.
type Layout struct {
	TimestampBits  uint64 `json:"timestamp_bits"`
	IdentifierBits uint64 `json:"identifier_bits"`
	SequenceBits   uint64 `json:"sequence_bits"`
}

// NewLayout derives the sequence width from the timestamp and identifier widths.
func NewLayout(timestampBits, identifierBits uint64) (Layout, error) {
	if timestampBits >= 64 || identifierBits >= 64 || timestampBits+identifierBits >= 64 {
		return Layout{}, fmt.Errorf("%w: got %d+%d", ErrInvalidBitwidths, timestampBits, identifierBits)
	}

	return Layout{
		TimestampBits:  timestampBits,
		IdentifierBits: identifierBits,
		SequenceBits:   64 - timestampBits - identifierBits,
	}, nil
}

// clearLow returns a mask with every bit set except the lowest n.
func clearLow(n uint64) uint64 {
	if n >= 64 {
		return 0
	}
	return ^uint64(0) << n
}

// fieldMask covers width bits starting at offset.
func fieldMask(width, offset uint64) uint64 {
	if offset >= 64 {
		return 0
	}
	return ^clearLow(width) << offset
}

func (l Layout) timestampShift() uint64  { return l.IdentifierBits + l.SequenceBits }
func (l Layout) identifierShift() uint64 { return l.SequenceBits }

// TimestampMask covers the timestamp field in its packed position.
func (l Layout) TimestampMask() uint64 {
	return fieldMask(l.TimestampBits, l.timestampShift())
}

// IdentifierMask covers the identifier field in its packed position.
func (l Layout) IdentifierMask() uint64 {
	return fieldMask(l.IdentifierBits, l.identifierShift())
}

// SequenceMask covers the sequence field, the lowest bits of the id.
func (l Layout) SequenceMask() uint64 {
	return fieldMask(l.SequenceBits, 0)
}

// MaxTimestamp is the largest epoch-relative timestamp the layout can hold.
func (l Layout) MaxTimestamp() uint64 { return ^clearLow(l.TimestampBits) }

// MaxIdentifier is the largest identifier the layout can hold without truncation.
func (l Layout) MaxIdentifier() uint64 { return ^clearLow(l.IdentifierBits) }

// MaxSequence is the largest sequence value before it wraps within a millisecond.
func (l Layout) MaxSequence() uint64 { return ^clearLow(l.SequenceBits) }

// Pack places each value into its field. Values wider than their field lose
// their high-order bits.
func (l Layout) Pack(timestamp, identifier, sequence uint64) uint64 {
	ts := (timestamp << l.timestampShift()) & l.TimestampMask()
	id := (identifier << l.identifierShift()) & l.IdentifierMask()
	seq := sequence & l.SequenceMask()
	return ts | id | seq
}

// Unpack is the inverse of Pack.
func (l Layout) Unpack(v uint64) (timestamp, identifier, sequence uint64) {
	timestamp = (v & l.TimestampMask()) >> l.timestampShift()
	identifier = (v & l.IdentifierMask()) >> l.identifierShift()
	sequence = v & l.SequenceMask()
	return timestamp, identifier, sequence
}

// Generator issues flake ids for a single identifier.
//
// A Generator is not safe for concurrent use; callers sharing one across
// goroutines must serialize calls to Next (see Snowflake).
//
// If more than MaxSequence+1 ids are requested within one millisecond the
// sequence field wraps to zero and the next id may compare lower than one
// already issued. Next never blocks to avoid this.
type Generator struct {
	identifier uint64
	epoch      uint64
	layout     Layout

	sequence    uint64
	lastElapsed uint64

	clock      Clock
	anchor     time.Time
	anchorWall uint64
}

// NewGenerator returns a generator with identifier 0, DefaultEpoch and the
// default 42/10/12 layout, anchored to the system clock.
func NewGenerator() *Generator {
	return NewGeneratorWithClock(nil)
}

// NewGeneratorWithClock is NewGenerator with an injected clock. A nil clock
// selects the system clock.
func NewGeneratorWithClock(clock Clock) *Generator {
	if clock == nil {
		clock = systemClock{}
	}

	anchor := clock.Now()

	return &Generator{
		epoch: DefaultEpoch,
		layout: Layout{
			TimestampBits:  DefaultTimestampBits,
			IdentifierBits: DefaultIdentifierBits,
			SequenceBits:   DefaultSequenceBits,
		},
		clock:      clock,
		anchor:     anchor,
		anchorWall: uint64(anchor.UnixMilli()),
	}
}

// WithEpoch sets the epoch in milliseconds since the Unix epoch.
func (g *Generator) WithEpoch(epoch uint64) *Generator {
	g.epoch = epoch
	return g
}

// WithIdentifier sets the identifier. It is masked to the identifier width
// only when encoding.
func (g *Generator) WithIdentifier(identifier uint64) *Generator {
	g.identifier = identifier
	return g
}

// WithBitwidths sets the timestamp and identifier widths; the sequence takes
// the remaining bits. It panics with ErrInvalidBitwidths when no sequence bit
// would be left. Use NewLayout to validate untrusted input first.
func (g *Generator) WithBitwidths(timestampBits, identifierBits uint64) *Generator {
	layout, err := NewLayout(timestampBits, identifierBits)
	if err != nil {
		panic(err)
	}
	g.layout = layout
	return g
}

func (g *Generator) Identifier() uint64 { return g.identifier }
func (g *Generator) Epoch() uint64      { return g.epoch }
func (g *Generator) Layout() Layout     { return g.layout }

// Next returns the next id.
func (g *Generator) Next() uint64 {
	elapsed := g.elapsed()
	if elapsed != g.lastElapsed {
		g.sequence = 0
	}

	id := g.Encode(g.anchorWall+elapsed, g.identifier, g.sequence)
	g.lastElapsed = elapsed
	g.sequence++

	return id
}

func (g *Generator) elapsed() uint64 {
	d := g.clock.Now().Sub(g.anchor)
	// a monotonic reading never goes below the anchor; an injected clock may
	if d < 0 {
		return 0
	}
	return uint64(d.Milliseconds())
}

// Encode packs an absolute timestamp (ms since the Unix epoch), an identifier
// and a sequence into an id. It panics with ErrBeforeEpoch if timestamp is
// earlier than the epoch.
func (g *Generator) Encode(timestamp, identifier, sequence uint64) uint64 {
	if timestamp < g.epoch {
		panic(fmt.Errorf("%w: %d < %d", ErrBeforeEpoch, timestamp, g.epoch))
	}
	return g.layout.Pack(timestamp-g.epoch, identifier, sequence)
}

// Decode splits an id into its absolute timestamp, identifier and sequence.
func (g *Generator) Decode(id uint64) (timestamp, identifier, sequence uint64) {
	timestamp, identifier, sequence = g.layout.Unpack(id)
	return timestamp + g.epoch, identifier, sequence
}
