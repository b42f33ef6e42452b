package entity

import "time"

// Flake is a decoded id.
type Flake struct {
	ID         uint64
	Timestamp  uint64
	Time       time.Time
	Identifier uint64
	Sequence   uint64
}

// Layout documents how ids of this deployment are packed.
type Layout struct {
	Epoch          uint64
	EpochTime      time.Time
	TimestampBits  uint64
	IdentifierBits uint64
	SequenceBits   uint64
	MaxIdentifier  uint64
	MaxSequence    uint64
	TimestampMask  uint64
	IdentifierMask uint64
	SequenceMask   uint64
}
