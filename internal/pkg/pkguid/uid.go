package pkguid

import (
	"strconv"

	"github.com/google/uuid"
)

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates unique numeric identifiers.
type NumberID interface {
	Generate() uint64
}

var (
	_ StringID = (*UUID)(nil)
	_ StringID = (*FlakeString)(nil)
	_ NumberID = (*Snowflake)(nil)
)

// UUID generates time-ordered UUIDv7 strings.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate falls back to a random UUIDv4 if no v7 can be built.
func (*UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// FlakeString renders flake ids in base 36, giving short strings that sort
// by time only within the same length.
type FlakeString struct {
	sf *Snowflake
}

func NewFlakeString(sf *Snowflake) *FlakeString {
	return &FlakeString{sf: sf}
}

func (f *FlakeString) Generate() string {
	return strconv.FormatUint(f.sf.Generate(), 36)
}
