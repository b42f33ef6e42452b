package inbound

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

type RegisterNodeRequest struct {
	// Identifier is optional; omit it to get a random free identifier.
	Identifier *uint64 `json:"identifier"`
}

type EncodeRequest struct {
	Timestamp  uint64 `json:"timestamp"`
	Identifier uint64 `json:"identifier"`
	Sequence   uint64 `json:"sequence"`
}

type Node struct {
	Identifier uint64 `json:"identifier"`
	Issued     uint64 `json:"issued"`
}

type RegisterNodeResponse struct {
	Node
}

func (RegisterNodeResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterNodeResponse) Message() string {
	return "node registered"
}

type NodesResponse struct {
	Nodes []Node `json:"nodes"`
}

func (r NodesResponse) Meta() map[string]any {
	return map[string]any{"total": len(r.Nodes)}
}

// IDsResponse carries ids as decimal strings; JSON numbers lose precision
// above 2^53 in most clients.
type IDsResponse struct {
	Identifier uint64   `json:"identifier"`
	IDs        []string `json:"ids"`
}

func (r IDsResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.IDs)}
}

type BatchResponse struct {
	Nodes []IDsResponse `json:"nodes"`
}

func (r BatchResponse) Meta() map[string]any {
	count := 0
	for _, n := range r.Nodes {
		count += len(n.IDs)
	}
	return map[string]any{"count": count}
}

type DecodeResponse struct {
	ID         uint64    `json:"id,string"`
	Timestamp  uint64    `json:"timestamp"`
	Time       time.Time `json:"time"`
	Identifier uint64    `json:"identifier"`
	Sequence   uint64    `json:"sequence"`
}

type EncodeResponse struct {
	ID uint64 `json:"id,string"`
}

type LayoutResponse struct {
	Epoch          uint64    `json:"epoch"`
	EpochTime      time.Time `json:"epoch_time"`
	TimestampBits  uint64    `json:"timestamp_bits"`
	IdentifierBits uint64    `json:"identifier_bits"`
	SequenceBits   uint64    `json:"sequence_bits"`
	MaxIdentifier  uint64    `json:"max_identifier"`
	MaxSequence    uint64    `json:"max_sequence"`
	TimestampMask  string    `json:"timestamp_mask"`
	IdentifierMask string    `json:"identifier_mask"`
	SequenceMask   string    `json:"sequence_mask"`
}

func formatIDs(ids []uint64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatUint(id, 10)
	}
	return out
}

func formatMask(mask uint64) string {
	return fmt.Sprintf("%#016x", mask)
}
