package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/flaken/internal/flake/usecase"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgerror"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgrouter"
)

const maxBodyBytes = 4 << 10

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Layout(ctx context.Context, _ *http.Request) (any, error) {
	l, err := h.uc.Layout(ctx)
	if err != nil {
		return nil, err
	}

	return LayoutResponse{
		Epoch:          l.Epoch,
		EpochTime:      l.EpochTime,
		TimestampBits:  l.TimestampBits,
		IdentifierBits: l.IdentifierBits,
		SequenceBits:   l.SequenceBits,
		MaxIdentifier:  l.MaxIdentifier,
		MaxSequence:    l.MaxSequence,
		TimestampMask:  formatMask(l.TimestampMask),
		IdentifierMask: formatMask(l.IdentifierMask),
		SequenceMask:   formatMask(l.SequenceMask),
	}, nil
}

func (h *HTTPEndpoint) Nodes(ctx context.Context, _ *http.Request) (any, error) {
	nodes, err := h.uc.Nodes(ctx)
	if err != nil {
		return nil, err
	}

	resp := NodesResponse{Nodes: make([]Node, 0, len(nodes))}
	for _, n := range nodes {
		resp.Nodes = append(resp.Nodes, Node{Identifier: n.Identifier, Issued: n.Issued})
	}

	return resp, nil
}

func (h *HTTPEndpoint) RegisterNode(ctx context.Context, r *http.Request) (any, error) {
	var req RegisterNodeRequest
	if err := decodeBody(r, &req, true); err != nil {
		return nil, err
	}

	node, err := h.uc.RegisterNode(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}

	return RegisterNodeResponse{Node: Node{Identifier: node.Identifier, Issued: node.Issued}}, nil
}

func (h *HTTPEndpoint) GenerateFromNode(ctx context.Context, r *http.Request) (any, error) {
	identifier, err := parseUint(pkgrouter.Param(ctx, "identifier"), "identifier")
	if err != nil {
		return nil, err
	}

	count, err := parseCount(r.URL.Query().Get("count"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Generate(ctx, identifier, count)
	if err != nil {
		return nil, err
	}

	return toIDsResponse(result), nil
}

func (h *HTTPEndpoint) Generate(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	identifiers, err := parseNodes(query.Get("nodes"))
	if err != nil {
		return nil, err
	}

	count, err := parseCount(query.Get("count"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.GenerateMany(ctx, identifiers, count)
	if err != nil {
		return nil, err
	}

	resp := BatchResponse{Nodes: make([]IDsResponse, 0, len(result.Results))}
	for _, res := range result.Results {
		resp.Nodes = append(resp.Nodes, toIDsResponse(res))
	}

	return resp, nil
}

func (h *HTTPEndpoint) Decode(ctx context.Context, _ *http.Request) (any, error) {
	id, err := parseUint(pkgrouter.Param(ctx, "id"), "id")
	if err != nil {
		return nil, err
	}

	flake, err := h.uc.Decode(ctx, id)
	if err != nil {
		return nil, err
	}

	return DecodeResponse{
		ID:         flake.ID,
		Timestamp:  flake.Timestamp,
		Time:       flake.Time,
		Identifier: flake.Identifier,
		Sequence:   flake.Sequence,
	}, nil
}

func (h *HTTPEndpoint) Encode(ctx context.Context, r *http.Request) (any, error) {
	var req EncodeRequest
	if err := decodeBody(r, &req, false); err != nil {
		return nil, err
	}

	id, err := h.uc.Encode(ctx, req.Timestamp, req.Identifier, req.Sequence)
	if err != nil {
		return nil, err
	}

	return EncodeResponse{ID: id}, nil
}

func toIDsResponse(res usecase.IssueResult) IDsResponse {
	return IDsResponse{Identifier: res.Identifier, IDs: formatIDs(res.IDs)}
}

func decodeBody(r *http.Request, dst any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return pkgerror.NewInvalidInput(errors.New("request body is required"))
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return pkgerror.NewInvalidFormat("request body")
	}

	return nil
}

func parseUint(raw, name string) (uint64, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, pkgerror.NewInvalidFormat(name)
	}
	return value, nil
}

func parseCount(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerror.NewInvalidFormat("count")
	}

	return value, nil
}

func parseNodes(raw string) ([]uint64, error) {
	var identifiers []uint64
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		identifier, err := parseUint(value, "nodes")
		if err != nil {
			return nil, err
		}
		identifiers = append(identifiers, identifier)
	}

	if len(identifiers) == 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("nodes is required"))
	}

	return identifiers, nil
}
