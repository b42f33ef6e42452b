package inbound

import (
	"context"

	"github.com/shandysiswandi/flaken/internal/flake/entity"
	"github.com/shandysiswandi/flaken/internal/flake/usecase"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgrouter"
)

type uc interface {
	RegisterNode(ctx context.Context, identifier *uint64) (entity.Node, error)
	Nodes(ctx context.Context) ([]entity.Node, error)
	Generate(ctx context.Context, identifier uint64, count int) (usecase.IssueResult, error)
	GenerateMany(ctx context.Context, identifiers []uint64, count int) (usecase.BatchResult, error)
	Decode(ctx context.Context, id uint64) (entity.Flake, error)
	Encode(ctx context.Context, timestamp, identifier, sequence uint64) (uint64, error)
	Layout(ctx context.Context) (entity.Layout, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/layout", end.Layout)

	r.GET("/nodes", end.Nodes)
	r.POST("/nodes", end.RegisterNode)
	r.POST("/nodes/:identifier/ids", end.GenerateFromNode) // ?count=

	r.POST("/ids", end.Generate) // ?nodes=1,2&count=
	r.GET("/ids/:id", end.Decode)
	r.POST("/ids/encode", end.Encode)
}
