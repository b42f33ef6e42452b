package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Report logs per-node issuance every interval until ctx is done.
func (u *Usecase) Report(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			u.report(ctx)
		}
	}
}

func (u *Usecase) report(ctx context.Context) {
	nodes, err := u.store.ListNodes(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list nodes for report", "error", err)
		return
	}

	var total uint64
	issued := make(map[uint64]uint64, len(nodes))
	for _, n := range nodes {
		issued[n.Identifier] = n.Issued
		total += n.Issued
	}

	slog.InfoContext(ctx, "flake issuance", "nodes", len(nodes), "total", total, "issued", issued)
}
