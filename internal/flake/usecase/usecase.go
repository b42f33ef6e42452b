package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shandysiswandi/flaken/internal/flake/entity"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgerror"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

// randomAttempts bounds retries when a random identifier is already taken.
const randomAttempts = 3

type Store interface {
	CreateNode(ctx context.Context, gen *pkguid.Snowflake) error
	Issue(ctx context.Context, identifier uint64, count int) ([]uint64, error)
	ListNodes(ctx context.Context) ([]entity.Node, error)
}

type Dependency struct {
	Store    Store
	Settings Settings
	// Clock is handed to every node generator; nil means the system clock.
	Clock pkguid.Clock
}

type Usecase struct {
	store    Store
	settings Settings
	clock    pkguid.Clock
	codec    *pkguid.Snowflake
}

// New validates the layout in dep.Settings once, so every node registered
// later shares it.
func New(dep Dependency) (*Usecase, error) {
	settings := dep.Settings
	if settings.MaxBatch < 1 {
		settings.MaxBatch = DefaultMaxBatch
	}

	codec, err := pkguid.NewSnowflake(pkguid.SnowflakeConfig{
		Epoch:          settings.Epoch,
		TimestampBits:  settings.TimestampBits,
		IdentifierBits: settings.IdentifierBits,
		Clock:          dep.Clock,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid flake layout: %w", err)
	}

	if capacity := sequenceCapacity(codec.Layout()); settings.MaxBatch > capacity {
		slog.Warn("max batch exceeds the ids a node can issue per millisecond; clamping",
			"max_batch", settings.MaxBatch,
			"sequence_bits", codec.Layout().SequenceBits,
			"clamped_to", capacity,
		)
		settings.MaxBatch = capacity
	}

	return &Usecase{
		store:    dep.Store,
		settings: settings,
		clock:    dep.Clock,
		codec:    codec,
	}, nil
}

// RegisterNode creates a generator for identifier. A nil identifier picks a
// random free one.
func (u *Usecase) RegisterNode(ctx context.Context, identifier *uint64) (entity.Node, error) {
	maxID := u.codec.Layout().MaxIdentifier()
	if identifier != nil && *identifier > maxID {
		return entity.Node{}, pkgerror.NewInvalidInput(fmt.Errorf("identifier must be between 0 and %d", maxID))
	}

	attempts := 1
	if identifier == nil {
		attempts = randomAttempts
	}

	var err error
	for range attempts {
		cfg := pkguid.SnowflakeConfig{
			Epoch:          u.settings.Epoch,
			TimestampBits:  u.settings.TimestampBits,
			IdentifierBits: u.settings.IdentifierBits,
			Identifier:     -1,
			Clock:          u.clock,
		}
		if identifier != nil {
			cfg.Identifier = int64(*identifier)
		}

		var gen *pkguid.Snowflake
		gen, err = pkguid.NewSnowflake(cfg)
		if err != nil {
			return entity.Node{}, normalizeErr(err)
		}

		err = u.store.CreateNode(ctx, gen)
		if err == nil {
			slog.InfoContext(ctx, "node registered", "identifier", gen.Identifier())
			return entity.Node{Identifier: gen.Identifier()}, nil
		}
	}

	return entity.Node{}, normalizeErr(err)
}

func (u *Usecase) Nodes(ctx context.Context) ([]entity.Node, error) {
	nodes, err := u.store.ListNodes(ctx)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return nodes, nil
}

// Generate issues count ids from a single node.
func (u *Usecase) Generate(ctx context.Context, identifier uint64, count int) (IssueResult, error) {
	if err := u.validateCount(count); err != nil {
		return IssueResult{}, err
	}

	ids, err := u.store.Issue(ctx, identifier, count)
	if err != nil {
		return IssueResult{}, mapStoreErr(err)
	}

	return IssueResult{Identifier: identifier, IDs: ids}, nil
}

// GenerateMany issues count ids from each node in parallel. Nodes are
// independent, so no coordination between them is needed. Results keep the
// order of identifiers.
func (u *Usecase) GenerateMany(ctx context.Context, identifiers []uint64, count int) (BatchResult, error) {
	if len(identifiers) == 0 {
		return BatchResult{}, pkgerror.NewInvalidInput(errors.New("at least one node is required"))
	}
	if err := u.validateCount(count); err != nil {
		return BatchResult{}, err
	}
	if total := count * len(identifiers); total > u.settings.MaxBatch {
		return BatchResult{}, pkgerror.NewInvalidInput(
			fmt.Errorf("count across all nodes must not exceed %d, got %d", u.settings.MaxBatch, total))
	}

	results := make([]IssueResult, len(identifiers))
	mgr := pkgroutine.NewManager(len(identifiers))
	for i, identifier := range identifiers {
		mgr.Go(ctx, func(ctx context.Context) error {
			res, err := u.Generate(ctx, identifier, count)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := mgr.Wait(); err != nil {
		return BatchResult{}, normalizeErr(err)
	}
	if err := ctx.Err(); err != nil {
		return BatchResult{}, pkgerror.NewServer(err)
	}

	return BatchResult{Results: results}, nil
}

func (u *Usecase) Decode(ctx context.Context, id uint64) (entity.Flake, error) {
	parts := u.codec.Decode(id)

	return entity.Flake{
		ID:         id,
		Timestamp:  parts.Timestamp,
		Time:       parts.Time(),
		Identifier: parts.Identifier,
		Sequence:   parts.Sequence,
	}, nil
}

// Encode packs the given fields. Identifier and sequence values wider than
// their fields are truncated, exactly as generated ids would be.
func (u *Usecase) Encode(ctx context.Context, timestamp, identifier, sequence uint64) (uint64, error) {
	id, err := u.codec.Encode(timestamp, identifier, sequence)
	if err != nil {
		return 0, normalizeErr(err)
	}
	return id, nil
}

func (u *Usecase) Layout(ctx context.Context) (entity.Layout, error) {
	l := u.codec.Layout()
	epoch := u.codec.Epoch()

	return entity.Layout{
		Epoch:          epoch,
		EpochTime:      time.UnixMilli(int64(epoch)).UTC(),
		TimestampBits:  l.TimestampBits,
		IdentifierBits: l.IdentifierBits,
		SequenceBits:   l.SequenceBits,
		MaxIdentifier:  l.MaxIdentifier(),
		MaxSequence:    l.MaxSequence(),
		TimestampMask:  l.TimestampMask(),
		IdentifierMask: l.IdentifierMask(),
		SequenceMask:   l.SequenceMask(),
	}, nil
}

// sequenceCapacity is the number of distinct sequence values in one
// millisecond, saturated at the largest int.
func sequenceCapacity(l pkguid.Layout) int {
	if l.MaxSequence() >= math.MaxInt-1 {
		return math.MaxInt
	}
	return int(l.MaxSequence()) + 1
}

func (u *Usecase) validateCount(count int) error {
	if count < 1 || count > u.settings.MaxBatch {
		return pkgerror.NewInvalidInput(fmt.Errorf("count must be between 1 and %d", u.settings.MaxBatch))
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound("node")
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	if perr, ok := pkgerror.As(err); ok {
		return perr
	}
	if errors.Is(err, pkguid.ErrBeforeEpoch) || errors.Is(err, pkguid.ErrIdentifierRange) {
		return pkgerror.NewInvalidInput(err)
	}
	return pkgerror.NewServer(err)
}
