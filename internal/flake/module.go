package flake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/flaken/internal/flake/inbound"
	"github.com/shandysiswandi/flaken/internal/flake/store"
	"github.com/shandysiswandi/flaken/internal/flake/usecase"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/flaken/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Router    *pkgrouter.Router
	Goroutine *pkgroutine.Manager
	Context   context.Context
	Clock     pkguid.Clock
}

func New(dep Dependency) (func(context.Context) error, error) {
	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := loadSettings(dep.Config)
	if err != nil {
		return nil, err
	}

	uc, err := usecase.New(usecase.Dependency{
		Store:    store.NewInMemoryStore(),
		Settings: settings,
		Clock:    dep.Clock,
	})
	if err != nil {
		return nil, err
	}

	layout, err := uc.Layout(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "flake layout",
		"epoch", layout.EpochTime,
		"timestamp_bits", layout.TimestampBits,
		"identifier_bits", layout.IdentifierBits,
		"sequence_bits", layout.SequenceBits,
	)

	var identifier *uint64
	if v := intOr(dep.Config, "flake.identifier", 0); v >= 0 {
		u := uint64(v)
		identifier = &u
	}
	if _, err := uc.RegisterNode(ctx, identifier); err != nil {
		return nil, fmt.Errorf("register default node: %w", err)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	interval, err := reportInterval(dep.Config)
	if err != nil {
		return nil, err
	}
	if interval > 0 && dep.Goroutine != nil {
		dep.Goroutine.Go(ctx, func(ctx context.Context) error {
			return uc.Report(ctx, interval)
		})
	}

	return nil, nil
}

func loadSettings(cfg pkgconfig.Config) (usecase.Settings, error) {
	settings := usecase.DefaultSettings()

	epoch := intOr(cfg, "flake.epoch", int64(settings.Epoch))
	tsBits := intOr(cfg, "flake.timestamp_bits", int64(settings.TimestampBits))
	idBits := intOr(cfg, "flake.identifier_bits", int64(settings.IdentifierBits))
	maxBatch := intOr(cfg, "flake.max_batch", int64(settings.MaxBatch))

	if epoch < 0 || tsBits < 0 || idBits < 0 || maxBatch < 1 {
		return settings, fmt.Errorf("flake settings out of range: epoch=%d timestamp_bits=%d identifier_bits=%d max_batch=%d",
			epoch, tsBits, idBits, maxBatch)
	}

	settings.Epoch = uint64(epoch)
	settings.TimestampBits = uint64(tsBits)
	settings.IdentifierBits = uint64(idBits)
	settings.MaxBatch = int(maxBatch)

	return settings, nil
}

func intOr(cfg pkgconfig.Config, key string, fallback int64) int64 {
	if cfg == nil || !cfg.Has(key) {
		return fallback
	}
	return cfg.GetInt(key)
}

// reportInterval reads flake.report_interval; empty or zero disables the report.
func reportInterval(cfg pkgconfig.Config) (time.Duration, error) {
	if cfg == nil || !cfg.Has("flake.report_interval") {
		return 0, nil
	}

	raw := cfg.GetString("flake.report_interval")
	if raw == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid flake.report_interval %q", raw)
	}
	return d, nil
}
