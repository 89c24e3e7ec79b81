package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	config "github.com/shipsocial/shipsocial-api/configs"
	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/repository"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

type WindowService interface {
	List(ctx context.Context, brandID string) (*transfer.WindowsView, error)
	Update(ctx context.Context, brandID string, in *transfer.WindowsUpdate) (*transfer.WindowsView, error)
}

type windowService struct {
	db        *sql.DB
	wr        repository.WindowRepository
	seed      *config.Seed
	defaultTZ string
}

func NewWindowService(db *sql.DB, wr repository.WindowRepository, seed *config.Seed, defaultTZ string) WindowService {
	return &windowService{
		db:        db,
		wr:        wr,
		seed:      seed,
		defaultTZ: defaultTZ,
	}
}

// List returns the brand's windows. A brand with none gets the onboarding
// range on every platform first.
func (s *windowService) List(ctx context.Context, brandID string) (*transfer.WindowsView, error) {
	windows, err := s.wr.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}

	if len(windows) == 0 {
		err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			return seedWindows(ctx, tx, s.wr, brandID, uniformRanges(s.seed.OnboardWindow), s.defaultTZ, false)
		})
		if err != nil {
			return nil, fmt.Errorf("seed windows: %w", err)
		}
		slog.Info("seeded default windows", "brand_id", brandID)

		windows, err = s.wr.ListByBrand(ctx, brandID)
		if err != nil {
			return nil, fmt.Errorf("list windows: %w", err)
		}
	}
	return windowsView(windows, s.defaultTZ), nil
}

// Update validates every range before writing any of them.
func (s *windowService) Update(ctx context.Context, brandID string, in *transfer.WindowsUpdate) (*transfer.WindowsView, error) {
	if in == nil || len(in.Windows) == 0 {
		return nil, fmt.Errorf("%w: no windows given", ErrInvalidWindow)
	}
	if _, err := scheduler.LoadZone(in.TimeZone); err != nil {
		return nil, err
	}
	for platform, r := range in.Windows {
		if !platform.Valid() {
			return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidWindow, platform)
		}
		if _, err := scheduler.NewWindow(r.Start, r.End, in.TimeZone); err != nil {
			return nil, fmt.Errorf("%s: %w", platform, err)
		}
	}

	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, platform := range models.Platforms {
			r, ok := in.Windows[platform]
			if !ok {
				continue
			}
			w := &models.Window{
				BrandID:  brandID,
				Platform: platform,
				Start:    r.Start,
				End:      r.End,
				TimeZone: in.TimeZone,
			}
			if err := s.wr.Upsert(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save windows: %w", err)
	}

	return s.List(ctx, brandID)
}

func uniformRanges(r config.SeedRange) map[models.Platform]config.SeedRange {
	ranges := make(map[models.Platform]config.SeedRange, len(models.Platforms))
	for _, p := range models.Platforms {
		ranges[p] = r
	}
	return ranges
}

// seedWindows writes one window per platform. With overwrite unset, existing
// windows are left alone.
func seedWindows(ctx context.Context, tx *sql.Tx, wr repository.WindowRepository, brandID string,
	ranges map[models.Platform]config.SeedRange, tz string, overwrite bool) error {
	for _, p := range models.Platforms {
		r, ok := ranges[p]
		if !ok {
			continue
		}
		w := &models.Window{BrandID: brandID, Platform: p, Start: r.Start, End: r.End, TimeZone: tz}

		var err error
		if overwrite {
			err = wr.Upsert(ctx, tx, w)
		} else {
			err = wr.CreateIfMissing(ctx, tx, w)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func windowsView(windows []*models.Window, defaultTZ string) *transfer.WindowsView {
	view := &transfer.WindowsView{
		TimeZone: defaultTZ,
		Windows:  make(map[models.Platform]*models.Window, len(windows)),
	}
	for _, w := range windows {
		view.Windows[w.Platform] = w
	}
	if len(windows) > 0 {
		view.TimeZone = windows[0].TimeZone
	}
	return view
}
