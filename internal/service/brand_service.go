package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/shipsocial/shipsocial-api/configs"
	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/quota"
	"github.com/shipsocial/shipsocial-api/internal/repository"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
	"github.com/shipsocial/shipsocial-api/pkg/utils"
)

type OnboardResult struct {
	Brand   *models.Brand    `json:"brand"`
	Pillars []*models.Pillar `json:"pillars"`
	ApiKey  string           `json:"apiKey"`
}

type ResetResult struct {
	Brand   *models.Brand         `json:"brand"`
	Pillars []*models.Pillar      `json:"pillars"`
	Windows *transfer.WindowsView `json:"windows"`
	Credits quota.Result          `json:"credits"`
}

type BrandService interface {
	Onboard(ctx context.Context, in *transfer.Onboard) (*OnboardResult, error)
	Get(ctx context.Context, brandID string) (*models.Brand, error)
	Update(ctx context.Context, brandID string, in *transfer.Onboard) (*models.Brand, error)
	ResetDemo(ctx context.Context, brandID string) (*ResetResult, error)
	ListPillars(ctx context.Context, brandID string) ([]*models.Pillar, error)
	CreatePillar(ctx context.Context, brandID string, in *transfer.PillarCreation) (*models.Pillar, error)
	RemovePillar(ctx context.Context, brandID, pillarID string) error
}

type brandService struct {
	db        *sql.DB
	br        repository.BrandRepository
	pl        repository.PillarRepository
	wr        repository.WindowRepository
	pr        repository.PostRepository
	k         repository.ApiKeyRepository
	credits   CreditsService
	seed      *config.Seed
	defaultTZ string
}

func NewBrandService(
	db *sql.DB,
	br repository.BrandRepository,
	pl repository.PillarRepository,
	wr repository.WindowRepository,
	pr repository.PostRepository,
	k repository.ApiKeyRepository,
	credits CreditsService,
	seed *config.Seed,
	defaultTZ string) BrandService {
	return &brandService{
		db:        db,
		br:        br,
		pl:        pl,
		wr:        wr,
		pr:        pr,
		k:         k,
		credits:   credits,
		seed:      seed,
		defaultTZ: defaultTZ,
	}
}

// Onboard creates a brand with its pillars, a window per platform and a
// first API key, all in one transaction.
func (s *brandService) Onboard(ctx context.Context, in *transfer.Onboard) (*OnboardResult, error) {
	if in == nil {
		in = &transfer.Onboard{}
	}
	brand := s.defaultBrand()
	applyProfile(brand, in)

	tz := in.TimeZone
	if tz == "" {
		tz = s.defaultTZ
	}
	if _, err := scheduler.LoadZone(tz); err != nil {
		return nil, err
	}

	key, err := utils.GenerateRandomKey(24)
	if err != nil {
		return nil, fmt.Errorf("error generating API key: %w", err)
	}

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		id, err := s.br.Create(ctx, tx, brand)
		if err != nil {
			return err
		}
		brand.ID = id

		if err := s.ensurePillars(ctx, tx, brand.ID, s.pillarNames(in.Pillars), false); err != nil {
			return err
		}
		if err := seedWindows(ctx, tx, s.wr, brand.ID, uniformRanges(s.seed.OnboardWindow), tz, false); err != nil {
			return err
		}
		_, err = s.k.Create(ctx, tx, &models.ApiKey{BrandID: brand.ID, ApiKey: key})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("onboard brand: %w", err)
	}

	pillars, err := s.pl.ListByBrand(ctx, brand.ID)
	if err != nil {
		return nil, err
	}
	slog.Info("brand onboarded", "brand_id", brand.ID, "pillars", len(pillars), "tz", tz)
	return &OnboardResult{Brand: brand, Pillars: pillars, ApiKey: key}, nil
}

func (s *brandService) Get(ctx context.Context, brandID string) (*models.Brand, error) {
	brand, exists, err := s.br.GetByID(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: brand %s", ErrNotFound, brandID)
	}
	return brand, nil
}

// Update overwrites the profile fields that are set and adds any pillars
// the brand does not have yet.
func (s *brandService) Update(ctx context.Context, brandID string, in *transfer.Onboard) (*models.Brand, error) {
	brand, err := s.Get(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return brand, nil
	}
	applyProfile(brand, in)

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.br.Update(ctx, tx, brand); err != nil {
			return err
		}
		return s.ensurePillars(ctx, tx, brandID, in.Pillars, true)
	})
	if err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}
	return brand, nil
}

// ResetDemo wipes the brand's posts, pillars and windows, restores the seed
// profile with the staggered demo windows and clears today's quota.
func (s *brandService) ResetDemo(ctx context.Context, brandID string) (*ResetResult, error) {
	brand, err := s.Get(ctx, brandID)
	if err != nil {
		return nil, err
	}
	seeded := s.defaultBrand()
	seeded.ID = brand.ID
	seeded.CreatedAt = brand.CreatedAt

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.pr.RemoveByBrand(ctx, tx, brandID); err != nil {
			return err
		}
		if err := s.wr.RemoveByBrand(ctx, tx, brandID); err != nil {
			return err
		}
		if err := s.pl.RemoveByBrand(ctx, tx, brandID); err != nil {
			return err
		}
		if err := s.br.Update(ctx, tx, seeded); err != nil {
			return err
		}
		if err := s.ensurePillars(ctx, tx, brandID, s.pillarNames(nil), false); err != nil {
			return err
		}
		return seedWindows(ctx, tx, s.wr, brandID, s.seed.DemoWindows, s.seed.DemoTimeZone, true)
	})
	if err != nil {
		return nil, fmt.Errorf("reset demo: %w", err)
	}

	credits, err := s.credits.Reset(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("reset quota: %w", err)
	}

	pillars, err := s.pl.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	windows, err := s.wr.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	slog.Info("demo reset", "brand_id", brandID)
	return &ResetResult{
		Brand:   seeded,
		Pillars: pillars,
		Windows: windowsView(windows, s.seed.DemoTimeZone),
		Credits: credits,
	}, nil
}

func (s *brandService) ListPillars(ctx context.Context, brandID string) ([]*models.Pillar, error) {
	return s.pl.ListByBrand(ctx, brandID)
}

func (s *brandService) CreatePillar(ctx context.Context, brandID string, in *transfer.PillarCreation) (*models.Pillar, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: pillar name is required", ErrInvalidInput)
	}
	if _, exists, err := s.pl.GetByName(ctx, brandID, name); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: pillar %q already exists", ErrInvalidState, name)
	}

	pillar := &models.Pillar{BrandID: brandID, Name: name, Desc: in.Desc}
	id, err := s.pl.Create(ctx, nil, pillar)
	if err != nil {
		return nil, err
	}
	pillar.ID = id
	return pillar, nil
}

func (s *brandService) RemovePillar(ctx context.Context, brandID, pillarID string) error {
	removed, err := s.pl.Remove(ctx, brandID, pillarID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: pillar %s", ErrNotFound, pillarID)
	}
	return nil
}

func (s *brandService) defaultBrand() *models.Brand {
	b := s.seed.Brand
	return &models.Brand{
		Name:      b.Name,
		Website:   b.Website,
		Palette:   append([]string(nil), b.Palette...),
		VoiceCard: b.VoiceCard,
	}
}

func applyProfile(brand *models.Brand, in *transfer.Onboard) {
	if name := strings.TrimSpace(in.Name); name != "" {
		brand.Name = name
	}
	if in.Website != "" {
		brand.Website = in.Website
	}
	if len(in.Palette) > 0 {
		brand.Palette = in.Palette
	}
	if in.VoiceCard != nil {
		brand.VoiceCard = *in.VoiceCard
	}
}

// pillarNames falls back to the seed pillars when none are requested.
func (s *brandService) pillarNames(requested []string) []string {
	if len(requested) > 0 {
		return requested
	}
	names := make([]string, 0, len(s.seed.Pillars))
	for _, p := range s.seed.Pillars {
		names = append(names, p.Name)
	}
	return names
}

// ensurePillars creates the named pillars once each. The existence lookup
// reads outside tx, so it is skipped for brands whose pillars were just
// created or wiped in the same transaction.
func (s *brandService) ensurePillars(ctx context.Context, tx *sql.Tx, brandID string, names []string, checkExisting bool) error {
	descs := make(map[string]string, len(s.seed.Pillars))
	for _, p := range s.seed.Pillars {
		descs[p.Name] = p.Desc
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		if checkExisting {
			_, exists, err := s.pl.GetByName(ctx, brandID, name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
		}
		if _, err := s.pl.Create(ctx, tx, &models.Pillar{BrandID: brandID, Name: name, Desc: descs[name]}); err != nil {
			return err
		}
	}
	return nil
}
