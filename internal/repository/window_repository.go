package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

type WindowRepository interface {
	ListByBrand(ctx context.Context, brandID string) ([]*models.Window, error)
	GetByPlatform(ctx context.Context, brandID string, platform models.Platform) (*models.Window, bool, error)
	Upsert(ctx context.Context, tx *sql.Tx, w *models.Window) error
	CreateIfMissing(ctx context.Context, tx *sql.Tx, w *models.Window) error
	Count(ctx context.Context, brandID string) (int, error)
	RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error
}

type windowRepository struct {
	db *sql.DB
}

func NewWindowRepository(db *sql.DB) WindowRepository {
	return &windowRepository{db: db}
}

func (r *windowRepository) ListByBrand(ctx context.Context, brandID string) ([]*models.Window, error) {
	query := `SELECT id, brand_id, platform, start_time, end_time, tz, created_at, updated_at FROM windows WHERE brand_id = $1 ORDER BY platform`
	rows, err := r.db.QueryContext(ctx, query, brandID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var windows []*models.Window
	for rows.Next() {
		var w models.Window
		err := rows.Scan(&w.ID, &w.BrandID, &w.Platform, &w.Start, &w.End, &w.TimeZone, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		windows = append(windows, &w)
	}
	return windows, rows.Err()
}

func (r *windowRepository) GetByPlatform(ctx context.Context, brandID string, platform models.Platform) (*models.Window, bool, error) {
	query := `SELECT id, brand_id, platform, start_time, end_time, tz, created_at, updated_at FROM windows WHERE brand_id = $1 AND platform = $2`

	var w models.Window
	err := r.db.QueryRowContext(ctx, query, brandID, platform).Scan(&w.ID, &w.BrandID, &w.Platform, &w.Start, &w.End, &w.TimeZone, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &w, true, nil
}

func (r *windowRepository) Upsert(ctx context.Context, tx *sql.Tx, w *models.Window) error {
	query := `
		INSERT INTO windows (brand_id, platform, start_time, end_time, tz)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (brand_id, platform) DO UPDATE
		SET start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			tz = EXCLUDED.tz,
			updated_at = $6
	`
	_, err := conn(r.db, tx).ExecContext(ctx, query, w.BrandID, w.Platform, w.Start, w.End, w.TimeZone, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// CreateIfMissing inserts w unless the brand already has a window for the platform.
func (r *windowRepository) CreateIfMissing(ctx context.Context, tx *sql.Tx, w *models.Window) error {
	query := `
		INSERT INTO windows (brand_id, platform, start_time, end_time, tz)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (brand_id, platform) DO NOTHING
	`
	_, err := conn(r.db, tx).ExecContext(ctx, query, w.BrandID, w.Platform, w.Start, w.End, w.TimeZone)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *windowRepository) Count(ctx context.Context, brandID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM windows WHERE brand_id = $1`, brandID).Scan(&n); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

func (r *windowRepository) RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error {
	_, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM windows WHERE brand_id = $1`, brandID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
