package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shipsocial/shipsocial-api/internal/models"
)

type PillarRepository interface {
	Create(ctx context.Context, tx *sql.Tx, pillar *models.Pillar) (string, error)
	GetByID(ctx context.Context, brandID, id string) (*models.Pillar, bool, error)
	GetByName(ctx context.Context, brandID, name string) (*models.Pillar, bool, error)
	ListByBrand(ctx context.Context, brandID string) ([]*models.Pillar, error)
	Remove(ctx context.Context, brandID, id string) (bool, error)
	RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error
}

type pillarRepository struct {
	db *sql.DB
}

func NewPillarRepository(db *sql.DB) PillarRepository {
	return &pillarRepository{db: db}
}

func (r *pillarRepository) Create(ctx context.Context, tx *sql.Tx, pillar *models.Pillar) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate pillar id: %w", err)
	}

	query := `INSERT INTO pillars (id, brand_id, name, description) VALUES ($1, $2, $3, $4)`
	if _, err := conn(r.db, tx).ExecContext(ctx, query, id, pillar.BrandID, pillar.Name, pillar.Desc); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return id, nil
}

func (r *pillarRepository) GetByID(ctx context.Context, brandID, id string) (*models.Pillar, bool, error) {
	query := `SELECT id, brand_id, name, description, created_at FROM pillars WHERE id = $1 AND brand_id = $2`
	return r.getOne(ctx, query, id, brandID)
}

func (r *pillarRepository) GetByName(ctx context.Context, brandID, name string) (*models.Pillar, bool, error) {
	query := `SELECT id, brand_id, name, description, created_at FROM pillars WHERE name = $1 AND brand_id = $2`
	return r.getOne(ctx, query, name, brandID)
}

func (r *pillarRepository) getOne(ctx context.Context, query string, args ...any) (*models.Pillar, bool, error) {
	var p models.Pillar
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.BrandID, &p.Name, &p.Desc, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &p, true, nil
}

func (r *pillarRepository) ListByBrand(ctx context.Context, brandID string) ([]*models.Pillar, error) {
	query := `SELECT id, brand_id, name, description, created_at FROM pillars WHERE brand_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, brandID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var pillars []*models.Pillar
	for rows.Next() {
		var p models.Pillar
		if err := rows.Scan(&p.ID, &p.BrandID, &p.Name, &p.Desc, &p.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pillars = append(pillars, &p)
	}
	return pillars, rows.Err()
}

func (r *pillarRepository) Remove(ctx context.Context, brandID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pillars WHERE id = $1 AND brand_id = $2`, id, brandID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return rowsAffected(res)
}

func (r *pillarRepository) RemoveByBrand(ctx context.Context, tx *sql.Tx, brandID string) error {
	_, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM pillars WHERE brand_id = $1`, brandID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
