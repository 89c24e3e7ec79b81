package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shipsocial/shipsocial-api/internal/models"
)

type BrandRepository interface {
	Create(ctx context.Context, tx *sql.Tx, brand *models.Brand) (string, error)
	GetByID(ctx context.Context, id string) (*models.Brand, bool, error)
	Update(ctx context.Context, tx *sql.Tx, brand *models.Brand) error
}

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, tx *sql.Tx, brand *models.Brand) (string, error) {
	voice, err := json.Marshal(brand.VoiceCard)
	if err != nil {
		return "", fmt.Errorf("encode voice card: %w", err)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO brands (id, name, website, palette, voice_card)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = conn(r.db, tx).ExecContext(ctx, query, id, brand.Name, brand.Website, pq.Array(brand.Palette), voice)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return id, nil
}

func (r *brandRepository) GetByID(ctx context.Context, id string) (*models.Brand, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false, nil
	}

	query := `SELECT id, name, website, palette, voice_card, created_at, updated_at FROM brands WHERE id = $1`

	var brand models.Brand
	var voice []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&brand.ID, &brand.Name, &brand.Website, pq.Array(&brand.Palette),
		&voice, &brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	if err := json.Unmarshal(voice, &brand.VoiceCard); err != nil {
		return nil, false, fmt.Errorf("decode voice card: %w", err)
	}
	return &brand, true, nil
}

func (r *brandRepository) Update(ctx context.Context, tx *sql.Tx, brand *models.Brand) error {
	voice, err := json.Marshal(brand.VoiceCard)
	if err != nil {
		return fmt.Errorf("encode voice card: %w", err)
	}

	query := `
		UPDATE brands
		SET name = $1,
			website = $2,
			palette = $3,
			voice_card = $4,
			updated_at = $5
		WHERE id = $6
	`
	_, err = conn(r.db, tx).ExecContext(ctx, query, brand.Name, brand.Website, pq.Array(brand.Palette), voice, time.Now(), brand.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
