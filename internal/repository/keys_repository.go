package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

type ApiKeyRepository interface {
	GetByKey(ctx context.Context, apiKey string) (string, bool, error)
	GetByBrandID(ctx context.Context, brandID string) ([]*models.ApiKey, error)
	Create(ctx context.Context, tx *sql.Tx, apiKey *models.ApiKey) (int64, error)
	CheckByBrandID(ctx context.Context, keyID int64, brandID string) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type apiKeyRepository struct {
	db *sql.DB
}

func NewApiKeyRepository(db *sql.DB) ApiKeyRepository {
	return &apiKeyRepository{db: db}
}

// GetByKey resolves an API key to its brand id.
func (r *apiKeyRepository) GetByKey(ctx context.Context, apiKey string) (string, bool, error) {
	var brandID string
	query := "SELECT brand_id FROM api_keys WHERE api_key = $1"
	err := r.db.QueryRowContext(ctx, query, apiKey).Scan(&brandID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return brandID, true, nil
}

func (r *apiKeyRepository) GetByBrandID(ctx context.Context, brandID string) ([]*models.ApiKey, error) {
	query := `SELECT id, brand_id, api_key, created_at FROM api_keys WHERE brand_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, brandID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var apiKeys []*models.ApiKey
	for rows.Next() {
		var apiKey models.ApiKey
		err := rows.Scan(&apiKey.ID, &apiKey.BrandID, &apiKey.ApiKey, &apiKey.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		apiKeys = append(apiKeys, &apiKey)
	}
	return apiKeys, rows.Err()
}

func (r *apiKeyRepository) Create(ctx context.Context, tx *sql.Tx, apiKey *models.ApiKey) (int64, error) {
	query := "INSERT INTO api_keys (brand_id, api_key) VALUES ($1, $2) RETURNING id"
	var id int64
	err := conn(r.db, tx).QueryRowContext(ctx, query, apiKey.BrandID, apiKey.ApiKey).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *apiKeyRepository) CheckByBrandID(ctx context.Context, keyID int64, brandID string) (bool, error) {
	query := "SELECT 1 FROM api_keys WHERE id = $1 AND brand_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, keyID, brandID).Scan(&result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *apiKeyRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM api_keys WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
