package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

// QuotaRepository stores one daily counter per scope. It satisfies quota.Store.
type QuotaRepository interface {
	Load(ctx context.Context, scope string) (*models.QuotaState, bool, error)
	Save(ctx context.Context, scope string, st *models.QuotaState) error
}

type quotaRepository struct {
	db *sql.DB
}

func NewQuotaRepository(db *sql.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) Load(ctx context.Context, scope string) (*models.QuotaState, bool, error) {
	query := `SELECT period_key, used, updated_at FROM quota_counters WHERE scope = $1`

	var st models.QuotaState
	err := r.db.QueryRowContext(ctx, query, scope).Scan(&st.PeriodKey, &st.Used, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &st, true, nil
}

func (r *quotaRepository) Save(ctx context.Context, scope string, st *models.QuotaState) error {
	query := `
		INSERT INTO quota_counters (scope, period_key, used, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope) DO UPDATE
		SET period_key = EXCLUDED.period_key,
			used = EXCLUDED.used,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, scope, st.PeriodKey, st.Used, st.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
