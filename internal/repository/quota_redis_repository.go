package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shipsocial/shipsocial-api/internal/models"
)

const quotaKeyPrefix = "quota:"

// counters outlive their period by a day so a stale key is still readable for rollover
const quotaTTL = 48 * time.Hour

type redisQuotaRepository struct {
	rdb redis.UniversalClient
}

func NewRedisQuotaRepository(rdb redis.UniversalClient) QuotaRepository {
	return &redisQuotaRepository{rdb: rdb}
}

func (r *redisQuotaRepository) Load(ctx context.Context, scope string) (*models.QuotaState, bool, error) {
	fields, err := r.rdb.HGetAll(ctx, quotaKeyPrefix+scope).Result()
	if err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	used, err := strconv.Atoi(fields["used"])
	if err != nil {
		return nil, false, fmt.Errorf("corrupt quota counter for %s: %w", scope, err)
	}
	st := &models.QuotaState{PeriodKey: fields["period_key"], Used: used}
	if ts, err := strconv.ParseInt(fields["updated_at"], 10, 64); err == nil {
		st.UpdatedAt = time.Unix(ts, 0)
	}
	return st, true, nil
}

func (r *redisQuotaRepository) Save(ctx context.Context, scope string, st *models.QuotaState) error {
	key := quotaKeyPrefix + scope
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"period_key": st.PeriodKey,
			"used":       st.Used,
			"updated_at": st.UpdatedAt.Unix(),
		})
		pipe.Expire(ctx, key, quotaTTL)
		return nil
	})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
