package quota

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

// Store persists one counter per scope (a brand id).
type Store interface {
	Load(ctx context.Context, scope string) (*models.QuotaState, bool, error)
	Save(ctx context.Context, scope string, st *models.QuotaState) error
}

// Limiter serializes read-modify-write cycles within this process only.
// Two processes sharing the same Store can still interleave.
type Limiter struct {
	store Store
	limit int
	loc   *time.Location
	now   func() time.Time

	mu sync.Mutex
}

type Option func(*Limiter)

func WithDailyLimit(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithLocation sets the zone whose midnight ends a period.
func WithLocation(loc *time.Location) Option {
	return func(l *Limiter) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

func NewLimiter(store Store, opts ...Option) *Limiter {
	l := &Limiter{
		store: store,
		limit: DefaultDailyLimit,
		loc:   time.UTC,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) DailyLimit() int { return l.limit }

// TryConsume takes n units if they fit in today's budget. A rejected call
// leaves the counter untouched and reports Granted == false.
func (l *Limiter) TryConsume(ctx context.Context, scope string, n int) (Result, error) {
	if n < 1 {
		return Result{}, ErrInvalidAmount
	}
	granted := false
	res, err := l.update(ctx, scope, func(st *models.QuotaState) bool {
		if st.Used+n > l.limit {
			return false
		}
		st.Used += n
		granted = true
		return true
	})
	if err != nil {
		return Result{}, err
	}
	res.Granted = granted
	return res, nil
}

// Refund gives back n units, never dropping below zero used.
func (l *Limiter) Refund(ctx context.Context, scope string, n int) (Result, error) {
	if n < 1 {
		return Result{}, ErrInvalidAmount
	}
	return l.update(ctx, scope, func(st *models.QuotaState) bool {
		st.Used -= n
		if st.Used < 0 {
			st.Used = 0
		}
		return true
	})
}

func (l *Limiter) Peek(ctx context.Context, scope string) (Result, error) {
	return l.update(ctx, scope, func(*models.QuotaState) bool { return false })
}

// Reset zeroes the counter for the current period.
func (l *Limiter) Reset(ctx context.Context, scope string) (Result, error) {
	return l.update(ctx, scope, func(st *models.QuotaState) bool {
		st.Used = 0
		return true
	})
}

func (l *Limiter) update(ctx context.Context, scope string, fn func(st *models.QuotaState) bool) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := PeriodKey(now, l.loc)

	stored, exists, err := l.store.Load(ctx, scope)
	if err != nil {
		return Result{}, fmt.Errorf("load quota for %s: %w", scope, err)
	}
	var cur models.QuotaState
	if exists && stored != nil {
		cur = *stored
	}

	next := Normalize(cur, key, l.limit)
	dirty := !exists || next.PeriodKey != cur.PeriodKey || next.Used != cur.Used
	if fn(&next) {
		dirty = true
	}

	if dirty {
		next.UpdatedAt = now
		if err := l.store.Save(ctx, scope, &next); err != nil {
			return Result{}, fmt.Errorf("save quota for %s: %w", scope, err)
		}
		if next.PeriodKey != cur.PeriodKey && exists {
			slog.Debug("quota rolled over", "scope", scope, "from", cur.PeriodKey, "to", next.PeriodKey)
		}
	}

	resetsAt := NextReset(now, l.loc)
	return Result{
		Daily:    l.limit,
		Used:     next.Used,
		Left:     l.limit - next.Used,
		ResetsAt: resetsAt,
		RetryIn:  FormatETA(resetsAt.Sub(now)),
	}, nil
}
