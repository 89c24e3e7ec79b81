package service

import (
	"context"

	"github.com/shipsocial/shipsocial-api/internal/quota"
)

// CreditsService is the daily generation budget, scoped by brand id.
// *quota.Limiter implements it.
type CreditsService interface {
	TryConsume(ctx context.Context, scope string, n int) (quota.Result, error)
	Refund(ctx context.Context, scope string, n int) (quota.Result, error)
	Peek(ctx context.Context, scope string) (quota.Result, error)
	Reset(ctx context.Context, scope string) (quota.Result, error)
}

var _ CreditsService = (*quota.Limiter)(nil)
