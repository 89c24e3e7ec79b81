package service

import (
	"errors"
	"fmt"

	"github.com/shipsocial/shipsocial-api/internal/quota"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state")
	ErrInvalidWindow  = scheduler.ErrInvalidWindow
	ErrInvalidInput   = errors.New("invalid input")
	ErrQuotaExhausted = errors.New("daily quota exhausted")
)

// QuotaError carries the limiter state of a rejected generation.
type QuotaError struct {
	Result quota.Result
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily quota exhausted, %d left, try again in %s", e.Result.Left, e.Result.RetryIn)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExhausted }
