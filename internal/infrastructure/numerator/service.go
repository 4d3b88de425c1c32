// Package numerator numbers documents from the sys_sequences table.
package numerator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "rms/internal/core/numerator"
)

type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierSource resolves the querier for a call: the running transaction
// when there is one, otherwise the pool.
type QuerierSource func(ctx context.Context) Querier

// Service increments one sys_sequences row per prefix and period. The row
// stays locked until the caller's transaction ends, so numbers are gapless.
type Service struct {
	source QuerierSource
}

var _ corenumerator.Generator = (*Service)(nil)

func New(querier Querier) *Service {
	return NewWithSource(func(context.Context) Querier { return querier })
}

func NewWithSource(source QuerierSource) *Service {
	return &Service{source: source}
}

const nextValueSQL = `
	INSERT INTO sys_sequences (key, current_val)
	VALUES ($1, 1)
	ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
	RETURNING current_val`

func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time) (string, error) {
	if s == nil || s.source == nil {
		return "", errors.New("numerator service is not initialized")
	}

	key := sequenceKey(cfg, period)
	var num int64
	if err := s.source(ctx).QueryRow(ctx, nextValueSQL, key).Scan(&num); err != nil {
		return "", fmt.Errorf("next value of %s: %w", key, err)
	}
	return corenumerator.Format(cfg, period, num), nil
}

func sequenceKey(cfg corenumerator.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return cfg.Prefix + "_" + period.Format("2006_01")
	case "year":
		return cfg.Prefix + "_" + period.Format("2006")
	default:
		return cfg.Prefix
	}
}
