package numerator

import (
	"context"
	"time"
)

// Generator hands out sequential document numbers, e.g. MR-2026-00001.
// Numbers taken inside a transaction roll back with it.
type Generator interface {
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}
