package numerator

import (
	"context"
	"sync"
	"time"
)

// MemoryGenerator numbers documents from in-memory counters keyed by
// prefix and year. Intended for unit tests.
type MemoryGenerator struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryGenerator creates an empty generator.
func NewMemoryGenerator() *MemoryGenerator {
	return &MemoryGenerator{counters: make(map[string]int64)}
}

// GetNextNumber implements Generator.
func (m *MemoryGenerator) GetNextNumber(_ context.Context, cfg Config, period time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := cfg.Prefix + "/" + period.Format("2006")
	m.counters[k]++
	return Format(cfg, period, m.counters[k]), nil
}

var _ Generator = (*MemoryGenerator)(nil)
