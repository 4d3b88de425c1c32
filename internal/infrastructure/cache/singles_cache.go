// Package cache provides caching infrastructure with PostgreSQL LISTEN/NOTIFY support.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rms/internal/domain/settings"
	"rms/pkg/logger"
)

// SinglesChannel is notified by the sys_singles trigger with a
// "doctype.field" payload.
const SinglesChannel = "singles_changed"

type cached struct {
	value string
	ok    bool
}

// SinglesCache is a read-through settings.Store. Entries are dropped when
// PostgreSQL notifies a change, so writes made by other processes are
// picked up without polling.
type SinglesCache struct {
	store settings.Store
	pool  *pgxpool.Pool

	mu     sync.RWMutex
	values map[string]cached
	// gen is bumped by every invalidation. A read that started under an
	// older generation does not store its result.
	gen uint64

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewSinglesCache wraps store. pool may be nil, in which case the cache
// is only invalidated by its own writes.
func NewSinglesCache(store settings.Store, pool *pgxpool.Pool) *SinglesCache {
	return &SinglesCache{
		store:  store,
		pool:   pool,
		values: make(map[string]cached),
	}
}

func key(doctype, field string) string {
	return doctype + "." + field
}

// GetValue implements settings.Store.
func (c *SinglesCache) GetValue(ctx context.Context, doctype, field string) (string, bool, error) {
	k := key(doctype, field)

	c.mu.RLock()
	v, hit := c.values[k]
	gen := c.gen
	c.mu.RUnlock()
	if hit {
		return v.value, v.ok, nil
	}

	value, ok, err := c.store.GetValue(ctx, doctype, field)
	if err != nil {
		return "", false, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.values[k] = cached{value: value, ok: ok}
	}
	c.mu.Unlock()
	return value, ok, nil
}

// SetValue implements settings.Store.
func (c *SinglesCache) SetValue(ctx context.Context, doctype, field, value string) error {
	if err := c.store.SetValue(ctx, doctype, field, value); err != nil {
		return err
	}
	c.Invalidate(key(doctype, field))
	return nil
}

// Invalidate drops one "doctype.field" entry, or everything when payload
// is empty or names only a doctype.
func (c *SinglesCache) Invalidate(payload string) {
	payload = strings.TrimSpace(payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++

	if payload == "" {
		c.values = make(map[string]cached)
		return
	}
	if _, exact := c.values[payload]; exact || strings.Contains(payload, ".") {
		delete(c.values, payload)
		return
	}
	prefix := payload + "."
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			delete(c.values, k)
		}
	}
}

// Start begins listening for change notifications.
func (c *SinglesCache) Start(ctx context.Context) {
	if c.pool == nil {
		return
	}

	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	if c.started {
		return
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true

	c.wg.Add(1)
	go c.listenLoop()
	logger.Info(c.ctx, "singles cache started")
}

// Stop cancels the listener and waits for it to exit.
func (c *SinglesCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	cancel()
	c.wg.Wait()
}

func (c *SinglesCache) listenLoop() {
	defer c.wg.Done()

	for c.ctx.Err() == nil {
		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			c.sleep(time.Second)
			continue
		}

		if _, err := conn.Exec(c.ctx, "LISTEN "+SinglesChannel); err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "channel", SinglesChannel, "error", err)
			conn.Release()
			c.sleep(time.Second)
			continue
		}

		// Anything cached before LISTEN may be stale.
		c.Invalidate("")
		c.waitForNotifications(conn)
		conn.Release()
	}
}

func (c *SinglesCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		n, err := conn.Conn().WaitForNotification(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil {
				logger.Warn(c.ctx, "singles listener lost connection", "error", err)
			}
			return
		}
		logger.Debug(c.ctx, "settings changed", "payload", n.Payload)
		c.Invalidate(n.Payload)
	}
}

func (c *SinglesCache) sleep(d time.Duration) {
	select {
	case <-c.ctx.Done():
	case <-time.After(d):
	}
}

var _ settings.Store = (*SinglesCache)(nil)
