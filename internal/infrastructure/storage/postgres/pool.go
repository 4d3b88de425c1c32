// Package postgres is the PostgreSQL storage of the service: pool,
// transactions, migrations, audit trail and the repositories below it.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type PoolConfig struct {
	DSN               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ApplicationName   string
}

func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:               dsn,
		MaxConns:          10,
		MinConns:          2,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ApplicationName:   "rms",
	}
}

// Pool is the pgx pool with NUMERIC registered as decimal.Decimal.
type Pool struct {
	*pgxpool.Pool
}

func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// Unwrap is for goose and LISTEN, which need the raw pool.
func (p *Pool) Unwrap() *pgxpool.Pool {
	return p.Pool
}

// NewPool connects and pings. Zero MaxConns / MinConns keep the defaults.
func NewPool(ctx context.Context, cfg PoolConfig) (*Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	defaults := DefaultPoolConfig(cfg.DSN)
	pc.MaxConns = cmpOr(cfg.MaxConns, defaults.MaxConns)
	pc.MinConns = min(cmpOr(cfg.MinConns, defaults.MinConns), pc.MaxConns)
	pc.MaxConnLifetime = cmpOr(cfg.MaxConnLifetime, defaults.MaxConnLifetime)
	pc.MaxConnIdleTime = cmpOr(cfg.MaxConnIdleTime, defaults.MaxConnIdleTime)
	pc.HealthCheckPeriod = cmpOr(cfg.HealthCheckPeriod, defaults.HealthCheckPeriod)
	if name := cmpOr(cfg.ApplicationName, defaults.ApplicationName); name != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = name
	}

	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		// Conversion factors and percentages are NUMERIC.
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

func cmpOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// RegisterMetrics exposes pool gauges (rms_db_pool_*) on reg. Registering
// the same pool twice is not an error.
func (p *Pool) RegisterMetrics(reg prometheus.Registerer) error {
	gauges := []struct {
		name, help string
		value      func(*pgxpool.Stat) int32
	}{
		{"rms_db_pool_total_conns", "Open connections.", (*pgxpool.Stat).TotalConns},
		{"rms_db_pool_acquired_conns", "Connections in use.", (*pgxpool.Stat).AcquiredConns},
		{"rms_db_pool_idle_conns", "Idle connections.", (*pgxpool.Stat).IdleConns},
		{"rms_db_pool_max_conns", "Configured maximum.", (*pgxpool.Stat).MaxConns},
	}
	for _, g := range gauges {
		value := g.value
		collector := prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: g.name, Help: g.help}, func() float64 {
			return float64(value(p.Stat()))
		})
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return fmt.Errorf("register %s: %w", g.name, err)
		}
	}
	return nil
}
