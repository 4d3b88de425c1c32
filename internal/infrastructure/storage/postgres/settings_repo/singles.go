// Package settings_repo stores single-value settings in sys_singles.
package settings_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"rms/internal/domain/settings"
	"rms/internal/infrastructure/storage/postgres"
)

const singlesTable = "sys_singles"

// SinglesRepo implements settings.Store.
type SinglesRepo struct {
	txm *postgres.TxManager
}

// NewSinglesRepo creates a new singles repository.
func NewSinglesRepo(txm *postgres.TxManager) *SinglesRepo {
	return &SinglesRepo{txm: txm}
}

// GetValue returns the stored value and whether the row exists.
func (r *SinglesRepo) GetValue(ctx context.Context, doctype, field string) (string, bool, error) {
	sql, args, err := postgres.Builder().
		Select("value").
		From(singlesTable).
		Where(squirrel.Eq{"doctype": doctype, "field": field}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build query: %w", err)
	}

	var value string
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get single value: %w", err)
	}
	return value, true, nil
}

// SetValue upserts a single value.
func (r *SinglesRepo) SetValue(ctx context.Context, doctype, field, value string) error {
	sql, args, err := postgres.Builder().
		Insert(singlesTable).
		Columns("doctype", "field", "value").
		Values(doctype, field, value).
		Suffix("ON CONFLICT (doctype, field) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set single value: %w", err)
	}
	return nil
}

var _ settings.Store = (*SinglesRepo)(nil)
