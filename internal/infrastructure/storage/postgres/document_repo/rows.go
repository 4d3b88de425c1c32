package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rms/internal/core/id"
	"rms/internal/infrastructure/storage/postgres"
)

// childTable stores the rows of a document table (items, required items).
// Rows are replaced as a whole on every save.
type childTable[R any] struct {
	txm       *postgres.TxManager
	inserter  *postgres.BatchInserter
	table     string
	parentCol string
	columns   []string
}

func newChildTable[R any](txm *postgres.TxManager, table, parentCol string) *childTable[R] {
	return &childTable[R]{
		txm:       txm,
		inserter:  postgres.NewBatchInserter(txm),
		table:     table,
		parentCol: parentCol,
		columns:   postgres.ExtractDBColumns[R](),
	}
}

// Load returns the rows of parentID ordered by idx.
func (c *childTable[R]) Load(ctx context.Context, parentID id.ID) ([]R, error) {
	sql, args, err := postgres.Builder().
		Select(c.columns...).
		From(c.table).
		Where(squirrel.Eq{c.parentCol: parentID}).
		OrderBy("idx").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []R
	if err := pgxscan.Select(ctx, c.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load %s: %w", c.table, err)
	}
	return rows, nil
}

// Save replaces the rows of parentID. Must run inside a transaction.
func (c *childTable[R]) Save(ctx context.Context, parentID id.ID, rows []R) error {
	sql, args, err := postgres.Builder().
		Delete(c.table).
		Where(squirrel.Eq{c.parentCol: parentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := c.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", c.table, err)
	}

	values := make([][]any, 0, len(rows))
	for i := range rows {
		values = append(values, postgres.RowValues(&rows[i], c.columns))
	}
	if _, err := c.inserter.CopyFromSlice(ctx, c.table, c.columns, values); err != nil {
		return fmt.Errorf("insert %s: %w", c.table, err)
	}
	return nil
}
