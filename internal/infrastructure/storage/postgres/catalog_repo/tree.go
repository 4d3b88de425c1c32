package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rms/internal/core/id"
	"rms/internal/domain/catalogs/tree"
	"rms/internal/infrastructure/storage/postgres"
)

// treeStore implements tree.Repository for a nested-set catalog table.
type treeStore struct {
	txm   *postgres.TxManager
	batch *postgres.BatchExecutor
	table string
}

func newTreeStore(txm *postgres.TxManager, table string) treeStore {
	return treeStore{txm: txm, batch: postgres.NewBatchExecutor(txm), table: table}
}

// LockNodes loads every node of the tree with a row lock.
func (s treeStore) LockNodes(ctx context.Context) ([]tree.Node, error) {
	sql, args, err := postgres.Builder().
		Select("id", "parent_id", "code", "lft", "rgt").
		From(s.table).
		OrderBy("code").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var nodes []tree.Node
	if err := pgxscan.Select(ctx, s.txm.GetQuerier(ctx), &nodes, sql, args...); err != nil {
		return nil, fmt.Errorf("lock %s nodes: %w", s.table, err)
	}
	return nodes, nil
}

// SaveBounds writes lft/rgt of the given nodes in one round-trip.
func (s treeStore) SaveBounds(ctx context.Context, nodes []tree.Node) error {
	queries := make([]postgres.BatchQuery, 0, len(nodes))
	for _, n := range nodes {
		sql, args, err := postgres.Builder().
			Update(s.table).
			Set("lft", n.Lft).
			Set("rgt", n.Rgt).
			Where(squirrel.Eq{"id": n.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}
	return s.batch.ExecuteBatch(ctx, queries)
}

// HasChildren reports whether any live node points at nodeID.
func (s treeStore) HasChildren(ctx context.Context, nodeID id.ID) (bool, error) {
	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From(s.table).
		Where(squirrel.Eq{"parent_id": nodeID, "deletion_mark": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var n int
	if err := s.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count children: %w", err)
	}
	return n > 0, nil
}
