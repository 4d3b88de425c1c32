// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rms/internal/core/entity"
	"rms/internal/domain/reports"
	"rms/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

func (r *ReportRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// CountLedgerEntries implements reports.Repository.
func (r *ReportRepo) CountLedgerEntries(ctx context.Context) (int64, error) {
	var n int64
	if err := r.querier(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM reg_stock_ledger").Scan(&n); err != nil {
		return 0, fmt.Errorf("count ledger: %w", err)
	}
	return n, nil
}

func stockLedgerQuery(filter reports.StockBalanceFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"sle.item_code", "sle.warehouse", "sle.posting_date",
			"sle.actual_qty", "sle.qty_after_transaction", "sle.voucher_type",
		).
		From("reg_stock_ledger sle").
		Where(squirrel.Lt{"sle.docstatus": entity.DocStatusCancelled})

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"sle.posting_date": *filter.ToDate})
	}
	if filter.ItemGroup != "" {
		q = q.Join("cat_items item ON item.code = sle.item_code").
			Where(knownSubtree("item.item_group", "cat_item_groups", filter.ItemGroup))
	}
	if filter.ItemCode != "" {
		q = q.Where(squirrel.Eq{"sle.item_code": filter.ItemCode})
	}
	if filter.Warehouse != "" {
		q = q.Where(knownSubtree("sle.warehouse", "cat_warehouses", filter.Warehouse))
	}
	return q.OrderBy("sle.posting_date", "sle.posting_time", "sle.id")
}

// knownSubtree restricts column to the subtree of code. A code that names
// no node leaves the rows unfiltered.
func knownSubtree(column, treeTable, code string) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.Expr(fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s WHERE code = ?)", treeTable), code),
		postgres.SubtreeCondition(column, treeTable, code, false),
	}
}

// StockLedgerRows implements reports.Repository.
func (r *ReportRepo) StockLedgerRows(ctx context.Context, filter reports.StockBalanceFilter) ([]reports.LedgerRow, error) {
	sql, args, err := stockLedgerQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []reports.LedgerRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("stock ledger rows: %w", err)
	}
	return rows, nil
}

// ItemDetails implements reports.Repository.
func (r *ReportRepo) ItemDetails(ctx context.Context, itemCode string) (map[string]reports.ItemDetails, error) {
	q := postgres.Builder().
		Select("code", "name", "item_group", "description").
		From("cat_items")
	if itemCode != "" {
		q = q.Where(squirrel.Eq{"code": itemCode})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []reports.ItemDetails
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("item details: %w", err)
	}
	out := make(map[string]reports.ItemDetails, len(items))
	for _, it := range items {
		out[it.ItemCode] = it
	}
	return out, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
