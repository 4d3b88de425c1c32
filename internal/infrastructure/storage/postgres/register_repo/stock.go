// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/domain/registers/stock"
	"rms/internal/infrastructure/storage/postgres"
)

const (
	stockLedgerTable = "reg_stock_ledger"
	binsTable        = "reg_bins"
	warehousesTable  = "cat_warehouses"
)

var (
	ledgerColumns = postgres.ExtractDBColumns[entity.StockLedgerEntry]()
	binColumns    = postgres.ExtractDBColumns[entity.Bin]()
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm      *postgres.TxManager
	inserter *postgres.BatchInserter
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:      txm,
		inserter: postgres.NewBatchInserter(txm),
	}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// GetBinForUpdate creates the bin row if needed and locks it.
func (r *StockRepo) GetBinForUpdate(ctx context.Context, key stock.BinKey) (*entity.Bin, error) {
	sql, args, err := postgres.Builder().
		Insert(binsTable).
		Columns("item_code", "warehouse").
		Values(key.ItemCode, key.Warehouse).
		Suffix("ON CONFLICT (item_code, warehouse) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("ensure bin: %w", err)
	}

	q := r.binSelect(key).Suffix("FOR UPDATE")
	sql, args, err = q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	bin := &entity.Bin{}
	if err := pgxscan.Get(ctx, r.querier(ctx), bin, sql, args...); err != nil {
		return nil, fmt.Errorf("lock bin: %w", err)
	}
	return bin, nil
}

// GetBin returns the bin or an empty one.
func (r *StockRepo) GetBin(ctx context.Context, key stock.BinKey) (*entity.Bin, error) {
	sql, args, err := r.binSelect(key).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	bin := &entity.Bin{}
	if err := pgxscan.Get(ctx, r.querier(ctx), bin, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.NewBin(key.ItemCode, key.Warehouse), nil
		}
		return nil, fmt.Errorf("get bin: %w", err)
	}
	return bin, nil
}

func (r *StockRepo) binSelect(key stock.BinKey) squirrel.SelectBuilder {
	return postgres.Builder().
		Select(binColumns...).
		From(binsTable).
		Where(squirrel.Eq{"item_code": key.ItemCode, "warehouse": key.Warehouse})
}

// SaveBin upserts all quantities of the bin.
func (r *StockRepo) SaveBin(ctx context.Context, bin *entity.Bin) error {
	sql, args, err := postgres.Builder().
		Insert(binsTable).
		SetMap(postgres.StructToMap(bin)).
		Suffix(`ON CONFLICT (item_code, warehouse) DO UPDATE SET
			actual_qty = EXCLUDED.actual_qty,
			ordered_qty = EXCLUDED.ordered_qty,
			indented_qty = EXCLUDED.indented_qty,
			planned_qty = EXCLUDED.planned_qty,
			reserved_qty = EXCLUDED.reserved_qty,
			projected_qty = EXCLUDED.projected_qty,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save bin: %w", err)
	}
	return nil
}

// InsertEntries bulk inserts ledger entries with COPY.
func (r *StockRepo) InsertEntries(ctx context.Context, entries []entity.StockLedgerEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		m := postgres.StructToMap(e)
		row := make([]any, len(ledgerColumns))
		for i, col := range ledgerColumns {
			row[i] = m[col]
		}
		rows = append(rows, row)
	}
	if _, err := r.inserter.CopyFromSlice(ctx, stockLedgerTable, ledgerColumns, rows); err != nil {
		return fmt.Errorf("copy ledger entries: %w", err)
	}
	return nil
}

// GetVoucherEntries returns the voucher's live entries.
func (r *StockRepo) GetVoucherEntries(ctx context.Context, voucherID id.ID) ([]entity.StockLedgerEntry, error) {
	sql, args, err := postgres.Builder().
		Select(ledgerColumns...).
		From(stockLedgerTable).
		Where(squirrel.Eq{"voucher_id": voucherID, "docstatus": entity.DocStatusSubmitted}).
		OrderBy("posting_date", "posting_time", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.StockLedgerEntry
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select voucher entries: %w", err)
	}
	return entries, nil
}

// CancelVoucherEntries sets docstatus 2 on the voucher's entries.
func (r *StockRepo) CancelVoucherEntries(ctx context.Context, voucherID id.ID) error {
	sql, args, err := postgres.Builder().
		Update(stockLedgerTable).
		Set("docstatus", entity.DocStatusCancelled).
		Where(squirrel.Eq{"voucher_id": voucherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("cancel voucher entries: %w", err)
	}
	return nil
}

// ListBins returns bins; the warehouse filter matches its subtree.
func (r *StockRepo) ListBins(ctx context.Context, filter stock.BinFilter) ([]entity.Bin, error) {
	q := postgres.Builder().Select(binColumns...).From(binsTable)
	if filter.ItemCode != "" {
		q = q.Where(squirrel.Eq{"item_code": filter.ItemCode})
	}
	if filter.Warehouse != "" {
		q = q.Where(postgres.SubtreeCondition("warehouse", warehousesTable, filter.Warehouse, false))
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.Or{
			squirrel.NotEq{"actual_qty": 0},
			squirrel.NotEq{"projected_qty": 0},
		})
	}
	q = q.OrderBy("item_code", "warehouse")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var bins []entity.Bin
	if err := pgxscan.Select(ctx, r.querier(ctx), &bins, sql, args...); err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	return bins, nil
}

// ListEntries returns ledger history, newest first, with the total count.
func (r *StockRepo) ListEntries(ctx context.Context, filter stock.LedgerFilter) ([]entity.StockLedgerEntry, int64, error) {
	q := ledgerQuery(filter)

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	q = q.OrderBy("posting_date DESC", "posting_time DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.StockLedgerEntry
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, total, nil
}

func ledgerQuery(filter stock.LedgerFilter) squirrel.SelectBuilder {
	q := postgres.Builder().Select(ledgerColumns...).From(stockLedgerTable)
	if !filter.IncludeCancelled {
		q = q.Where(squirrel.Lt{"docstatus": entity.DocStatusCancelled})
	}
	if filter.ItemCode != "" {
		q = q.Where(squirrel.Eq{"item_code": filter.ItemCode})
	}
	if filter.Warehouse != "" {
		q = q.Where(postgres.SubtreeCondition("warehouse", warehousesTable, filter.Warehouse, false))
	}
	if filter.VoucherNo != "" {
		q = q.Where(squirrel.Eq{"voucher_no": filter.VoucherNo})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"posting_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"posting_date": *filter.ToDate})
	}
	return q
}

var _ stock.Repository = (*StockRepo)(nil)
