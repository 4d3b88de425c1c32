package reports

import (
	"context"
	"fmt"
	"sort"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/types"
)

// StockBalanceColumns are the columns of the Stock Balance report.
var StockBalanceColumns = []Column{
	{Label: "Item", FieldType: "Link", Options: "Item", Width: 100},
	{Label: "Item Name", Width: 150},
	{Label: "Item Group", Width: 100},
	{Label: "Description", Width: 140},
	{Label: "Warehouse", FieldType: "Link", Options: "Warehouse", Width: 100},
	{Label: "Opening Qty", FieldType: "Float", Width: 100},
	{Label: "In Qty", FieldType: "Float", Width: 80},
	{Label: "Out Qty", FieldType: "Float", Width: 80},
	{Label: "Balance Qty", FieldType: "Float", Width: 100},
}

const defaultFloatPrecision int32 = 3

type balanceKey struct {
	item      string
	warehouse string
}

// balance accumulates the quantities of one item in one warehouse.
type balance struct {
	Opening types.Quantity
	In      types.Quantity
	Out     types.Quantity
	Balance types.Quantity
}

func validateStockBalance(filter StockBalanceFilter) error {
	if filter.FromDate == nil {
		return apperror.NewValidation("'From Date' is required")
	}
	if filter.ToDate == nil {
		return apperror.NewValidation("'To Date' is required")
	}
	return nil
}

// balanceMap folds ledger rows into per item and warehouse balances. A
// reconciliation row replaces the running balance instead of adding to it.
func balanceMap(rows []LedgerRow, filter StockBalanceFilter) map[balanceKey]*balance {
	from, to := *filter.FromDate, *filter.ToDate
	out := make(map[balanceKey]*balance)

	for _, r := range rows {
		key := balanceKey{item: r.ItemCode, warehouse: r.Warehouse}
		b, ok := out[key]
		if !ok {
			b = &balance{}
			out[key] = b
		}

		diff := r.ActualQty
		if r.VoucherType == entity.VoucherStockReconciliation {
			diff = r.QtyAfterTransaction - b.Balance
		}

		switch {
		case r.PostingDate.Before(from):
			b.Opening += diff
		case !r.PostingDate.After(to):
			if diff.IsPositive() {
				b.In += diff
			} else {
				b.Out += diff.Abs()
			}
		}
		b.Balance += diff
	}
	return out
}

// StockBalance runs the Stock Balance report.
func (s *Service) StockBalance(ctx context.Context, filter StockBalanceFilter) (*Result, error) {
	if err := validateStockBalance(filter); err != nil {
		return nil, err
	}

	if filter.ItemCode == "" && filter.Warehouse == "" && s.ledgerThreshold > 0 {
		count, err := s.repo.CountLedgerEntries(ctx)
		if err != nil {
			return nil, fmt.Errorf("count ledger entries: %w", err)
		}
		if count > s.ledgerThreshold {
			return nil, apperror.NewValidation("Please set filter based on Item or Warehouse")
		}
	}

	precision := defaultFloatPrecision
	if s.precision != nil {
		p, err := s.precision.FloatPrecision(ctx)
		if err != nil {
			return nil, err
		}
		if p > 0 {
			precision = p
		}
	}

	var (
		items map[string]ItemDetails
		rows  []LedgerRow
	)
	load := func(ctx context.Context) error {
		var err error
		if items, err = s.repo.ItemDetails(ctx, filter.ItemCode); err != nil {
			return fmt.Errorf("item details: %w", err)
		}
		if rows, err = s.repo.StockLedgerRows(ctx, filter); err != nil {
			return fmt.Errorf("stock ledger rows: %w", err)
		}
		return nil
	}
	var err error
	if s.snapshot != nil {
		err = s.snapshot.ReadOnly(ctx, load)
	} else {
		err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	balances := balanceMap(rows, filter)
	keys := make([]balanceKey, 0, len(balances))
	for k := range balances {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].item != keys[j].item {
			return keys[i].item < keys[j].item
		}
		return keys[i].warehouse < keys[j].warehouse
	})

	data := make([][]any, 0, len(keys))
	for _, k := range keys {
		b := balances[k]
		values := []float64{
			b.Opening.Round(precision),
			b.In.Round(precision),
			b.Out.Round(precision),
			b.Balance.Round(precision),
		}
		if allZero(values) {
			continue
		}
		d := items[k.item]
		data = append(data, []any{
			k.item, d.ItemName, d.ItemGroup, d.Description, k.warehouse,
			values[0], values[1], values[2], values[3],
		})
	}

	return &Result{Columns: StockBalanceColumns, Data: data}, nil
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
