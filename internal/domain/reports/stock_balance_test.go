package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/types"
)

type fakeRepo struct {
	count int64
	rows  []LedgerRow
	items map[string]ItemDetails
}

func (f *fakeRepo) CountLedgerEntries(context.Context) (int64, error) { return f.count, nil }

func (f *fakeRepo) StockLedgerRows(context.Context, StockBalanceFilter) ([]LedgerRow, error) {
	return f.rows, nil
}

func (f *fakeRepo) ItemDetails(context.Context, string) (map[string]ItemDetails, error) {
	return f.items, nil
}

type fixedPrecision int32

func (p fixedPrecision) FloatPrecision(context.Context) (int32, error) { return int32(p), nil }

func day(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }

func row(item, wh string, d int, actual float64) LedgerRow {
	return LedgerRow{ItemCode: item, Warehouse: wh, PostingDate: day(d), ActualQty: types.NewQuantityFromFloat64(actual), VoucherType: entity.VoucherStockEntry}
}

func reco(item, wh string, d int, target float64) LedgerRow {
	return LedgerRow{ItemCode: item, Warehouse: wh, PostingDate: day(d), QtyAfterTransaction: types.NewQuantityFromFloat64(target), VoucherType: entity.VoucherStockReconciliation}
}

func window(from, to int) StockBalanceFilter {
	f, t := day(from), day(to)
	return StockBalanceFilter{FromDate: &f, ToDate: &t}
}

func TestStockBalance_RequiresDates(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, 0)

	_, err := svc.StockBalance(context.Background(), StockBalanceFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'From Date' is required")

	from := day(1)
	_, err = svc.StockBalance(context.Background(), StockBalanceFilter{FromDate: &from})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'To Date' is required")
}

func TestStockBalance_LargeLedgerNeedsFilter(t *testing.T) {
	svc := NewService(&fakeRepo{count: 500001}, nil, 500000)

	_, err := svc.StockBalance(context.Background(), window(1, 31))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Please set filter based on Item or Warehouse", appErr.Message)

	f := window(1, 31)
	f.ItemCode = "BOLT"
	_, err = svc.StockBalance(context.Background(), f)
	assert.NoError(t, err)
}

func TestBalanceMap(t *testing.T) {
	rows := []LedgerRow{
		row("BOLT", "Stores", 1, 10),
		row("BOLT", "Stores", 5, 4),
		row("BOLT", "Stores", 6, -3),
		reco("BOLT", "Stores", 7, 20),
		row("BOLT", "Stores", 20, 100),
	}

	got := balanceMap(rows, window(3, 10))
	b := got[balanceKey{"BOLT", "Stores"}]
	require.NotNil(t, b)

	assert.Equal(t, "10.0000", b.Opening.String())
	// 4 received, reconciliation lifts 11 to 20.
	assert.Equal(t, "13.0000", b.In.String())
	assert.Equal(t, "3.0000", b.Out.String())
	// Rows after to_date still count towards the balance.
	assert.Equal(t, "120.0000", b.Balance.String())
}

func TestStockBalance_RowsAndColumns(t *testing.T) {
	repo := &fakeRepo{
		rows: []LedgerRow{
			row("NUT", "Stores", 2, 5),
			row("BOLT", "WIP", 2, 2),
			row("BOLT", "Stores", 2, 1),
			row("WASHER", "Stores", 2, 1),
			row("WASHER", "Stores", 2, -1),
		},
		items: map[string]ItemDetails{
			"BOLT": {ItemCode: "BOLT", ItemName: "Bolt M8", ItemGroup: "Hardware", Description: "Bolt"},
		},
	}
	svc := NewService(repo, fixedPrecision(2), 0)

	res, err := svc.StockBalance(context.Background(), window(1, 31))
	require.NoError(t, err)

	assert.Len(t, res.Columns, 9)
	assert.Equal(t, "Item:Link/Item:100", res.Columns[0].String())
	assert.Equal(t, "Opening Qty:Float:100", res.Columns[5].String())

	// WASHER nets to zero but has movements in the window.
	require.Len(t, res.Data, 4)
	assert.Equal(t, []any{"BOLT", "Bolt M8", "Hardware", "Bolt", "Stores", 0.0, 1.0, 0.0, 1.0}, res.Data[0])
	assert.Equal(t, "WIP", res.Data[1][4])
	assert.Equal(t, "NUT", res.Data[2][0])
	assert.Equal(t, "WASHER", res.Data[3][0])
}

func TestStockBalance_DropsAllZeroRows(t *testing.T) {
	repo := &fakeRepo{rows: []LedgerRow{reco("BOLT", "Stores", 2, 0)}}
	svc := NewService(repo, nil, 0)

	res, err := svc.StockBalance(context.Background(), window(1, 31))
	require.NoError(t, err)
	assert.Empty(t, res.Data)
}

func TestWriteXLSX(t *testing.T) {
	res := &Result{
		Columns: StockBalanceColumns,
		Data:    [][]any{{"BOLT", "Bolt M8", "Hardware", "", "Stores", 0.0, 4.0, 1.0, 3.0}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Stock Balance", res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stock Balance")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Balance Qty", rows[0][8])
	assert.Equal(t, "BOLT", rows[1][0])
	assert.Equal(t, "3", rows[1][8])
}

type recordingSnapshot struct{ calls int }

func (r *recordingSnapshot) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (r *recordingSnapshot) ReadOnly(ctx context.Context, fn func(context.Context) error) error {
	r.calls++
	return fn(ctx)
}

func TestStockBalance_ReadsInSnapshot(t *testing.T) {
	snap := &recordingSnapshot{}
	repo := &fakeRepo{rows: []LedgerRow{row("BOLT", "Stores", 2, 5)}}
	svc := NewService(repo, nil, 0).WithSnapshot(snap)

	res, err := svc.StockBalance(context.Background(), window(1, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.calls)
	require.Len(t, res.Data, 1)
	assert.Equal(t, 5.0, res.Data[0][8])
}
