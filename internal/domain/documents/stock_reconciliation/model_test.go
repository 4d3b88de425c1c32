package stock_reconciliation

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rms/internal/core/apperror"
	"rms/internal/core/types"
)

func qty(f float64) types.Quantity { return types.NewQuantityFromFloat64(f) }

func TestValidate_DuplicateRow(t *testing.T) {
	sr := NewStockReconciliation()
	sr.AddItem("ITM-1", "Stores", qty(5))
	sr.AddItem("ITM-1", "WIP", qty(5))
	require.NoError(t, sr.Validate(context.Background()))

	sr.AddItem("ITM-1", "Stores", qty(1))
	err := sr.Validate(context.Background())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Same item and warehouse combination already entered.", appErr.Message)
	assert.Equal(t, 3, appErr.Details["row"])
}

func TestValidate_NegativeQty(t *testing.T) {
	sr := NewStockReconciliation()
	sr.AddItem("ITM-1", "Stores", qty(-1))
	assert.Error(t, sr.Validate(context.Background()))
}

func TestLedgerEntries_CarryTarget(t *testing.T) {
	sr := NewStockReconciliation()
	sr.Number = "SR-2026-00001"
	row := sr.AddItem("ITM-1", "Stores", qty(7))
	row.CurrentQty = qty(10)

	entries, err := sr.LedgerEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsReconciliation())
	assert.Equal(t, qty(7), entries[0].QtyAfterTransaction)
	assert.Equal(t, qty(-3), entries[0].ActualQty)
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadUpload(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Item Code", "Warehouse", "Qty"},
		{"ITM-1", "Stores", 12.5},
		{"", "", ""},
		{"ITM-2", "WIP", 0},
	})

	items, err := ReadUpload(buf)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ITM-1", items[0].ItemCode)
	assert.Equal(t, "Stores", items[0].Warehouse)
	assert.Equal(t, qty(12.5), items[0].Qty)
	assert.Equal(t, "ITM-2", items[1].ItemCode)
	assert.True(t, items[1].Qty.IsZero())
}

func TestReadUpload_BadHeader(t *testing.T) {
	buf := workbook(t, [][]any{{"Item", "Qty"}})
	_, err := ReadUpload(buf)
	assert.Error(t, err)
}

func TestReadUpload_BadQty(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Item Code", "Warehouse", "Qty"},
		{"ITM-1", "Stores", "many"},
	})
	_, err := ReadUpload(buf)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 2, appErr.Details["row"])
}
