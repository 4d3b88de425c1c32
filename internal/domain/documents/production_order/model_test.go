package production_order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/documents/stock_entry"
)

func qty(f float64) types.Quantity { return types.NewQuantityFromFloat64(f) }

var start = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func tableBOM() *bom.BOM {
	b := bom.NewBOM("TABLE", qty(2))
	b.Code = "BOM-TABLE-001"
	b.Items = []bom.Line{
		{ItemCode: "LEG", Qty: qty(8), SourceWarehouse: "Stores"},
		{ItemCode: "TOP", Qty: qty(2), SourceWarehouse: "Stores"},
		{ItemCode: "LEG", Qty: qty(1), SourceWarehouse: "Stores"},
	}
	return b
}

func TestValidate(t *testing.T) {
	po := NewProductionOrder("TABLE", 0, start)
	po.FGWarehouse = "Finished"
	err := po.Validate(context.Background())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Quantity to Manufacture must be greater than 0.", appErr.Message)

	po.Qty = qty(3)
	require.NoError(t, po.Validate(context.Background()))
	require.NotNil(t, po.PlannedEndDate)
	assert.Equal(t, start, *po.PlannedEndDate)

	po.FGWarehouse = ""
	assert.Error(t, po.Validate(context.Background()))
}

func TestSetRequiredItems_ScalesAndMerges(t *testing.T) {
	po := NewProductionOrder("TABLE", qty(3), start)
	require.NoError(t, po.SetRequiredItems(tableBOM()))

	assert.Equal(t, "BOM-TABLE-001", po.BOMNo)
	require.Len(t, po.RequiredItems, 2)
	assert.Equal(t, "LEG", po.RequiredItems[0].ItemCode)
	assert.Equal(t, qty(13.5), po.RequiredItems[0].RequiredQty)
	assert.Equal(t, "TOP", po.RequiredItems[1].ItemCode)
	assert.Equal(t, qty(3), po.RequiredItems[1].RequiredQty)
	assert.Equal(t, 2, po.RequiredItems[1].Idx)
}

func TestSetRequiredItems_Rejects(t *testing.T) {
	po := NewProductionOrder("CHAIR", qty(1), start)
	err := po.SetRequiredItems(tableBOM())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "BOM BOM-TABLE-001 does not belong to Item CHAIR", appErr.Message)

	inactive := tableBOM()
	inactive.IsActive = false
	po.ProductionItem = "TABLE"
	assert.Error(t, po.SetRequiredItems(inactive))
}

func submitted(t *testing.T) *ProductionOrder {
	t.Helper()
	po := NewProductionOrder("TABLE", qty(4), start)
	po.Number = "PRO-2026-00001"
	require.NoError(t, po.SetRequiredItems(tableBOM()))
	po.MarkSubmitted()
	po.SetStatus()
	return po
}

func TestSetStatus(t *testing.T) {
	po := NewProductionOrder("TABLE", qty(4), start)
	po.SetStatus()
	assert.Equal(t, StatusDraft, po.Status)

	po = submitted(t)
	assert.Equal(t, StatusNotStarted, po.Status)

	po.ProducedQty = qty(1)
	po.SetStatus()
	assert.Equal(t, StatusInProcess, po.Status)

	po.ProducedQty = qty(4)
	po.SetStatus()
	assert.Equal(t, StatusCompleted, po.Status)

	po.MarkCancelled()
	po.SetStatus()
	assert.Equal(t, StatusCancelled, po.Status)
}

func TestStopResume(t *testing.T) {
	draft := NewProductionOrder("TABLE", qty(4), start)
	assert.True(t, apperror.IsInvalidStatus(draft.Stop()))

	po := submitted(t)
	require.NoError(t, po.Stop())
	po.SetStatus()
	assert.Equal(t, StatusStopped, po.Status)

	err := po.ApplyMove(stock_entry.ProductionMove{Purpose: stock_entry.PurposeManufacture, Produced: qty(1)})
	assert.True(t, apperror.IsInvalidStatus(err))

	require.NoError(t, po.Resume())
	assert.Equal(t, StatusNotStarted, po.Status)
	assert.True(t, apperror.IsInvalidStatus(po.Resume()))
}

func TestApplyMove(t *testing.T) {
	po := submitted(t)

	transfer := stock_entry.ProductionMove{
		OrderID:     po.ID,
		Purpose:     stock_entry.PurposeMaterialTransferManufacture,
		Transferred: map[string]types.Quantity{"LEG": qty(10), "SCREW": qty(1)},
	}
	require.NoError(t, po.ApplyMove(transfer))
	assert.Equal(t, qty(10), po.RequiredItems[0].TransferredQty)
	assert.Equal(t, StatusInProcess, po.Status)

	transfer.Reverse = true
	require.NoError(t, po.ApplyMove(transfer))
	assert.True(t, po.RequiredItems[0].TransferredQty.IsZero())
	assert.Equal(t, StatusNotStarted, po.Status)

	manufacture := stock_entry.ProductionMove{OrderID: po.ID, Purpose: stock_entry.PurposeManufacture, Produced: qty(4)}
	require.NoError(t, po.ApplyMove(manufacture))
	assert.Equal(t, StatusCompleted, po.Status)
	assert.True(t, po.PendingQty().IsZero())

	err := po.ApplyMove(manufacture)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot produce more Item TABLE than Production Order quantity 4.0000", appErr.Message)

	manufacture.Reverse = true
	require.NoError(t, po.ApplyMove(manufacture))
	assert.True(t, po.ProducedQty.IsZero())
	assert.Equal(t, entity.DocStatusSubmitted, po.DocStatus)
}

func TestCalendarEvents(t *testing.T) {
	done := submitted(t)
	done.ProducedQty = qty(4)
	done.SetStatus()

	running := submitted(t)
	running.ID = id.New()
	running.ProducedQty = qty(1)
	running.SetStatus()

	fresh := submitted(t)

	events := CalendarEvents([]*ProductionOrder{done, running, fresh})
	require.Len(t, events, 3)

	assert.Equal(t, "success", events[0].Class)
	assert.Equal(t, float64(100), events[0].Progress)
	assert.Equal(t, "warning", events[1].Class)
	assert.Equal(t, float64(25), events[1].Progress)
	assert.Equal(t, "danger", events[2].Class)
	assert.Equal(t, "PRO-2026-00001", events[2].Title)
	assert.Equal(t, start, events[2].Start)
	assert.False(t, events[2].AllDay)
}
