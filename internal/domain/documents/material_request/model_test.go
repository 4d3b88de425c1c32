package material_request

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain/documents/stock_entry"
)

func qty(f float64) types.Quantity { return types.NewQuantityFromFloat64(f) }

func day(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

func dayPtr(d int) *time.Time {
	t := day(d)
	return &t
}

func appMessage(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Message
}

func TestValidate_ScheduleDate(t *testing.T) {
	mr := NewMaterialRequest(TypePurchase, day(10))
	mr.AddItem("A", "Stores", qty(1)).ScheduleDate = dayPtr(15)
	mr.AddItem("B", "Stores", qty(1)).ScheduleDate = dayPtr(12)
	mr.AddItem("C", "Stores", qty(1))

	require.NoError(t, mr.Validate(context.Background()))
	require.NotNil(t, mr.ScheduleDate)
	assert.Equal(t, day(12), *mr.ScheduleDate)
	assert.Equal(t, day(12), *mr.Items[2].ScheduleDate)
	assert.Equal(t, day(15), *mr.Items[0].ScheduleDate)
}

func TestValidate_ScheduleDateErrors(t *testing.T) {
	mr := NewMaterialRequest(TypePurchase, day(10))
	mr.AddItem("A", "Stores", qty(1))
	assert.Equal(t, "Please enter Schedule Date", appMessage(t, mr.Validate(context.Background())))

	mr.Items[0].ScheduleDate = dayPtr(9)
	assert.Equal(t, "Expected Date cannot be before Transaction Date", appMessage(t, mr.Validate(context.Background())))
}

func TestValidate_StatusAndStockQty(t *testing.T) {
	mr := NewMaterialRequest(TypeMaterialTransfer, day(1))
	mr.ScheduleDate = dayPtr(2)
	mr.Status = ""
	row := mr.AddItem("A", "Stores", qty(3))
	row.ConversionFactor = decimal.RequireFromString("12")

	require.NoError(t, mr.Validate(context.Background()))
	assert.Equal(t, StatusDraft, mr.Status)
	assert.Equal(t, qty(36), mr.Items[0].StockQty)

	mr.Status = "Shipped"
	assert.Error(t, mr.Validate(context.Background()))
}

func TestValidate_Title(t *testing.T) {
	mr := NewMaterialRequest(TypePurchase, day(1))
	mr.ScheduleDate = dayPtr(1)
	for _, code := range []string{"A", "B", "A", "C", "D", "E"} {
		mr.AddItem(code, "Stores", qty(1))
	}
	require.NoError(t, mr.Validate(context.Background()))
	assert.Equal(t, "A, B, C, D", mr.Title)
}

type fakeLookups struct {
	items     map[string]ItemInfo
	projected types.Quantity
}

func (f fakeLookups) ActiveItem(_ context.Context, code string, _ time.Time) (ItemInfo, error) {
	info, ok := f.items[code]
	if !ok {
		return ItemInfo{}, apperror.NewValidation("Item " + code + " is disabled")
	}
	return info, nil
}

func (f fakeLookups) ProjectedQty(context.Context, string, string) (types.Quantity, error) {
	return f.projected, nil
}

func TestValidateItems(t *testing.T) {
	lookups := fakeLookups{
		items: map[string]ItemInfo{
			"BOLT":    {ItemName: "Bolt", StockUOM: "Nos", IsStockItem: true},
			"SERVICE": {ItemName: "Service", IsStockItem: false},
		},
		projected: qty(7),
	}

	t.Run("quantity", func(t *testing.T) {
		mr := NewMaterialRequest(TypePurchase, day(1))
		mr.AddItem("BOLT", "Stores", 0)
		assert.Equal(t, "Please enter quantity for Item BOLT",
			appMessage(t, mr.ValidateItems(context.Background(), lookups)))
	})

	t.Run("warehouse mandatory for stock items", func(t *testing.T) {
		mr := NewMaterialRequest(TypePurchase, day(1))
		mr.AddItem("SERVICE", "", qty(1))
		mr.AddItem("BOLT", "", qty(1))
		assert.Equal(t, "Warehouse is mandatory for stock Item BOLT in row 2",
			appMessage(t, mr.ValidateItems(context.Background(), lookups)))
	})

	t.Run("inactive item", func(t *testing.T) {
		mr := NewMaterialRequest(TypePurchase, day(1))
		mr.AddItem("OLD", "Stores", qty(1))
		assert.Error(t, mr.ValidateItems(context.Background(), lookups))
	})

	t.Run("duplicates", func(t *testing.T) {
		mr := NewMaterialRequest(TypePurchase, day(1))
		mr.AddItem("BOLT", "Stores", qty(1))
		mr.AddItem("BOLT", "WIP", qty(1))
		assert.Equal(t, "Same item cannot be entered multiple times.",
			appMessage(t, mr.ValidateItems(context.Background(), lookups)))
	})

	t.Run("refreshes draft quantities", func(t *testing.T) {
		mr := NewMaterialRequest(TypePurchase, day(1))
		row := mr.AddItem("BOLT", "Stores", qty(1))
		row.OrderedQty = qty(1)
		row.ReceivedQty = qty(1)

		require.NoError(t, mr.ValidateItems(context.Background(), lookups))
		assert.Equal(t, qty(7), mr.Items[0].ProjectedQty)
		assert.True(t, mr.Items[0].OrderedQty.IsZero())
		assert.True(t, mr.Items[0].ReceivedQty.IsZero())
		assert.Equal(t, "Bolt", mr.Items[0].ItemName)
		assert.Equal(t, "Nos", mr.Items[0].UOM)
	})

	t.Run("keeps submitted quantities", func(t *testing.T) {
		mr := NewMaterialRequest(TypePurchase, day(1))
		mr.AddItem("BOLT", "Stores", qty(2)).OrderedQty = qty(1)
		mr.MarkSubmitted()

		require.NoError(t, mr.ValidateItems(context.Background(), lookups))
		assert.Equal(t, qty(1), mr.Items[0].OrderedQty)
	})
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name       string
		typ        Type
		submit     bool
		cancel     bool
		current    Status
		explicit   Status
		perOrdered string
		want       Status
	}{
		{"draft", TypePurchase, false, false, StatusDraft, "", "0", StatusDraft},
		{"pending", TypePurchase, true, false, StatusDraft, "", "0", StatusPending},
		{"partially ordered", TypePurchase, true, false, StatusPending, "", "40", StatusPartiallyOrdered},
		{"ordered purchase", TypePurchase, true, false, StatusPending, "", "100", StatusOrdered},
		{"ordered manufacture", TypeManufacture, true, false, StatusPending, "", "100", StatusOrdered},
		{"transferred", TypeMaterialTransfer, true, false, StatusPending, "", "100", StatusTransferred},
		{"issued", TypeMaterialIssue, true, false, StatusPending, "", "100", StatusIssued},
		{"stopped stays stopped", TypePurchase, true, false, StatusStopped, "", "40", StatusStopped},
		{"stop", TypePurchase, true, false, StatusPending, StatusStopped, "0", StatusStopped},
		{"unstop", TypePurchase, true, false, StatusStopped, StatusPending, "40", StatusPartiallyOrdered},
		{"closed", TypePurchase, true, false, StatusPending, StatusClosed, "40", StatusClosed},
		{"cancelled", TypePurchase, true, true, StatusStopped, StatusCancelled, "40", StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := NewMaterialRequest(tt.typ, day(1))
			if tt.submit {
				mr.MarkSubmitted()
			}
			if tt.cancel {
				mr.MarkCancelled()
			}
			mr.Status = tt.current
			mr.PerOrdered = decimal.RequireFromString(tt.perOrdered)

			mr.SetStatus(tt.explicit)
			assert.Equal(t, tt.want, mr.Status)
		})
	}
}

func TestStatusCanChange(t *testing.T) {
	mr := NewMaterialRequest(TypePurchase, day(1))
	mr.Number = "MR-2026-00001"

	err := mr.StatusCanChange(StatusStopped)
	assert.True(t, apperror.IsInvalidStatus(err))
	assert.Equal(t, "Material Request MR-2026-00001 has not been submitted so the action cannot be completed", appMessage(t, err))
	assert.NoError(t, mr.StatusCanChange(StatusPending))

	mr.Status = StatusCancelled
	err = mr.StatusCanChange(StatusPending)
	assert.True(t, apperror.IsInvalidStatus(err))
	assert.Equal(t, "Material Request MR-2026-00001 is cancelled so the action cannot be completed", appMessage(t, err))

	mr.Status = StatusPending
	assert.NoError(t, mr.StatusCanChange(StatusStopped))
}

func TestCheckNotClosed(t *testing.T) {
	mr := NewMaterialRequest(TypePurchase, day(1))
	mr.Number = "MR-2026-00003"
	assert.NoError(t, mr.CheckNotClosed())

	mr.Status = StatusClosed
	err := mr.CheckNotClosed()
	assert.True(t, apperror.IsInvalidStatus(err))
	assert.Equal(t, "Material Request MR-2026-00003 status is Closed", appMessage(t, err))
}

func submittedRequest(t *testing.T, typ Type, qtys ...float64) *MaterialRequest {
	t.Helper()
	mr := NewMaterialRequest(typ, day(1))
	mr.Number = "MR-2026-00002"
	mr.ScheduleDate = dayPtr(5)
	for i, q := range qtys {
		mr.AddItem(string(rune('A'+i)), "Stores", qty(q))
	}
	require.NoError(t, mr.Validate(context.Background()))
	mr.MarkSubmitted()
	mr.SetStatus("")
	return mr
}

func TestUpdateCompletedQty_PerOrdered(t *testing.T) {
	mr := submittedRequest(t, TypeMaterialTransfer, 10, 30)

	require.NoError(t, mr.UpdateCompletedQty(map[id.ID]types.Quantity{mr.Items[0].ID: qty(10)}))
	assert.Equal(t, "25", mr.PerOrdered.String())
	assert.Equal(t, StatusPartiallyOrdered, mr.Status)

	require.NoError(t, mr.UpdateCompletedQty(map[id.ID]types.Quantity{mr.Items[1].ID: qty(30)}))
	assert.True(t, mr.PerOrdered.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, StatusTransferred, mr.Status)

	require.NoError(t, mr.UpdateCompletedQty(map[id.ID]types.Quantity{mr.Items[0].ID: 0, mr.Items[1].ID: 0}))
	assert.True(t, mr.PerOrdered.IsZero())
	assert.Equal(t, StatusPending, mr.Status)
}

func TestUpdateCompletedQty_RoundsToSixPlaces(t *testing.T) {
	mr := submittedRequest(t, TypeMaterialIssue, 3)
	require.NoError(t, mr.UpdateCompletedQty(map[id.ID]types.Quantity{mr.Items[0].ID: qty(1)}))
	assert.Equal(t, "33.333333", mr.PerOrdered.String())
}

func TestUpdateCompletedQty_OverTransfer(t *testing.T) {
	mr := submittedRequest(t, TypeMaterialIssue, 5)
	err := mr.UpdateCompletedQty(map[id.ID]types.Quantity{mr.Items[0].ID: qty(6)})
	assert.Equal(t,
		"The total Issue / Transfer quantity 6.0000 in Material Request MR-2026-00002 cannot be greater than requested quantity 5.0000 for Item A",
		appMessage(t, err))
}

func TestUpdateCompletedQty_ManufactureUsesQty(t *testing.T) {
	mr := submittedRequest(t, TypeManufacture, 4)
	mr.Items[0].StockQty = qty(8)

	require.NoError(t, mr.UpdateCompletedQty(map[id.ID]types.Quantity{mr.Items[0].ID: qty(6)}))
	assert.True(t, mr.PerOrdered.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, StatusOrdered, mr.Status)
}

func TestNewStockEntryFrom(t *testing.T) {
	mr := submittedRequest(t, TypeMaterialTransfer, 10, 5, 3)
	mr.Items[0].OrderedQty = qty(4)
	mr.Items[1].OrderedQty = qty(5)

	se, err := NewStockEntryFrom(mr)
	require.NoError(t, err)
	assert.Equal(t, stock_entry.PurposeMaterialTransfer, se.Purpose)
	require.Len(t, se.Items, 2)

	first := se.Items[0]
	assert.Equal(t, "A", first.ItemCode)
	assert.Equal(t, qty(6), first.Qty)
	assert.Equal(t, qty(6), first.TransferQty)
	assert.Equal(t, "Stores", first.TWarehouse)
	assert.Empty(t, first.SWarehouse)
	require.NotNil(t, first.MaterialRequestID)
	assert.Equal(t, mr.ID, *first.MaterialRequestID)
	assert.Equal(t, mr.Items[0].ID, *first.MaterialRequestItemID)

	assert.Equal(t, "C", se.Items[1].ItemCode)
}

func TestNewStockEntryFrom_Issue(t *testing.T) {
	mr := submittedRequest(t, TypeMaterialIssue, 2)
	se, err := NewStockEntryFrom(mr)
	require.NoError(t, err)
	assert.Equal(t, stock_entry.PurposeMaterialIssue, se.Purpose)
	assert.Equal(t, "Stores", se.Items[0].SWarehouse)
	assert.Empty(t, se.Items[0].TWarehouse)
}

func TestNewStockEntryFrom_Rejects(t *testing.T) {
	draft := NewMaterialRequest(TypeMaterialTransfer, day(1))
	_, err := NewStockEntryFrom(draft)
	assert.True(t, apperror.IsInvalidStatus(err))

	purchase := submittedRequest(t, TypePurchase, 1)
	_, err = NewStockEntryFrom(purchase)
	assert.True(t, apperror.IsInvalidStatus(err))
}
