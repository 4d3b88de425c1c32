package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/production_order"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/domain/documents/stock_reconciliation"
)

// rowID keeps a client supplied row id so links to the row survive edits.
func rowID(v *id.ID) id.ID {
	if v == nil {
		return id.Nil()
	}
	return *v
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// --- Material Request ---

// MaterialRequestItemRequest is one requested row.
type MaterialRequestItemRequest struct {
	ID               *id.ID          `json:"id"`
	ItemCode         string          `json:"itemCode" binding:"required"`
	ItemName         string          `json:"itemName"`
	Description      string          `json:"description"`
	Warehouse        string          `json:"warehouse"`
	Qty              types.Quantity  `json:"qty"`
	UOM              string          `json:"uom"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"`
	ScheduleDate     *Date           `json:"scheduleDate"`
}

// MaterialRequestRequest creates or updates a material request.
type MaterialRequestRequest struct {
	Type            string                       `json:"materialRequestType" binding:"required"`
	TransactionDate *Date                        `json:"transactionDate"`
	ScheduleDate    *Date                        `json:"scheduleDate"`
	Comment         string                       `json:"comment"`
	Items           []MaterialRequestItemRequest `json:"items"`
	Version         int                          `json:"version"`
}

// ToMaterialRequest maps the request onto target (a new request when nil).
func (r MaterialRequestRequest) ToMaterialRequest(target *material_request.MaterialRequest) *material_request.MaterialRequest {
	date := today()
	if d := r.TransactionDate.Ptr(); d != nil {
		date = *d
	}
	if target == nil {
		target = material_request.NewMaterialRequest(material_request.Type(r.Type), date)
	}
	target.Type = material_request.Type(r.Type)
	target.TransactionDate = date
	target.ScheduleDate = r.ScheduleDate.Ptr()
	target.Comment = r.Comment
	if r.Version > 0 {
		target.Version = r.Version
	}

	target.Items = make([]material_request.Item, 0, len(r.Items))
	for _, it := range r.Items {
		target.Items = append(target.Items, material_request.Item{
			ID:               rowID(it.ID),
			ItemCode:         it.ItemCode,
			ItemName:         it.ItemName,
			Description:      it.Description,
			Warehouse:        it.Warehouse,
			Qty:              it.Qty,
			UOM:              it.UOM,
			ConversionFactor: it.ConversionFactor,
			ScheduleDate:     it.ScheduleDate.Ptr(),
		})
	}
	return target
}

// UpdateStatusRequest stops or resumes a material request.
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Version int    `json:"version" binding:"required,min=1"`
}

// --- Stock Entry ---

// StockEntryItemRequest is one moved row.
type StockEntryItemRequest struct {
	ID                    *id.ID          `json:"id"`
	ItemCode              string          `json:"itemCode" binding:"required"`
	SWarehouse            string          `json:"sWarehouse"`
	TWarehouse            string          `json:"tWarehouse"`
	Qty                   types.Quantity  `json:"qty"`
	UOM                   string          `json:"uom"`
	ConversionFactor      decimal.Decimal `json:"conversionFactor"`
	MaterialRequestID     *id.ID          `json:"materialRequest"`
	MaterialRequestItemID *id.ID          `json:"materialRequestItem"`
}

// StockEntryRequest creates or updates a stock entry.
type StockEntryRequest struct {
	Purpose           string                  `json:"purpose" binding:"required"`
	PostingDate       *Date                   `json:"postingDate"`
	PostingTime       string                  `json:"postingTime"`
	ProductionOrderID *id.ID                  `json:"productionOrder"`
	FGCompletedQty    types.Quantity          `json:"fgCompletedQty"`
	Comment           string                  `json:"comment"`
	Items             []StockEntryItemRequest `json:"items"`
	Version           int                     `json:"version"`
}

// ToStockEntry maps the request onto target (a new entry when nil).
func (r StockEntryRequest) ToStockEntry(target *stock_entry.StockEntry) *stock_entry.StockEntry {
	if target == nil {
		target = stock_entry.NewStockEntry(stock_entry.Purpose(r.Purpose))
	}
	target.Purpose = stock_entry.Purpose(r.Purpose)
	if d := r.PostingDate.Ptr(); d != nil {
		target.PostingDate = *d
	}
	if r.PostingTime != "" {
		target.PostingTime = r.PostingTime
	}
	target.ProductionOrderID = r.ProductionOrderID
	target.FGCompletedQty = r.FGCompletedQty
	target.Comment = r.Comment
	if r.Version > 0 {
		target.Version = r.Version
	}

	target.Items = make([]stock_entry.Item, 0, len(r.Items))
	for _, it := range r.Items {
		cf := it.ConversionFactor
		if cf.IsZero() {
			cf = decimal.NewFromInt(1)
		}
		target.Items = append(target.Items, stock_entry.Item{
			ID:                    rowID(it.ID),
			ItemCode:              it.ItemCode,
			SWarehouse:            it.SWarehouse,
			TWarehouse:            it.TWarehouse,
			Qty:                   it.Qty,
			UOM:                   it.UOM,
			ConversionFactor:      cf,
			MaterialRequestID:     it.MaterialRequestID,
			MaterialRequestItemID: it.MaterialRequestItemID,
		})
	}
	return target
}

// --- Stock Reconciliation ---

// StockReconciliationItemRequest is one counted row.
type StockReconciliationItemRequest struct {
	ItemCode  string         `json:"itemCode" binding:"required"`
	Warehouse string         `json:"warehouse" binding:"required"`
	Qty       types.Quantity `json:"qty"`
}

// StockReconciliationRequest creates or updates a stock reconciliation.
type StockReconciliationRequest struct {
	PostingDate *Date                            `json:"postingDate"`
	PostingTime string                           `json:"postingTime"`
	Comment     string                           `json:"comment"`
	Items       []StockReconciliationItemRequest `json:"items"`
	Version     int                              `json:"version"`
}

// ToStockReconciliation maps the request onto target (a new document when nil).
func (r StockReconciliationRequest) ToStockReconciliation(target *stock_reconciliation.StockReconciliation) *stock_reconciliation.StockReconciliation {
	if target == nil {
		target = stock_reconciliation.NewStockReconciliation()
	}
	if d := r.PostingDate.Ptr(); d != nil {
		target.PostingDate = *d
	}
	if r.PostingTime != "" {
		target.PostingTime = r.PostingTime
	}
	target.Comment = r.Comment
	if r.Version > 0 {
		target.Version = r.Version
	}

	target.Items = make([]stock_reconciliation.Item, 0, len(r.Items))
	for _, it := range r.Items {
		target.Items = append(target.Items, stock_reconciliation.Item{
			ItemCode:  it.ItemCode,
			Warehouse: it.Warehouse,
			Qty:       it.Qty,
		})
	}
	return target
}

// --- Production Order ---

// ProductionOrderRequest creates or updates a production order. Required
// items are always rebuilt from the BOM.
type ProductionOrderRequest struct {
	ProductionItem       string         `json:"productionItem" binding:"required"`
	BOMNo                string         `json:"bomNo"`
	Qty                  types.Quantity `json:"qty"`
	FGWarehouse          string         `json:"fgWarehouse"`
	WIPWarehouse         string         `json:"wipWarehouse"`
	Description          string         `json:"description"`
	PlannedStartDate     *Date          `json:"plannedStartDate"`
	PlannedEndDate       *Date          `json:"plannedEndDate"`
	ExpectedDeliveryDate *Date          `json:"expectedDeliveryDate"`
	Comment              string         `json:"comment"`
	Version              int            `json:"version"`
}

// ToProductionOrder maps the request onto target (a new order when nil).
func (r ProductionOrderRequest) ToProductionOrder(target *production_order.ProductionOrder) *production_order.ProductionOrder {
	start := today()
	if d := r.PlannedStartDate.Ptr(); d != nil {
		start = *d
	}
	if target == nil {
		target = production_order.NewProductionOrder(r.ProductionItem, r.Qty, start)
	}
	target.ProductionItem = r.ProductionItem
	target.BOMNo = r.BOMNo
	target.Qty = r.Qty
	target.FGWarehouse = r.FGWarehouse
	target.WIPWarehouse = r.WIPWarehouse
	target.Description = r.Description
	target.PlannedStartDate = start
	target.PlannedEndDate = r.PlannedEndDate.Ptr()
	target.ExpectedDeliveryDate = r.ExpectedDeliveryDate.Ptr()
	target.Comment = r.Comment
	if r.Version > 0 {
		target.Version = r.Version
	}
	return target
}

// StopRequest stops (true) or resumes (false) a production order.
type StopRequest struct {
	Stopped bool `json:"stopped"`
}

// MakeStockEntryRequest is the body of make_stock_entry. SourceName is the
// material request id or number.
type MakeStockEntryRequest struct {
	SourceName string `json:"sourceName" binding:"required"`
}

// RaiseProductionOrdersRequest is the body of raise_production_orders.
type RaiseProductionOrdersRequest struct {
	MaterialRequest string `json:"materialRequest" binding:"required"`
}
