// Package stock_entry provides the Stock Entry document: receipts, issues and
// transfers of stock, including transfers to and output of manufacturing.
package stock_entry

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
)

// Doctype is the document type name.
const Doctype = entity.VoucherStockEntry

// Purpose says what a stock entry does.
type Purpose string

const (
	PurposeMaterialReceipt             Purpose = "Material Receipt"
	PurposeMaterialIssue               Purpose = "Material Issue"
	PurposeMaterialTransfer            Purpose = "Material Transfer"
	PurposeMaterialTransferManufacture Purpose = "Material Transfer for Manufacture"
	PurposeManufacture                 Purpose = "Manufacture"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeMaterialReceipt, PurposeMaterialIssue, PurposeMaterialTransfer,
		PurposeMaterialTransferManufacture, PurposeManufacture:
		return true
	}
	return false
}

// ForProduction reports whether the purpose belongs to a production order.
func (p Purpose) ForProduction() bool {
	return p == PurposeMaterialTransferManufacture || p == PurposeManufacture
}

// StockEntry moves stock between warehouses.
type StockEntry struct {
	entity.Document

	Purpose           Purpose        `db:"purpose" json:"purpose"`
	PostingDate       time.Time      `db:"posting_date" json:"postingDate"`
	PostingTime       string         `db:"posting_time" json:"postingTime"`
	ProductionOrderID *id.ID         `db:"production_order_id" json:"productionOrder,omitempty"`
	FGCompletedQty    types.Quantity `db:"fg_completed_qty" json:"fgCompletedQty"`

	Items []Item `db:"-" json:"items"`
}

// Item is one moved row. SWarehouse is the source, TWarehouse the target.
type Item struct {
	ID                    id.ID           `db:"id" json:"id"`
	StockEntryID          id.ID           `db:"stock_entry_id" json:"-"`
	Idx                   int             `db:"idx" json:"idx"`
	ItemCode              string          `db:"item_code" json:"itemCode"`
	SWarehouse            string          `db:"s_warehouse" json:"sWarehouse,omitempty"`
	TWarehouse            string          `db:"t_warehouse" json:"tWarehouse,omitempty"`
	Qty                   types.Quantity  `db:"qty" json:"qty"`
	UOM                   string          `db:"uom" json:"uom"`
	ConversionFactor      decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`
	TransferQty           types.Quantity  `db:"transfer_qty" json:"transferQty"`
	MaterialRequestID     *id.ID          `db:"material_request_id" json:"materialRequest,omitempty"`
	MaterialRequestItemID *id.ID          `db:"material_request_item_id" json:"materialRequestItem,omitempty"`
}

// NewStockEntry creates a draft entry posted now.
func NewStockEntry(purpose Purpose) *StockEntry {
	now := time.Now().UTC()
	return &StockEntry{
		Document:    entity.NewDocument(),
		Purpose:     purpose,
		PostingDate: truncateDay(now),
		PostingTime: now.Format("15:04:05"),
		Items:       make([]Item, 0),
	}
}

// AddItem appends a row and returns it.
func (se *StockEntry) AddItem(itemCode, source, target string, qty types.Quantity) *Item {
	se.Items = append(se.Items, Item{
		ID:               id.New(),
		StockEntryID:     se.ID,
		Idx:              len(se.Items) + 1,
		ItemCode:         itemCode,
		SWarehouse:       source,
		TWarehouse:       target,
		Qty:              qty,
		ConversionFactor: decimal.NewFromInt(1),
		TransferQty:      qty,
	})
	return &se.Items[len(se.Items)-1]
}

// Validate implements entity.Validatable interface.
func (se *StockEntry) Validate(ctx context.Context) error {
	if err := se.Document.Validate(ctx); err != nil {
		return err
	}
	if !se.Purpose.Valid() {
		return apperror.NewValidation(fmt.Sprintf("Purpose must be one of %s", purposeList)).
			WithDetail("field", "purpose")
	}
	if se.PostingDate.IsZero() {
		return apperror.NewValidation("Posting Date is required").WithDetail("field", "postingDate")
	}
	if se.PostingTime == "" {
		se.PostingTime = "00:00:00"
	}
	if se.Purpose.ForProduction() && se.ProductionOrderID == nil {
		return apperror.NewValidation(fmt.Sprintf("Production Order is mandatory for purpose %s", se.Purpose)).
			WithDetail("field", "productionOrder")
	}
	if se.Purpose == PurposeManufacture && !se.FGCompletedQty.IsPositive() {
		return apperror.NewValidation("For Quantity (Manufactured Qty) is mandatory").
			WithDetail("field", "fgCompletedQty")
	}
	if len(se.Items) == 0 {
		return apperror.NewValidation("Items are required").WithDetail("field", "items")
	}

	for i := range se.Items {
		it := &se.Items[i]
		if id.IsNil(it.ID) {
			it.ID = id.New()
		}
		it.StockEntryID = se.ID
		it.Idx = i + 1

		if it.ItemCode == "" {
			return apperror.NewValidation(fmt.Sprintf("Row %d: Item Code is required", it.Idx)).
				WithDetail("row", it.Idx)
		}
		if !it.Qty.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("Row %d: Quantity must be greater than 0", it.Idx)).
				WithDetail("row", it.Idx)
		}
		if it.ConversionFactor.IsZero() {
			it.ConversionFactor = decimal.NewFromInt(1)
		}
		it.TransferQty = it.Qty.MulDecimal(it.ConversionFactor)

		if err := se.validateWarehouses(it); err != nil {
			return err
		}
	}
	return nil
}

func (se *StockEntry) validateWarehouses(it *Item) error {
	switch se.Purpose {
	case PurposeMaterialReceipt:
		it.SWarehouse = ""
		if it.TWarehouse == "" {
			return apperror.NewValidation(fmt.Sprintf("Target warehouse is mandatory for row %d", it.Idx)).
				WithDetail("row", it.Idx)
		}
	case PurposeMaterialIssue:
		it.TWarehouse = ""
		if it.SWarehouse == "" {
			return apperror.NewValidation(fmt.Sprintf("Source warehouse is mandatory for row %d", it.Idx)).
				WithDetail("row", it.Idx)
		}
	case PurposeMaterialTransfer, PurposeMaterialTransferManufacture:
		if it.SWarehouse == "" {
			return apperror.NewValidation(fmt.Sprintf("Source warehouse is mandatory for row %d", it.Idx)).
				WithDetail("row", it.Idx)
		}
		if it.TWarehouse == "" {
			return apperror.NewValidation(fmt.Sprintf("Target warehouse is mandatory for row %d", it.Idx)).
				WithDetail("row", it.Idx)
		}
		if it.SWarehouse == it.TWarehouse {
			return apperror.NewValidation(fmt.Sprintf("Source and target warehouse cannot be same for row %d", it.Idx)).
				WithDetail("row", it.Idx)
		}
	case PurposeManufacture:
		if it.SWarehouse == "" && it.TWarehouse == "" {
			return apperror.NewValidation(fmt.Sprintf("Atleast one warehouse is mandatory for row %d", it.Idx)).
				WithDetail("row", it.Idx)
		}
	}
	return nil
}

// LedgerEntries returns one outgoing entry per source warehouse and one
// incoming entry per target warehouse.
func (se *StockEntry) LedgerEntries() ([]entity.StockLedgerEntry, error) {
	entries := make([]entity.StockLedgerEntry, 0, len(se.Items)*2)
	for _, it := range se.Items {
		if it.SWarehouse != "" {
			entries = append(entries, entity.NewStockLedgerEntry(
				Doctype, se.ID, se.Number, it.ID.String(),
				it.ItemCode, it.SWarehouse,
				se.PostingDate, se.PostingTime,
				it.TransferQty.Neg(),
			))
		}
		if it.TWarehouse != "" {
			entries = append(entries, entity.NewStockLedgerEntry(
				Doctype, se.ID, se.Number, it.ID.String(),
				it.ItemCode, it.TWarehouse,
				se.PostingDate, se.PostingTime,
				it.TransferQty,
			))
		}
	}
	return entries, nil
}

// MaterialRequestRows groups the linked request rows by request.
func (se *StockEntry) MaterialRequestRows() map[id.ID][]id.ID {
	out := make(map[id.ID][]id.ID)
	for _, it := range se.Items {
		if it.MaterialRequestID == nil || it.MaterialRequestItemID == nil {
			continue
		}
		out[*it.MaterialRequestID] = append(out[*it.MaterialRequestID], *it.MaterialRequestItemID)
	}
	return out
}

// ProductionMove is the effect of an entry on its production order.
type ProductionMove struct {
	OrderID id.ID
	Purpose Purpose

	// Transferred is the quantity moved per item code
	// (Material Transfer for Manufacture).
	Transferred map[string]types.Quantity

	// Produced is the finished quantity (Manufacture).
	Produced types.Quantity

	// Reverse is set when the entry is cancelled.
	Reverse bool
}

// ProductionMove returns the move for the linked production order, if any.
func (se *StockEntry) ProductionMove(reverse bool) (ProductionMove, bool) {
	if se.ProductionOrderID == nil || !se.Purpose.ForProduction() {
		return ProductionMove{}, false
	}
	move := ProductionMove{
		OrderID: *se.ProductionOrderID,
		Purpose: se.Purpose,
		Reverse: reverse,
	}
	switch se.Purpose {
	case PurposeMaterialTransferManufacture:
		move.Transferred = make(map[string]types.Quantity)
		for _, it := range se.Items {
			move.Transferred[it.ItemCode] += it.TransferQty
		}
	case PurposeManufacture:
		move.Produced = se.FGCompletedQty
	}
	return move, true
}

var purposeList = fmt.Sprintf("%s, %s, %s, %s, %s",
	PurposeMaterialReceipt, PurposeMaterialIssue, PurposeMaterialTransfer,
	PurposeMaterialTransferManufacture, PurposeManufacture)

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
