// Package stock_reconciliation provides the Stock Reconciliation document,
// which sets the quantity of items in warehouses to counted values.
package stock_reconciliation

import (
	"context"
	"fmt"
	"time"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
)

// Doctype is the document type name.
const Doctype = entity.VoucherStockReconciliation

// StockReconciliation sets target quantities per item and warehouse.
type StockReconciliation struct {
	entity.Document

	PostingDate time.Time `db:"posting_date" json:"postingDate"`
	PostingTime string    `db:"posting_time" json:"postingTime"`

	Items []Item `db:"-" json:"items"`
}

// Item is one counted item and warehouse. CurrentQty is the book quantity
// at the time of the last save.
type Item struct {
	ID                    id.ID          `db:"id" json:"id"`
	StockReconciliationID id.ID          `db:"stock_reconciliation_id" json:"-"`
	Idx                   int            `db:"idx" json:"idx"`
	ItemCode              string         `db:"item_code" json:"itemCode"`
	Warehouse             string         `db:"warehouse" json:"warehouse"`
	Qty                   types.Quantity `db:"qty" json:"qty"`
	CurrentQty            types.Quantity `db:"current_qty" json:"currentQty"`
}

// NewStockReconciliation creates a draft posted now.
func NewStockReconciliation() *StockReconciliation {
	now := time.Now().UTC()
	y, m, d := now.Date()
	return &StockReconciliation{
		Document:    entity.NewDocument(),
		PostingDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		PostingTime: now.Format("15:04:05"),
		Items:       make([]Item, 0),
	}
}

// AddItem appends a counted row.
func (sr *StockReconciliation) AddItem(itemCode, warehouse string, qty types.Quantity) *Item {
	sr.Items = append(sr.Items, Item{
		ID:                    id.New(),
		StockReconciliationID: sr.ID,
		Idx:                   len(sr.Items) + 1,
		ItemCode:              itemCode,
		Warehouse:             warehouse,
		Qty:                   qty,
	})
	return &sr.Items[len(sr.Items)-1]
}

// Validate implements entity.Validatable interface.
func (sr *StockReconciliation) Validate(ctx context.Context) error {
	if err := sr.Document.Validate(ctx); err != nil {
		return err
	}
	if sr.PostingDate.IsZero() {
		return apperror.NewValidation("Posting Date is required").WithDetail("field", "postingDate")
	}
	if sr.PostingTime == "" {
		sr.PostingTime = "00:00:00"
	}
	if len(sr.Items) == 0 {
		return apperror.NewValidation("Please enter items to reconcile").WithDetail("field", "items")
	}

	seen := make(map[[2]string]struct{}, len(sr.Items))
	for i := range sr.Items {
		it := &sr.Items[i]
		if id.IsNil(it.ID) {
			it.ID = id.New()
		}
		it.StockReconciliationID = sr.ID
		it.Idx = i + 1

		if it.ItemCode == "" || it.Warehouse == "" {
			return apperror.NewValidation(fmt.Sprintf("Row %d: Item and Warehouse are required", it.Idx)).
				WithDetail("row", it.Idx)
		}
		if it.Qty.IsNegative() {
			return apperror.NewValidation(fmt.Sprintf("Row %d: Negative Quantity is not allowed", it.Idx)).
				WithDetail("row", it.Idx)
		}

		key := [2]string{it.ItemCode, it.Warehouse}
		if _, ok := seen[key]; ok {
			return apperror.NewValidation("Same item and warehouse combination already entered.").
				WithDetail("row", it.Idx)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// LedgerEntries returns one reconciliation entry per row. The register
// turns the target quantity into the actual difference.
func (sr *StockReconciliation) LedgerEntries() ([]entity.StockLedgerEntry, error) {
	entries := make([]entity.StockLedgerEntry, 0, len(sr.Items))
	for _, it := range sr.Items {
		e := entity.NewStockLedgerEntry(
			Doctype, sr.ID, sr.Number, it.ID.String(),
			it.ItemCode, it.Warehouse,
			sr.PostingDate, sr.PostingTime,
			it.Qty-it.CurrentQty,
		)
		e.QtyAfterTransaction = it.Qty
		entries = append(entries, e)
	}
	return entries, nil
}
