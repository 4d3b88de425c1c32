// Package entity provides core domain entities.
package entity

import (
	"time"

	"rms/internal/core/id"
	"rms/internal/core/types"
)

// Voucher types that write to the stock ledger.
const (
	VoucherStockEntry          = "Stock Entry"
	VoucherStockReconciliation = "Stock Reconciliation"
)

// StockLedgerEntry is one immutable movement in the stock ledger.
// Entries are never updated except for DocStatus, which flips to
// cancelled together with the voucher.
type StockLedgerEntry struct {
	ID id.ID `db:"id" json:"id"`

	// Dimensions
	ItemCode  string `db:"item_code" json:"itemCode"`
	Warehouse string `db:"warehouse" json:"warehouse"`

	PostingDate time.Time `db:"posting_date" json:"postingDate"`
	PostingTime string    `db:"posting_time" json:"postingTime"`

	// ActualQty is signed: positive for receipts, negative for issues.
	ActualQty types.Quantity `db:"actual_qty" json:"actualQty"`

	// QtyAfterTransaction is the running balance of item+warehouse.
	QtyAfterTransaction types.Quantity `db:"qty_after_transaction" json:"qtyAfterTransaction"`

	VoucherType     string `db:"voucher_type" json:"voucherType"`
	VoucherID       id.ID  `db:"voucher_id" json:"voucherId"`
	VoucherNo       string `db:"voucher_no" json:"voucherNo"`
	VoucherDetailNo string `db:"voucher_detail_no" json:"voucherDetailNo"`

	DocStatus DocStatus `db:"docstatus" json:"docstatus"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockLedgerEntry creates a submitted entry with generated ID.
func NewStockLedgerEntry(
	voucherType string,
	voucherID id.ID,
	voucherNo, voucherDetailNo string,
	itemCode, warehouse string,
	postingDate time.Time,
	postingTime string,
	actualQty types.Quantity,
) StockLedgerEntry {
	return StockLedgerEntry{
		ID:              id.New(),
		ItemCode:        itemCode,
		Warehouse:       warehouse,
		PostingDate:     postingDate,
		PostingTime:     postingTime,
		ActualQty:       actualQty,
		VoucherType:     voucherType,
		VoucherID:       voucherID,
		VoucherNo:       voucherNo,
		VoucherDetailNo: voucherDetailNo,
		DocStatus:       DocStatusSubmitted,
		CreatedAt:       time.Now().UTC(),
	}
}

// IsReconciliation reports whether QtyAfterTransaction is the authoritative
// value of the entry (absolute target) rather than ActualQty.
func (e *StockLedgerEntry) IsReconciliation() bool {
	return e.VoucherType == VoucherStockReconciliation
}

// Bin is the per item+warehouse quantity snapshot.
type Bin struct {
	ItemCode  string `db:"item_code" json:"itemCode"`
	Warehouse string `db:"warehouse" json:"warehouse"`

	ActualQty   types.Quantity `db:"actual_qty" json:"actualQty"`
	OrderedQty  types.Quantity `db:"ordered_qty" json:"orderedQty"`
	IndentedQty types.Quantity `db:"indented_qty" json:"indentedQty"`
	PlannedQty  types.Quantity `db:"planned_qty" json:"plannedQty"`
	ReservedQty types.Quantity `db:"reserved_qty" json:"reservedQty"`

	ProjectedQty types.Quantity `db:"projected_qty" json:"projectedQty"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBin returns an empty bin for the given key.
func NewBin(itemCode, warehouse string) *Bin {
	return &Bin{ItemCode: itemCode, Warehouse: warehouse}
}

// RecalcProjected sets projected = actual + ordered + indented + planned - reserved.
func (b *Bin) RecalcProjected() {
	b.ProjectedQty = b.ActualQty + b.OrderedQty + b.IndentedQty + b.PlannedQty - b.ReservedQty
	b.UpdatedAt = time.Now().UTC()
}
