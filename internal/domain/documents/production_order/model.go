// Package production_order provides the Production Order document and its
// required items (Production Order Item).
package production_order

import (
	"context"
	"fmt"
	"time"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/documents/stock_entry"
)

// Doctype is the document type name.
const Doctype = "Production Order"

// Status is the progress status of an order.
type Status string

const (
	StatusDraft      Status = "Draft"
	StatusNotStarted Status = "Not Started"
	StatusInProcess  Status = "In Process"
	StatusCompleted  Status = "Completed"
	StatusStopped    Status = "Stopped"
	StatusCancelled  Status = "Cancelled"
)

// ProductionOrder plans the production of Qty of ProductionItem.
type ProductionOrder struct {
	entity.Document

	Status               Status         `db:"status" json:"status"`
	ProductionItem       string         `db:"production_item" json:"productionItem"`
	BOMNo                string         `db:"bom_no" json:"bomNo"`
	Qty                  types.Quantity `db:"qty" json:"qty"`
	ProducedQty          types.Quantity `db:"produced_qty" json:"producedQty"`
	FGWarehouse          string         `db:"fg_warehouse" json:"fgWarehouse"`
	WIPWarehouse         string         `db:"wip_warehouse" json:"wipWarehouse"`
	Description          string         `db:"description" json:"description"`
	PlannedStartDate     time.Time      `db:"planned_start_date" json:"plannedStartDate"`
	PlannedEndDate       *time.Time     `db:"planned_end_date" json:"plannedEndDate,omitempty"`
	ExpectedDeliveryDate *time.Time     `db:"expected_delivery_date" json:"expectedDeliveryDate,omitempty"`

	MaterialRequestID     *id.ID `db:"material_request_id" json:"materialRequest,omitempty"`
	MaterialRequestItemID *id.ID `db:"material_request_item_id" json:"materialRequestItem,omitempty"`

	RequiredItems []Item `db:"-" json:"requiredItems"`
}

// Item is a Production Order Item: one raw material to be transferred to
// the work in progress warehouse.
type Item struct {
	ID                id.ID          `db:"id" json:"id"`
	ProductionOrderID id.ID          `db:"production_order_id" json:"-"`
	Idx               int            `db:"idx" json:"idx"`
	ItemCode          string         `db:"item_code" json:"itemCode"`
	SourceWarehouse   string         `db:"source_warehouse" json:"sourceWarehouse"`
	RequiredQty       types.Quantity `db:"required_qty" json:"requiredQty"`
	TransferredQty    types.Quantity `db:"transferred_qty" json:"transferredQty"`
}

// NewProductionOrder creates a draft order.
func NewProductionOrder(productionItem string, qty types.Quantity, plannedStart time.Time) *ProductionOrder {
	return &ProductionOrder{
		Document:         entity.NewDocument(),
		Status:           StatusDraft,
		ProductionItem:   productionItem,
		Qty:              qty,
		PlannedStartDate: plannedStart,
		RequiredItems:    make([]Item, 0),
	}
}

// Validate implements entity.Validatable interface.
func (po *ProductionOrder) Validate(ctx context.Context) error {
	if err := po.Document.Validate(ctx); err != nil {
		return err
	}
	if po.ProductionItem == "" {
		return apperror.NewValidation("Item to Manufacture is required").WithDetail("field", "productionItem")
	}
	if !po.Qty.IsPositive() {
		return apperror.NewValidation("Quantity to Manufacture must be greater than 0.").WithDetail("field", "qty")
	}
	if po.FGWarehouse == "" {
		return apperror.NewValidation("For Warehouse is required").WithDetail("field", "fgWarehouse")
	}
	if po.PlannedStartDate.IsZero() {
		return apperror.NewValidation("Planned Start Date is required").WithDetail("field", "plannedStartDate")
	}
	if po.PlannedEndDate == nil {
		end := po.PlannedStartDate
		po.PlannedEndDate = &end
	}
	if po.PlannedEndDate.Before(po.PlannedStartDate) {
		return apperror.NewValidation("Planned End Date cannot be before Planned Start Date").
			WithDetail("field", "plannedEndDate")
	}
	if po.Status == "" {
		po.Status = StatusDraft
	}
	return nil
}

// SetRequiredItems builds the required items from b scaled to the order qty.
func (po *ProductionOrder) SetRequiredItems(b *bom.BOM) error {
	if b.ItemCode != po.ProductionItem {
		return apperror.NewValidation(fmt.Sprintf("BOM %s does not belong to Item %s", b.Code, po.ProductionItem)).
			WithDetail("field", "bomNo")
	}
	if !b.IsActive {
		return apperror.NewValidation(fmt.Sprintf("BOM %s must be active", b.Code)).
			WithDetail("field", "bomNo")
	}

	// Rows with the same item and source warehouse are merged.
	type key struct{ item, warehouse string }
	index := make(map[key]int)
	items := make([]Item, 0, len(b.Items))
	for _, line := range b.Scale(po.Qty) {
		k := key{line.ItemCode, line.SourceWarehouse}
		if i, ok := index[k]; ok {
			items[i].RequiredQty += line.Qty
			continue
		}
		index[k] = len(items)
		items = append(items, Item{
			ID:                id.New(),
			ProductionOrderID: po.ID,
			Idx:               len(items) + 1,
			ItemCode:          line.ItemCode,
			SourceWarehouse:   line.SourceWarehouse,
			RequiredQty:       line.Qty,
		})
	}
	po.BOMNo = b.Code
	po.RequiredItems = items
	return nil
}

// PendingQty is the quantity still to be produced.
func (po *ProductionOrder) PendingQty() types.Quantity {
	if po.Qty > po.ProducedQty {
		return po.Qty - po.ProducedQty
	}
	return 0
}

// SetStatus derives the status from docstatus and progress. A stopped
// order keeps its status until resumed.
func (po *ProductionOrder) SetStatus() {
	switch po.DocStatus {
	case entity.DocStatusDraft:
		po.Status = StatusDraft
		return
	case entity.DocStatusCancelled:
		po.Status = StatusCancelled
		return
	}
	if po.Status == StatusStopped {
		return
	}
	switch {
	case po.ProducedQty >= po.Qty:
		po.Status = StatusCompleted
	case po.ProducedQty.IsPositive() || po.anyTransferred():
		po.Status = StatusInProcess
	default:
		po.Status = StatusNotStarted
	}
}

func (po *ProductionOrder) anyTransferred() bool {
	for _, it := range po.RequiredItems {
		if it.TransferredQty.IsPositive() {
			return true
		}
	}
	return false
}

// Stop halts a submitted order; Resume undoes it.
func (po *ProductionOrder) Stop() error {
	if po.DocStatus != entity.DocStatusSubmitted {
		return apperror.NewInvalidStatus(fmt.Sprintf("%s %s is not submitted", Doctype, po.Number))
	}
	if po.Status == StatusCompleted {
		return apperror.NewInvalidStatus(fmt.Sprintf("%s %s is already completed", Doctype, po.Number))
	}
	po.Status = StatusStopped
	return nil
}

// Resume restarts a stopped order.
func (po *ProductionOrder) Resume() error {
	if po.Status != StatusStopped {
		return apperror.NewInvalidStatus(fmt.Sprintf("%s %s is not stopped", Doctype, po.Number))
	}
	po.Status = ""
	po.SetStatus()
	return nil
}

// checkOpen fails unless the order accepts stock entries.
func (po *ProductionOrder) checkOpen() error {
	if po.DocStatus != entity.DocStatusSubmitted {
		return apperror.NewInvalidStatus(fmt.Sprintf("%s %s is not submitted", Doctype, po.Number))
	}
	if po.Status == StatusStopped {
		return apperror.NewInvalidStatus(fmt.Sprintf("Transaction not allowed against stopped %s %s", Doctype, po.Number))
	}
	return nil
}

// ApplyMove records what a submitted (or cancelled) stock entry did to the
// order: transfers to work in progress or produced quantity.
func (po *ProductionOrder) ApplyMove(move stock_entry.ProductionMove) error {
	if err := po.checkOpen(); err != nil {
		return err
	}

	switch move.Purpose {
	case stock_entry.PurposeMaterialTransferManufacture:
		for code, qty := range move.Transferred {
			if move.Reverse {
				qty = qty.Neg()
			}
			for i := range po.RequiredItems {
				if po.RequiredItems[i].ItemCode == code {
					po.RequiredItems[i].TransferredQty += qty
					break
				}
			}
		}
	case stock_entry.PurposeManufacture:
		produced := po.ProducedQty + move.Produced
		if move.Reverse {
			produced = po.ProducedQty - move.Produced
		}
		if produced > po.Qty {
			return apperror.NewValidation(fmt.Sprintf(
				"Cannot produce more Item %s than Production Order quantity %s", po.ProductionItem, po.Qty,
			)).WithDetail("field", "fgCompletedQty")
		}
		if produced.IsNegative() {
			produced = 0
		}
		po.ProducedQty = produced
	}

	po.SetStatus()
	return nil
}
