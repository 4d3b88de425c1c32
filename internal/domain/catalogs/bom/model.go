// Package bom provides the Bill of Materials catalog.
package bom

import (
	"context"
	"fmt"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
)

// BOM lists the raw materials needed to produce Quantity of ItemCode.
// Code is the BOM number.
type BOM struct {
	entity.Catalog

	ItemCode  string         `db:"item_code" json:"item"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	IsActive  bool           `db:"is_active" json:"isActive"`
	IsDefault bool           `db:"is_default" json:"isDefault"`

	Items []Line `db:"-" json:"items"`
}

// Line is one raw material of a BOM.
type Line struct {
	ID              id.ID          `db:"id" json:"id"`
	BOMID           id.ID          `db:"bom_id" json:"-"`
	Idx             int            `db:"idx" json:"idx"`
	ItemCode        string         `db:"item_code" json:"itemCode"`
	Qty             types.Quantity `db:"qty" json:"qty"`
	SourceWarehouse string         `db:"source_warehouse" json:"sourceWarehouse"`
}

// NewBOM creates an active BOM.
func NewBOM(itemCode string, qty types.Quantity) *BOM {
	return &BOM{
		Catalog:  entity.NewCatalog("", itemCode),
		ItemCode: itemCode,
		Quantity: qty,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (b *BOM) Validate(ctx context.Context) error {
	if b.ItemCode == "" {
		return apperror.NewValidation("Item is mandatory").WithDetail("field", "item")
	}
	if b.Name == "" {
		b.Name = b.ItemCode
	}
	if !b.Quantity.IsPositive() {
		return apperror.NewValidation("Quantity should be greater than 0").WithDetail("field", "quantity")
	}
	if len(b.Items) == 0 {
		return apperror.NewValidation("Raw Materials cannot be blank").WithDetail("field", "items")
	}
	for i := range b.Items {
		line := &b.Items[i]
		line.Idx = i + 1
		if id.IsNil(line.ID) {
			line.ID = id.New()
		}
		line.BOMID = b.ID
		if line.ItemCode == b.ItemCode {
			return apperror.NewValidation(fmt.Sprintf("BOM recursion: %s cannot be a raw material of itself", b.ItemCode)).
				WithDetail("row", line.Idx)
		}
		if !line.Qty.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("Please enter quantity for Item %s", line.ItemCode)).
				WithDetail("row", line.Idx)
		}
	}
	if b.IsDefault && !b.IsActive {
		return apperror.NewValidation("An inactive BOM cannot be default").WithDetail("field", "isDefault")
	}
	return nil
}

// Scale returns the raw materials needed to produce qty of the item.
// Lines are scaled by qty / BOM quantity.
func (b *BOM) Scale(qty types.Quantity) []Line {
	out := make([]Line, len(b.Items))
	for i, line := range b.Items {
		out[i] = line
		out[i].Qty = types.NewQuantityFromDecimal(
			line.Qty.Decimal().Mul(qty.Decimal()).Div(b.Quantity.Decimal()),
		)
	}
	return out
}
