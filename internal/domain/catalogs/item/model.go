// Package item provides the Item catalog.
package item

import (
	"context"
	"fmt"
	"time"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
)

// DefaultUOM is used when an item is saved without a stock UOM.
const DefaultUOM = "Nos"

// Item is a stock or non-stock article. Code is the item code that
// documents and registers reference.
type Item struct {
	entity.Catalog

	ItemGroup   string     `db:"item_group" json:"itemGroup"`
	Description string     `db:"description" json:"description"`
	StockUOM    string     `db:"stock_uom" json:"stockUom"`
	IsStockItem bool       `db:"is_stock_item" json:"isStockItem"`
	Disabled    bool       `db:"disabled" json:"disabled"`
	EndOfLife   *time.Time `db:"end_of_life" json:"endOfLife,omitempty"`

	// DefaultBOM is maintained by the BOM catalog.
	DefaultBOM string `db:"default_bom" json:"defaultBom"`
}

// NewItem creates a stock item.
func NewItem(code, name, group string) *Item {
	return &Item{
		Catalog:     entity.NewCatalog(code, name),
		ItemGroup:   group,
		StockUOM:    DefaultUOM,
		IsStockItem: true,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if i.Name == "" {
		i.Name = i.Code
	}
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}
	if i.ItemGroup == "" {
		return apperror.NewValidation("Item Group is mandatory").WithDetail("field", "itemGroup")
	}
	if i.StockUOM == "" {
		i.StockUOM = DefaultUOM
	}
	return nil
}

// CheckActive fails for disabled items and items past their end of life on the given date.
func (i *Item) CheckActive(on time.Time) error {
	if i.Disabled {
		return apperror.NewValidation(fmt.Sprintf("Item %s is disabled", i.Code)).
			WithDetail("item_code", i.Code)
	}
	if i.EndOfLife != nil && !i.EndOfLife.After(on) {
		return apperror.NewValidation(fmt.Sprintf("Item %s has reached its end of life on %s",
			i.Code, i.EndOfLife.Format(time.DateOnly))).
			WithDetail("item_code", i.Code)
	}
	return nil
}
