// Package documents holds helpers shared by the document services.
package documents

import (
	"context"
	"fmt"
	"time"

	"rms/internal/core/apperror"
	"rms/internal/domain/catalogs/item"
	"rms/internal/domain/catalogs/warehouse"
)

// ItemReader loads items by code.
type ItemReader interface {
	GetByCode(ctx context.Context, code string) (*item.Item, error)
}

// WarehouseReader loads warehouses by code.
type WarehouseReader interface {
	GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error)
}

// Resolver resolves the catalog references of document rows. Lookups are
// memoized for the lifetime of the resolver, so create one per operation.
type Resolver struct {
	items      ItemReader
	warehouses WarehouseReader

	itemCache map[string]*item.Item
	whCache   map[string]*warehouse.Warehouse
}

// NewResolver creates a resolver.
func NewResolver(items ItemReader, warehouses WarehouseReader) *Resolver {
	return &Resolver{
		items:      items,
		warehouses: warehouses,
		itemCache:  make(map[string]*item.Item),
		whCache:    make(map[string]*warehouse.Warehouse),
	}
}

// Item returns the item or a not found error.
func (r *Resolver) Item(ctx context.Context, code string) (*item.Item, error) {
	if it, ok := r.itemCache[code]; ok {
		return it, nil
	}
	it, err := r.items.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Item", code)
		}
		return nil, fmt.Errorf("get item %s: %w", code, err)
	}
	r.itemCache[code] = it
	return it, nil
}

// ActiveItem returns the item when it is enabled and not past end of life.
func (r *Resolver) ActiveItem(ctx context.Context, code string, on time.Time) (*item.Item, error) {
	it, err := r.Item(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := it.CheckActive(on); err != nil {
		return nil, err
	}
	return it, nil
}

// StockWarehouse returns the warehouse when stock can be posted to it.
func (r *Resolver) StockWarehouse(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	if wh, ok := r.whCache[code]; ok {
		return wh, nil
	}
	wh, err := r.warehouses.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("Warehouse", code)
		}
		return nil, fmt.Errorf("get warehouse %s: %w", code, err)
	}
	if !wh.CanHoldStock() {
		return nil, apperror.NewValidation(fmt.Sprintf("Group Warehouse %s cannot be used in transactions", code)).
			WithDetail("warehouse", code)
	}
	r.whCache[code] = wh
	return wh, nil
}
