// Package warehouse provides the Warehouse catalog.
// Warehouses form a tree; stock is only held in leaf warehouses.
package warehouse

import (
	"context"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
)

// Warehouse is a storage location. Code is the warehouse name used by
// documents and registers.
type Warehouse struct {
	entity.Catalog
	entity.TreeNode
}

// NewWarehouse creates a leaf warehouse.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{Catalog: entity.NewCatalog(code, name)}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Code == "" {
		return apperror.NewValidation("Warehouse name is required").WithDetail("field", "code")
	}
	if w.Name == "" {
		w.Name = w.Code
	}
	if w.ParentID != nil && *w.ParentID == w.ID {
		return apperror.NewValidation("Warehouse cannot be its own parent").WithDetail("field", "parentId")
	}
	return nil
}

// CanHoldStock reports whether ledger entries may be posted to the warehouse.
func (w *Warehouse) CanHoldStock() bool {
	return !w.IsGroup && !w.DeletionMark
}
