package stock_entry

import (
	"context"

	"rms/internal/core/id"
	"rms/internal/domain"
)

// Repository persists stock entries. Create and Update write the header and
// the rows; the getters return the entry with its rows.
type Repository interface {
	Create(ctx context.Context, doc *StockEntry) error
	Update(ctx context.Context, doc *StockEntry) error
	Delete(ctx context.Context, docID id.ID) error
	GetByID(ctx context.Context, docID id.ID) (*StockEntry, error)
	GetByNumber(ctx context.Context, number string) (*StockEntry, error)
	GetForUpdate(ctx context.Context, docID id.ID) (*StockEntry, error)

	// List returns headers only.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockEntry], error)
}

// ListFilter for filtering stock entries.
type ListFilter struct {
	domain.ListFilter

	Purpose           Purpose
	ProductionOrderID *id.ID
}
