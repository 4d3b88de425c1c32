package item

import (
	"context"

	"rms/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// SetDefaultBOM points the item at a BOM (empty clears it).
	SetDefaultBOM(ctx context.Context, itemCode, bomNo string) error
}

// GroupChecker verifies that an item group exists.
type GroupChecker interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
