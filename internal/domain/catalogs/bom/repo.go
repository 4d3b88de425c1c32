package bom

import (
	"context"

	"rms/internal/core/id"
	"rms/internal/domain"
)

// Repository defines the interface for BOM persistence. Lines are saved
// and loaded together with the header.
type Repository interface {
	domain.CatalogRepository[*BOM]

	// ClearDefault unsets is_default on the item's other BOMs.
	ClearDefault(ctx context.Context, itemCode string, except id.ID) error
}

// ItemCatalog is what the BOM service needs from the Item catalog.
type ItemCatalog interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
	SetDefaultBOM(ctx context.Context, itemCode, bomNo string) error
}
