package warehouse

import (
	"rms/internal/domain"
	"rms/internal/domain/catalogs/tree"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]
	tree.Repository
}
