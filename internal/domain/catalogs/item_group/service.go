package item_group

import (
	"rms/internal/core/tx"
	"rms/internal/domain"
	"rms/internal/domain/catalogs/tree"
)

// Service provides business logic for the Item Group catalog.
type Service struct {
	*domain.CatalogService[*ItemGroup]
}

// NewService creates a new Item Group service.
func NewService(repo Repository, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*ItemGroup]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "Item Group",
	})
	tree.Attach(base.Hooks(), repo)
	return &Service{CatalogService: base}
}
