package warehouse

import (
	"context"

	"rms/internal/core/apperror"
	"rms/internal/core/tx"
	"rms/internal/domain"
	"rms/internal/domain/catalogs/tree"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "Warehouse",
	})
	svc := &Service{CatalogService: base, repo: repo}

	base.Hooks().On(domain.BeforeCreate, svc.checkParent)
	base.Hooks().On(domain.BeforeUpdate, svc.checkParent)
	tree.Attach(base.Hooks(), repo)

	return svc
}

func (s *Service) checkParent(ctx context.Context, wh *Warehouse) error {
	if wh.IsRoot() {
		return nil
	}
	parent, err := s.repo.GetByID(ctx, *wh.ParentID)
	if err != nil {
		return err
	}
	if !parent.IsGroup {
		return apperror.NewValidation("Parent Warehouse "+parent.Code+" is not a group").
			WithDetail("field", "parentId")
	}
	return nil
}

// GetStockWarehouse returns the warehouse when it can hold stock.
func (s *Service) GetStockWarehouse(ctx context.Context, code string) (*Warehouse, error) {
	wh, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !wh.CanHoldStock() {
		return nil, apperror.NewValidation("Group Warehouse "+code+" cannot be used in transactions").
			WithDetail("warehouse", code)
	}
	return wh, nil
}
