package item

import (
	"context"
	"fmt"
	"time"

	"rms/internal/core/apperror"
	"rms/internal/core/numerator"
	"rms/internal/core/tx"
	"rms/internal/domain"
)

// Service provides business logic for the Item catalog.
type Service struct {
	*domain.CatalogService[*Item]
	repo      Repository
	groups    GroupChecker
	numerator numerator.Generator
}

// NewService creates a new Item service.
func NewService(repo Repository, groups GroupChecker, num numerator.Generator, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "Item",
	})
	svc := &Service{CatalogService: base, repo: repo, groups: groups, numerator: num}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.checkGroup)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	if it.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ITEM"), time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}
	return s.checkGroup(ctx, it)
}

func (s *Service) checkGroup(ctx context.Context, it *Item) error {
	ok, err := s.groups.ExistsByCode(ctx, it.ItemGroup)
	if err != nil {
		return fmt.Errorf("check item group: %w", err)
	}
	if !ok {
		return apperror.NewValidation(fmt.Sprintf("Item Group %s does not exist", it.ItemGroup)).
			WithDetail("field", "itemGroup")
	}
	return nil
}

// SetDefaultBOM records bomNo as the item's default BOM.
func (s *Service) SetDefaultBOM(ctx context.Context, itemCode, bomNo string) error {
	return s.repo.SetDefaultBOM(ctx, itemCode, bomNo)
}
