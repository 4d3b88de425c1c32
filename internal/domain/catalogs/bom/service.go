package bom

import (
	"context"
	"fmt"
	"time"

	"rms/internal/core/apperror"
	"rms/internal/core/numerator"
	"rms/internal/core/tx"
	"rms/internal/domain"
)

// Service provides business logic for the BOM catalog.
type Service struct {
	*domain.CatalogService[*BOM]
	repo      Repository
	items     ItemCatalog
	numerator numerator.Generator
}

// NewService creates a new BOM service.
func NewService(repo Repository, items ItemCatalog, num numerator.Generator, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*BOM]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "BOM",
	})
	svc := &Service{CatalogService: base, repo: repo, items: items, numerator: num}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.checkItems)
	base.Hooks().On(domain.AfterCreate, svc.syncDefault)
	base.Hooks().On(domain.AfterUpdate, svc.syncDefault)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, b *BOM) error {
	if b.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("BOM-"+b.ItemCode), time.Now())
		if err != nil {
			return fmt.Errorf("generate bom number: %w", err)
		}
		b.Code = code
	}
	return s.checkItems(ctx, b)
}

func (s *Service) checkItems(ctx context.Context, b *BOM) error {
	codes := []string{b.ItemCode}
	for _, line := range b.Items {
		codes = append(codes, line.ItemCode)
	}
	for _, code := range codes {
		ok, err := s.items.ExistsByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("Item", code)
		}
	}
	return nil
}

// syncDefault keeps a single default BOM per item and mirrors it on the item.
func (s *Service) syncDefault(ctx context.Context, b *BOM) error {
	if !b.IsDefault {
		return nil
	}
	if err := s.repo.ClearDefault(ctx, b.ItemCode, b.ID); err != nil {
		return fmt.Errorf("clear default bom: %w", err)
	}
	return s.items.SetDefaultBOM(ctx, b.ItemCode, b.Code)
}
