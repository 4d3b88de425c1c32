package stock_reconciliation

import (
	"context"
	"fmt"

	"rms/internal/core/id"
	"rms/internal/core/numerator"
	"rms/internal/core/types"
	"rms/internal/domain"
	"rms/internal/domain/documents"
	"rms/internal/domain/posting"
	"rms/pkg/logger"
)

// Repository persists reconciliations with their rows.
type Repository interface {
	Create(ctx context.Context, doc *StockReconciliation) error
	Update(ctx context.Context, doc *StockReconciliation) error
	Delete(ctx context.Context, docID id.ID) error
	GetByID(ctx context.Context, docID id.ID) (*StockReconciliation, error)
	GetForUpdate(ctx context.Context, docID id.ID) (*StockReconciliation, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*StockReconciliation], error)
}

// BalanceReader returns the book quantity of an item in a warehouse.
type BalanceReader interface {
	ActualQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error)
}

// Service provides business operations for stock reconciliations.
type Service struct {
	repo       Repository
	engine     *posting.Engine
	lifecycle  *posting.Lifecycle[*StockReconciliation]
	numerator  numerator.Generator
	balances   BalanceReader
	items      documents.ItemReader
	warehouses documents.WarehouseReader
}

// NewService creates a new stock reconciliation service.
func NewService(
	repo Repository,
	engine *posting.Engine,
	num numerator.Generator,
	balances BalanceReader,
	items documents.ItemReader,
	warehouses documents.WarehouseReader,
) *Service {
	s := &Service{
		repo:       repo,
		engine:     engine,
		numerator:  num,
		balances:   balances,
		items:      items,
		warehouses: warehouses,
	}
	s.lifecycle = posting.NewLifecycle(engine, Doctype, repo.Update)
	s.lifecycle.Hooks().On(domain.Validate, s.validateReferences)
	s.lifecycle.Hooks().On(domain.BeforeSave, s.setCurrentQty)
	return s
}

func (s *Service) validateReferences(ctx context.Context, sr *StockReconciliation) error {
	resolver := documents.NewResolver(s.items, s.warehouses)
	for _, it := range sr.Items {
		if _, err := resolver.ActiveItem(ctx, it.ItemCode, sr.PostingDate); err != nil {
			return err
		}
		if _, err := resolver.StockWarehouse(ctx, it.Warehouse); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) setCurrentQty(ctx context.Context, sr *StockReconciliation) error {
	for i := range sr.Items {
		it := &sr.Items[i]
		current, err := s.balances.ActualQty(ctx, it.ItemCode, it.Warehouse)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		it.CurrentQty = current
	}
	return nil
}

// Create saves a new draft.
func (s *Service) Create(ctx context.Context, doc *StockReconciliation) error {
	// The number is taken in the save transaction and returned with it
	// when the save fails or is replayed.
	numbered := doc.Number == ""
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		if numbered {
			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SR"), doc.PostingDate)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}
		return s.lifecycle.Save(ctx, doc, s.repo.Create)
	})
	if err != nil {
		if numbered {
			doc.Number = ""
		}
		return err
	}

	logger.Info(ctx, "stock reconciliation created", "id", doc.ID, "number", doc.Number)
	return nil
}

// Update saves changes to a draft.
func (s *Service) Update(ctx context.Context, doc *StockReconciliation) error {
	return s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := stored.CanModify(); err != nil {
			return err
		}
		doc.Number = stored.Number
		doc.DocStatus = stored.DocStatus
		doc.CreatedAt = stored.CreatedAt
		return s.lifecycle.Save(ctx, doc, s.repo.Update)
	})
}

// Delete soft-deletes a draft.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CanModify(); err != nil {
			return err
		}
		return s.repo.Delete(ctx, docID)
	})
}

// GetByID retrieves a reconciliation with its rows.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*StockReconciliation, error) {
	return s.repo.GetByID(ctx, docID)
}

// List returns reconciliation headers.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*StockReconciliation], error) {
	return s.repo.List(ctx, filter)
}

// Submit posts the counted quantities.
func (s *Service) Submit(ctx context.Context, docID id.ID) (*StockReconciliation, error) {
	var doc *StockReconciliation
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Submit(ctx, doc)
	})
	return doc, err
}

// Cancel restores the quantities that were replaced.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*StockReconciliation, error) {
	var doc *StockReconciliation
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Cancel(ctx, doc)
	})
	return doc, err
}
