package stock_entry

import (
	"context"
	"fmt"

	"rms/internal/core/id"
	"rms/internal/core/numerator"
	"rms/internal/domain"
	"rms/internal/domain/documents"
	"rms/internal/domain/posting"
	"rms/pkg/logger"
)

// Service provides business operations for stock entries.
type Service struct {
	repo       Repository
	engine     *posting.Engine
	lifecycle  *posting.Lifecycle[*StockEntry]
	numerator  numerator.Generator
	items      documents.ItemReader
	warehouses documents.WarehouseReader
}

// NewService creates a new stock entry service.
func NewService(
	repo Repository,
	engine *posting.Engine,
	num numerator.Generator,
	items documents.ItemReader,
	warehouses documents.WarehouseReader,
) *Service {
	s := &Service{
		repo:       repo,
		engine:     engine,
		numerator:  num,
		items:      items,
		warehouses: warehouses,
	}
	s.lifecycle = posting.NewLifecycle(engine, Doctype, repo.Update)
	s.lifecycle.Hooks().On(domain.Validate, s.validateReferences)
	return s
}

// Hooks returns the lifecycle hooks, used by documents that follow stock
// entries (material requests, production orders).
func (s *Service) Hooks() *domain.HookRegistry[*StockEntry] {
	return s.lifecycle.Hooks()
}

func (s *Service) validateReferences(ctx context.Context, se *StockEntry) error {
	resolver := documents.NewResolver(s.items, s.warehouses)
	for i := range se.Items {
		it := &se.Items[i]
		item, err := resolver.ActiveItem(ctx, it.ItemCode, se.PostingDate)
		if err != nil {
			return err
		}
		if it.UOM == "" {
			it.UOM = item.StockUOM
		}
		for _, wh := range []string{it.SWarehouse, it.TWarehouse} {
			if wh == "" {
				continue
			}
			if _, err := resolver.StockWarehouse(ctx, wh); err != nil {
				return err
			}
		}
	}
	return nil
}

// Create saves a new draft entry.
func (s *Service) Create(ctx context.Context, doc *StockEntry) error {
	// The number is taken in the save transaction and returned with it
	// when the save fails or is replayed.
	numbered := doc.Number == ""
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		if numbered {
			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("STE"), doc.PostingDate)
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

	logger.Info(ctx, "stock entry created", "id", doc.ID, "number", doc.Number, "purpose", doc.Purpose)
	return nil
}

// Update saves changes to a draft entry.
func (s *Service) Update(ctx context.Context, doc *StockEntry) error {
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

// Delete soft-deletes a draft entry.
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

// GetByID retrieves an entry with its rows.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*StockEntry, error) {
	return s.repo.GetByID(ctx, docID)
}

// List returns entry headers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockEntry], error) {
	return s.repo.List(ctx, filter)
}

// Submit posts the entry to the stock ledger.
func (s *Service) Submit(ctx context.Context, docID id.ID) (*StockEntry, error) {
	var doc *StockEntry
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Submit(ctx, doc)
	})
	return doc, err
}

// Cancel reverses the entry's ledger entries.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*StockEntry, error) {
	var doc *StockEntry
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Cancel(ctx, doc)
	})
	return doc, err
}
