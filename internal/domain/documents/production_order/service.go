package production_order

import (
	"context"
	"fmt"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/numerator"
	"rms/internal/core/types"
	"rms/internal/domain"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/documents"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/domain/posting"
	"rms/internal/domain/registers/stock"
	"rms/pkg/logger"
)

// Repository persists production orders with their required items.
type Repository interface {
	Create(ctx context.Context, doc *ProductionOrder) error
	Update(ctx context.Context, doc *ProductionOrder) error
	Delete(ctx context.Context, docID id.ID) error
	GetByID(ctx context.Context, docID id.ID) (*ProductionOrder, error)
	GetForUpdate(ctx context.Context, docID id.ID) (*ProductionOrder, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*ProductionOrder], error)

	// ListPlanned returns live orders whose planned dates overlap the filter window.
	ListPlanned(ctx context.Context, filter CalendarFilter) ([]*ProductionOrder, error)

	// PlannedQty is Σ (qty - produced_qty) of submitted, not stopped orders
	// producing itemCode into fgWarehouse.
	PlannedQty(ctx context.Context, itemCode, fgWarehouse string) (types.Quantity, error)

	// SubmittedStockEntry returns the number of a submitted stock entry made
	// against the order, or "".
	SubmittedStockEntry(ctx context.Context, orderID id.ID) (string, error)
}

// ListFilter for filtering production orders.
type ListFilter struct {
	domain.ListFilter

	Status         Status
	ProductionItem string
}

// BOMReader loads BOMs by number.
type BOMReader interface {
	GetByCode(ctx context.Context, code string) (*bom.BOM, error)
}

// PlannedQtySetter writes Bin.planned_qty.
type PlannedQtySetter interface {
	SetPlannedQty(ctx context.Context, key stock.BinKey, qty types.Quantity) error
}

// WIPDefaults provides the default work in progress warehouse.
type WIPDefaults interface {
	DefaultWIPWarehouse(ctx context.Context) (string, error)
}

// Service provides business operations for production orders.
type Service struct {
	repo       Repository
	engine     *posting.Engine
	lifecycle  *posting.Lifecycle[*ProductionOrder]
	numerator  numerator.Generator
	boms       BOMReader
	items      documents.ItemReader
	warehouses documents.WarehouseReader
	planner    PlannedQtySetter
	defaults   WIPDefaults
}

// Deps groups the collaborators of the service.
type Deps struct {
	Repo       Repository
	Engine     *posting.Engine
	Numerator  numerator.Generator
	BOMs       BOMReader
	Items      documents.ItemReader
	Warehouses documents.WarehouseReader
	Planner    PlannedQtySetter
	Defaults   WIPDefaults
}

// NewService creates a new production order service.
func NewService(d Deps) *Service {
	s := &Service{
		repo:       d.Repo,
		engine:     d.Engine,
		numerator:  d.Numerator,
		boms:       d.BOMs,
		items:      d.Items,
		warehouses: d.Warehouses,
		planner:    d.Planner,
		defaults:   d.Defaults,
	}
	s.lifecycle = posting.NewLifecycle(d.Engine, Doctype, d.Repo.Update)

	hooks := s.lifecycle.Hooks()
	hooks.On(domain.Validate, s.validateReferences)
	hooks.On(domain.BeforeSubmit, s.setStatus)
	hooks.On(domain.BeforeCancel, s.checkStockEntries)
	hooks.On(domain.BeforeCancel, s.setStatus)
	hooks.On(domain.OnSubmit, s.updatePlannedQty)
	hooks.On(domain.OnCancel, s.updatePlannedQty)
	hooks.On(domain.OnStatusChange, s.updatePlannedQty)
	return s
}

// Hooks returns the lifecycle hooks.
func (s *Service) Hooks() *domain.HookRegistry[*ProductionOrder] {
	return s.lifecycle.Hooks()
}

// AttachStockEntries makes submitted and cancelled stock entries update
// their production order.
func (s *Service) AttachStockEntries(hooks *domain.HookRegistry[*stock_entry.StockEntry]) {
	hooks.On(domain.Validate, s.checkStockEntryOrder)
	hooks.On(domain.OnSubmit, func(ctx context.Context, se *stock_entry.StockEntry) error {
		return s.applyStockEntry(ctx, se, false)
	})
	hooks.On(domain.OnCancel, func(ctx context.Context, se *stock_entry.StockEntry) error {
		return s.applyStockEntry(ctx, se, true)
	})
}

func (s *Service) validateReferences(ctx context.Context, po *ProductionOrder) error {
	resolver := documents.NewResolver(s.items, s.warehouses)

	item, err := resolver.ActiveItem(ctx, po.ProductionItem, po.PlannedStartDate)
	if err != nil {
		return err
	}
	if po.Description == "" {
		po.Description = item.Description
	}

	if po.BOMNo == "" {
		po.BOMNo = item.DefaultBOM
	}
	if po.BOMNo == "" {
		return apperror.NewValidation(fmt.Sprintf("No default BOM exists for Item %s", po.ProductionItem)).
			WithDetail("field", "bomNo")
	}
	if po.DocStatus == entity.DocStatusDraft {
		b, err := s.boms.GetByCode(ctx, po.BOMNo)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("BOM", po.BOMNo)
			}
			return fmt.Errorf("get bom: %w", err)
		}
		if err := po.SetRequiredItems(b); err != nil {
			return err
		}
	}

	if po.WIPWarehouse == "" {
		if po.WIPWarehouse, err = s.defaults.DefaultWIPWarehouse(ctx); err != nil {
			return err
		}
	}
	for _, wh := range []string{po.FGWarehouse, po.WIPWarehouse} {
		if wh == "" {
			continue
		}
		if _, err := resolver.StockWarehouse(ctx, wh); err != nil {
			return err
		}
	}
	for _, it := range po.RequiredItems {
		if it.SourceWarehouse == "" {
			continue
		}
		if _, err := resolver.StockWarehouse(ctx, it.SourceWarehouse); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) setStatus(_ context.Context, po *ProductionOrder) error {
	po.SetStatus()
	return nil
}

func (s *Service) checkStockEntries(ctx context.Context, po *ProductionOrder) error {
	number, err := s.repo.SubmittedStockEntry(ctx, po.ID)
	if err != nil {
		return fmt.Errorf("check stock entries: %w", err)
	}
	if number != "" {
		return apperror.NewValidation(
			fmt.Sprintf("Stock Entry %s is already submitted against %s %s. Cancel it first.", number, Doctype, po.Number),
		)
	}
	return nil
}

func (s *Service) updatePlannedQty(ctx context.Context, po *ProductionOrder) error {
	qty, err := s.repo.PlannedQty(ctx, po.ProductionItem, po.FGWarehouse)
	if err != nil {
		return fmt.Errorf("get planned qty: %w", err)
	}
	return s.planner.SetPlannedQty(ctx, stock.BinKey{ItemCode: po.ProductionItem, Warehouse: po.FGWarehouse}, qty)
}

func (s *Service) checkStockEntryOrder(ctx context.Context, se *stock_entry.StockEntry) error {
	if se.ProductionOrderID == nil {
		return nil
	}
	po, err := s.repo.GetByID(ctx, *se.ProductionOrderID)
	if err != nil {
		return err
	}
	return po.checkOpen()
}

func (s *Service) applyStockEntry(ctx context.Context, se *stock_entry.StockEntry, reverse bool) error {
	move, ok := se.ProductionMove(reverse)
	if !ok {
		return nil
	}

	po, err := s.repo.GetForUpdate(ctx, move.OrderID)
	if err != nil {
		return err
	}
	if err := po.ApplyMove(move); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, po); err != nil {
		return fmt.Errorf("update production order: %w", err)
	}
	return s.updatePlannedQty(ctx, po)
}

// Create saves a new draft order.
func (s *Service) Create(ctx context.Context, doc *ProductionOrder) error {
	// The number is taken in the save transaction and returned with it
	// when the save fails or is replayed.
	numbered := doc.Number == ""
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		if numbered {
			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PRO"), doc.PlannedStartDate)
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

	logger.Info(ctx, "production order created",
		"id", doc.ID,
		"number", doc.Number,
		"item", doc.ProductionItem)
	return nil
}

// Update saves changes to a draft order.
func (s *Service) Update(ctx context.Context, doc *ProductionOrder) error {
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
		doc.ProducedQty = stored.ProducedQty
		return s.lifecycle.Save(ctx, doc, s.repo.Update)
	})
}

// Delete soft-deletes a draft order.
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

// GetByID retrieves an order with its required items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*ProductionOrder, error) {
	return s.repo.GetByID(ctx, docID)
}

// List returns order headers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ProductionOrder], error) {
	return s.repo.List(ctx, filter)
}

// Submit releases the order to production.
func (s *Service) Submit(ctx context.Context, docID id.ID) (*ProductionOrder, error) {
	var doc *ProductionOrder
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Submit(ctx, doc)
	})
	return doc, err
}

// Cancel cancels a submitted order.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*ProductionOrder, error) {
	var doc *ProductionOrder
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Cancel(ctx, doc)
	})
	return doc, err
}

// SetStopped stops or resumes a submitted order, then runs the
// OnStatusChange hooks: the planned qty of the order and the requested qty
// of its material request are refreshed.
func (s *Service) SetStopped(ctx context.Context, docID id.ID, stopped bool) (*ProductionOrder, error) {
	var doc *ProductionOrder
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		if stopped {
			err = doc.Stop()
		} else {
			err = doc.Resume()
		}
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update production order: %w", err)
		}
		return s.lifecycle.Hooks().Run(ctx, domain.OnStatusChange, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "production order status changed", "number", doc.Number, "status", doc.Status)
	return doc, nil
}

// Calendar returns the orders planned in the filter window as events.
func (s *Service) Calendar(ctx context.Context, filter CalendarFilter) ([]Event, error) {
	if filter.End.Before(filter.Start) {
		return nil, apperror.NewValidation("End must not be before Start")
	}
	orders, err := s.repo.ListPlanned(ctx, filter)
	if err != nil {
		return nil, err
	}
	return CalendarEvents(orders), nil
}
