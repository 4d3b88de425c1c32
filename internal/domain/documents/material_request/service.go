package material_request

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/numerator"
	"rms/internal/core/types"
	"rms/internal/domain"
	"rms/internal/domain/documents"
	"rms/internal/domain/documents/production_order"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/domain/posting"
	"rms/internal/domain/registers/stock"
	"rms/pkg/logger"
)

// BinUpdater reads and writes the Bin quantities a request affects.
type BinUpdater interface {
	ProjectedQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error)
	SetIndentedQty(ctx context.Context, key stock.BinKey, qty types.Quantity) error
}

// ProductionOrders creates draft production orders.
type ProductionOrders interface {
	Create(ctx context.Context, doc *production_order.ProductionOrder) error
}

// WIPDefaults provides the default work in progress warehouse.
type WIPDefaults interface {
	DefaultWIPWarehouse(ctx context.Context) (string, error)
}

// Deps groups the collaborators of the service.
type Deps struct {
	Repo             Repository
	Engine           *posting.Engine
	Numerator        numerator.Generator
	Items            documents.ItemReader
	Warehouses       documents.WarehouseReader
	Bins             BinUpdater
	ProductionOrders ProductionOrders
	Defaults         WIPDefaults
}

// Service provides business operations for material requests.
type Service struct {
	repo       Repository
	engine     *posting.Engine
	lifecycle  *posting.Lifecycle[*MaterialRequest]
	numerator  numerator.Generator
	items      documents.ItemReader
	warehouses documents.WarehouseReader
	bins       BinUpdater
	orders     ProductionOrders
	defaults   WIPDefaults
}

// NewService creates a new material request service.
func NewService(d Deps) *Service {
	s := &Service{
		repo:       d.Repo,
		engine:     d.Engine,
		numerator:  d.Numerator,
		items:      d.Items,
		warehouses: d.Warehouses,
		bins:       d.Bins,
		orders:     d.ProductionOrders,
		defaults:   d.Defaults,
	}
	s.lifecycle = posting.NewLifecycle(d.Engine, Doctype, d.Repo.Update)

	hooks := s.lifecycle.Hooks()
	hooks.On(domain.Validate, s.validateItems)
	hooks.On(domain.BeforeSave, setStatus)
	hooks.On(domain.BeforeSubmit, setStatus)
	hooks.On(domain.BeforeCancel, func(_ context.Context, mr *MaterialRequest) error {
		if err := mr.CheckNotClosed(); err != nil {
			return err
		}
		mr.SetStatus(StatusCancelled)
		return nil
	})
	hooks.On(domain.OnSubmit, s.updateAllRequestedQty)
	hooks.On(domain.OnCancel, s.updateAllRequestedQty)
	return s
}

func setStatus(_ context.Context, mr *MaterialRequest) error {
	mr.SetStatus("")
	return nil
}

// Hooks returns the lifecycle hooks.
func (s *Service) Hooks() *domain.HookRegistry[*MaterialRequest] {
	return s.lifecycle.Hooks()
}

// Attach makes submitted and cancelled stock entries and production orders
// update the completed and requested quantities of their requests.
func (s *Service) Attach(
	entries *domain.HookRegistry[*stock_entry.StockEntry],
	orders *domain.HookRegistry[*production_order.ProductionOrder],
) {
	fromEntry := func(ctx context.Context, se *stock_entry.StockEntry) error {
		return s.UpdateCompletedAndRequestedQty(ctx, se.MaterialRequestRows())
	}
	entries.On(domain.OnSubmit, fromEntry)
	entries.On(domain.OnCancel, fromEntry)

	fromOrder := func(ctx context.Context, po *production_order.ProductionOrder) error {
		if po.MaterialRequestID == nil || po.MaterialRequestItemID == nil {
			return nil
		}
		return s.UpdateCompletedAndRequestedQty(ctx, map[id.ID][]id.ID{
			*po.MaterialRequestID: {*po.MaterialRequestItemID},
		})
	}
	orders.On(domain.OnSubmit, fromOrder)
	orders.On(domain.OnCancel, fromOrder)
	orders.On(domain.OnStatusChange, s.refreshRequestedQty)
}

// refreshRequestedQty recomputes the Bin of the request row an order was
// raised from. Stopped requests are refreshed too.
func (s *Service) refreshRequestedQty(ctx context.Context, po *production_order.ProductionOrder) error {
	if po.MaterialRequestID == nil || po.MaterialRequestItemID == nil {
		return nil
	}
	mr, err := s.repo.GetByID(ctx, *po.MaterialRequestID)
	if err != nil {
		return err
	}
	return s.UpdateRequestedQty(ctx, mr, []id.ID{*po.MaterialRequestItemID})
}

// itemLookups adapts the catalog resolver and the Bin to Lookups.
type itemLookups struct {
	resolver *documents.Resolver
	bins     BinUpdater
}

func (l itemLookups) ActiveItem(ctx context.Context, code string, on time.Time) (ItemInfo, error) {
	it, err := l.resolver.ActiveItem(ctx, code, on)
	if err != nil {
		return ItemInfo{}, err
	}
	return ItemInfo{
		ItemName:    it.Name,
		Description: it.Description,
		StockUOM:    it.StockUOM,
		IsStockItem: it.IsStockItem,
	}, nil
}

func (l itemLookups) ProjectedQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error) {
	if warehouse == "" {
		return 0, nil
	}
	return l.bins.ProjectedQty(ctx, itemCode, warehouse)
}

func (s *Service) lookups() itemLookups {
	return itemLookups{resolver: documents.NewResolver(s.items, s.warehouses), bins: s.bins}
}

func (s *Service) validateItems(ctx context.Context, mr *MaterialRequest) error {
	l := s.lookups()
	if err := mr.ValidateItems(ctx, l); err != nil {
		return err
	}
	for _, it := range mr.Items {
		if it.Warehouse == "" {
			continue
		}
		if _, err := l.resolver.StockWarehouse(ctx, it.Warehouse); err != nil {
			return err
		}
	}
	return nil
}

// Create saves a new draft request.
func (s *Service) Create(ctx context.Context, doc *MaterialRequest) error {
	// The number is taken in the save transaction and returned with it
	// when the save fails or is replayed.
	numbered := doc.Number == ""
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		if numbered {
			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("MR"), doc.TransactionDate)
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

	logger.Info(ctx, "material request created",
		"id", doc.ID,
		"number", doc.Number,
		"type", doc.Type)
	return nil
}

// Update saves changes to a draft request.
func (s *Service) Update(ctx context.Context, doc *MaterialRequest) error {
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

// Delete soft-deletes a draft request.
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

// GetByID retrieves a request with its rows.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*MaterialRequest, error) {
	return s.repo.GetByID(ctx, docID)
}

// GetByNumber retrieves a request by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*MaterialRequest, error) {
	return s.repo.GetByNumber(ctx, number)
}

// List returns request headers.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*MaterialRequest], error) {
	return s.repo.List(ctx, filter)
}

// Submit submits a draft request.
func (s *Service) Submit(ctx context.Context, docID id.ID) (*MaterialRequest, error) {
	var doc *MaterialRequest
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Submit(ctx, doc)
	})
	return doc, err
}

// Cancel cancels a submitted request.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*MaterialRequest, error) {
	var doc *MaterialRequest
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		return s.lifecycle.Cancel(ctx, doc)
	})
	return doc, err
}

// UpdateStatus stops, unstops or closes a request. version is the version
// the caller last read.
func (s *Service) UpdateStatus(ctx context.Context, docID id.ID, status Status, version int) (*MaterialRequest, error) {
	var doc *MaterialRequest
	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if doc, err = s.repo.GetForUpdate(ctx, docID); err != nil {
			return err
		}
		if doc.Version != version {
			return apperror.NewConflict(fmt.Sprintf("%s %s has been modified. Please refresh.", Doctype, doc.Number))
		}
		if !status.Valid() {
			return apperror.NewValidation(fmt.Sprintf("Status must be one of %s", strings.Join(statusNames(), ", ")))
		}
		if err := doc.StatusCanChange(status); err != nil {
			return err
		}
		doc.SetStatus(status)
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return s.UpdateRequestedQty(ctx, doc, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "material request status updated", "number", doc.Number, "status", doc.Status)
	return doc, nil
}

func (s *Service) updateAllRequestedQty(ctx context.Context, mr *MaterialRequest) error {
	return s.UpdateRequestedQty(ctx, mr, nil)
}

// UpdateRequestedQty recomputes Bin.indented_qty for the stock items of the
// given rows (all rows when rowIDs is empty).
func (s *Service) UpdateRequestedQty(ctx context.Context, mr *MaterialRequest, rowIDs []id.ID) error {
	selected := make(map[id.ID]bool, len(rowIDs))
	for _, rid := range rowIDs {
		selected[rid] = true
	}

	resolver := documents.NewResolver(s.items, s.warehouses)
	seen := make(map[stock.BinKey]bool)
	keys := make([]stock.BinKey, 0, len(mr.Items))
	for _, it := range mr.Items {
		if len(selected) > 0 && !selected[it.ID] {
			continue
		}
		key := stock.BinKey{ItemCode: it.ItemCode, Warehouse: it.Warehouse}
		if it.Warehouse == "" || seen[key] {
			continue
		}
		item, err := resolver.Item(ctx, it.ItemCode)
		if err != nil {
			return err
		}
		if !item.IsStockItem {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}

	for _, key := range keys {
		qty, err := s.repo.IndentedQty(ctx, key.ItemCode, key.Warehouse)
		if err != nil {
			return fmt.Errorf("get indented qty: %w", err)
		}
		if err := s.bins.SetIndentedQty(ctx, key, qty); err != nil {
			return err
		}
	}
	return nil
}

// UpdateCompletedQty recomputes ordered_qty of the given rows from the
// linked stock entries or production orders, then per_ordered and status.
func (s *Service) UpdateCompletedQty(ctx context.Context, mr *MaterialRequest, rowIDs []id.ID) error {
	if len(rowIDs) == 0 {
		for _, it := range mr.Items {
			rowIDs = append(rowIDs, it.ID)
		}
	}

	var (
		sums map[id.ID]types.Quantity
		err  error
	)
	switch mr.Type {
	case TypeMaterialIssue, TypeMaterialTransfer:
		sums, err = s.repo.TransferredQty(ctx, rowIDs)
	case TypeManufacture:
		sums, err = s.repo.ProductionQty(ctx, rowIDs)
	default:
		sums = make(map[id.ID]types.Quantity)
	}
	if err != nil {
		return fmt.Errorf("sum completed qty: %w", err)
	}

	ordered := make(map[id.ID]types.Quantity, len(rowIDs))
	if mr.Type != TypePurchase {
		for _, rid := range rowIDs {
			ordered[rid] = sums[rid]
		}
	}
	if err := mr.UpdateCompletedQty(ordered); err != nil {
		return err
	}
	return s.repo.Update(ctx, mr)
}

// UpdateCompletedAndRequestedQty updates the requests linked from a stock
// entry or production order. rows maps request ids to their linked rows.
func (s *Service) UpdateCompletedAndRequestedQty(ctx context.Context, rows map[id.ID][]id.ID) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(rows))
	for mrID := range rows {
		ids = append(ids, mrID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	return s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, mrID := range ids {
			mr, err := s.repo.GetForUpdate(ctx, mrID)
			if err != nil {
				return err
			}
			if mr.Status == StatusStopped || mr.Status == StatusCancelled {
				return apperror.NewInvalidStatus(fmt.Sprintf("%s %s is cancelled or stopped", Doctype, mr.Number))
			}
			if err := s.UpdateCompletedQty(ctx, mr, rows[mrID]); err != nil {
				return err
			}
			if err := s.UpdateRequestedQty(ctx, mr, rows[mrID]); err != nil {
				return err
			}
		}
		return nil
	})
}

// MakeStockEntry maps a submitted transfer or issue request to an unsaved
// stock entry for the quantities not yet moved.
func (s *Service) MakeStockEntry(ctx context.Context, sourceID id.ID) (*stock_entry.StockEntry, error) {
	mr, err := s.repo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return NewStockEntryFrom(mr)
}

// NewStockEntryFrom builds the stock entry for the pending rows of mr.
func NewStockEntryFrom(mr *MaterialRequest) (*stock_entry.StockEntry, error) {
	if mr.DocStatus != entity.DocStatusSubmitted {
		return nil, apperror.NewInvalidStatus(fmt.Sprintf("%s %s must be submitted", Doctype, mr.Number))
	}
	if mr.Type != TypeMaterialTransfer && mr.Type != TypeMaterialIssue {
		return nil, apperror.NewInvalidStatus(
			fmt.Sprintf("Stock Entry cannot be made against %s of type %s", Doctype, mr.Type),
		)
	}

	se := stock_entry.NewStockEntry(stock_entry.Purpose(mr.Type))
	for i := range mr.Items {
		row := &mr.Items[i]
		if row.OrderedQty >= row.StockQty {
			continue
		}

		qty := row.PendingQty()
		var source, target string
		if mr.Type == TypeMaterialTransfer {
			target = row.Warehouse
		} else {
			source = row.Warehouse
		}

		it := se.AddItem(row.ItemCode, source, target, qty)
		it.ConversionFactor = decimal.NewFromInt(1)
		mrID, rowID := mr.ID, row.ID
		it.MaterialRequestID = &mrID
		it.MaterialRequestItemID = &rowID
	}
	return se, nil
}

// RaiseResult is the outcome of RaiseProductionOrders.
type RaiseResult struct {
	ProductionOrders []string `json:"productionOrders"`
	Message          string   `json:"message"`
}

// RaiseProductionOrders creates a draft production order for every row with
// a pending quantity whose item has a default BOM. When any row has no BOM
// nothing is created.
func (s *Service) RaiseProductionOrders(ctx context.Context, mrID id.ID) (RaiseResult, error) {
	var result RaiseResult

	err := s.engine.RunInTransaction(ctx, func(ctx context.Context) error {
		// A replayed transaction starts over; names from a rolled-back
		// attempt were never committed.
		result = RaiseResult{}

		mr, err := s.repo.GetByID(ctx, mrID)
		if err != nil {
			return err
		}
		wip, err := s.defaults.DefaultWIPWarehouse(ctx)
		if err != nil {
			return err
		}

		resolver := documents.NewResolver(s.items, s.warehouses)
		var failures []string
		for i := range mr.Items {
			row := &mr.Items[i]
			pending := row.Qty - row.OrderedQty
			if !pending.IsPositive() {
				continue
			}

			item, err := resolver.Item(ctx, row.ItemCode)
			if err != nil {
				return err
			}
			if item.DefaultBOM == "" {
				failures = append(failures,
					fmt.Sprintf("Row %d: Bill of Materials not found for the Item %s", row.Idx, row.ItemCode))
				continue
			}

			po := production_order.NewProductionOrder(row.ItemCode, pending, mr.TransactionDate)
			po.FGWarehouse = row.Warehouse
			po.WIPWarehouse = wip
			po.Description = row.Description
			po.ExpectedDeliveryDate = row.ScheduleDate
			po.BOMNo = item.DefaultBOM
			requestID, rowID := mr.ID, row.ID
			po.MaterialRequestID = &requestID
			po.MaterialRequestItemID = &rowID

			if err := s.orders.Create(ctx, po); err != nil {
				return err
			}
			result.ProductionOrders = append(result.ProductionOrders, po.Number)
		}

		if len(failures) > 0 {
			return apperror.NewValidation(
				"Productions Orders cannot be raised for:\n"+strings.Join(failures, "\n"),
			).WithDetail("errors", failures)
		}
		return nil
	})
	if err != nil {
		return RaiseResult{}, err
	}

	if len(result.ProductionOrders) > 0 {
		result.Message = "The following Production Orders were created:\n" + strings.Join(result.ProductionOrders, "\n")
		logger.Info(ctx, "production orders raised", "count", len(result.ProductionOrders))
	}
	return result, nil
}
