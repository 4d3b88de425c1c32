package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain"
	"rms/internal/domain/documents/production_order"
	"rms/internal/infrastructure/storage/postgres"
)

const (
	productionOrderTable     = "doc_production_orders"
	productionOrderItemTable = "doc_production_order_items"
)

// ProductionOrderRepo implements production_order.Repository.
type ProductionOrderRepo struct {
	*BaseDocumentRepo[*production_order.ProductionOrder]
	items *childTable[production_order.Item]
}

// NewProductionOrderRepo creates a new production order repository.
func NewProductionOrderRepo(txm *postgres.TxManager) *ProductionOrderRepo {
	return &ProductionOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			production_order.Doctype,
			productionOrderTable,
			postgres.ExtractDBColumns[production_order.ProductionOrder](),
			"planned_start_date",
			func() *production_order.ProductionOrder { return &production_order.ProductionOrder{} },
		),
		items: newChildTable[production_order.Item](txm, productionOrderItemTable, "production_order_id"),
	}
}

func (r *ProductionOrderRepo) Create(ctx context.Context, doc *production_order.ProductionOrder) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Create(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.RequiredItems)
	})
}

func (r *ProductionOrderRepo) Update(ctx context.Context, doc *production_order.ProductionOrder) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Update(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.RequiredItems)
	})
}

func (r *ProductionOrderRepo) withItems(ctx context.Context, doc *production_order.ProductionOrder, err error) (*production_order.ProductionOrder, error) {
	if err != nil {
		return nil, err
	}
	if doc.RequiredItems, err = r.items.Load(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *ProductionOrderRepo) GetByID(ctx context.Context, docID id.ID) (*production_order.ProductionOrder, error) {
	doc, err := r.BaseDocumentRepo.GetByID(ctx, docID)
	return r.withItems(ctx, doc, err)
}

func (r *ProductionOrderRepo) GetForUpdate(ctx context.Context, docID id.ID) (*production_order.ProductionOrder, error) {
	doc, err := r.BaseDocumentRepo.GetForUpdate(ctx, docID)
	return r.withItems(ctx, doc, err)
}

func (r *ProductionOrderRepo) List(ctx context.Context, filter production_order.ListFilter) (domain.ListResult[*production_order.ProductionOrder], error) {
	var extra []squirrel.Sqlizer
	if filter.Status != "" {
		extra = append(extra, squirrel.Eq{"status": filter.Status})
	}
	if filter.ProductionItem != "" {
		extra = append(extra, squirrel.Eq{"production_item": filter.ProductionItem})
	}
	return r.BaseDocumentRepo.List(ctx, filter.ListFilter, extra...)
}

// plannedQuery selects non cancelled orders overlapping [Start, End].
func (r *ProductionOrderRepo) plannedQuery(filter production_order.CalendarFilter) squirrel.SelectBuilder {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Lt{"docstatus": entity.DocStatusCancelled}).
		Where(squirrel.LtOrEq{"planned_start_date": filter.End}).
		Where(squirrel.GtOrEq{"COALESCE(planned_end_date, planned_start_date)": filter.Start})
	if filter.ProductionItem != "" {
		q = q.Where(squirrel.Eq{"production_item": filter.ProductionItem})
	}
	if filter.WIPWarehouse != "" {
		q = q.Where(squirrel.Eq{"wip_warehouse": filter.WIPWarehouse})
	}
	return q.OrderBy("planned_start_date")
}

// ListPlanned implements production_order.Repository.
func (r *ProductionOrderRepo) ListPlanned(ctx context.Context, filter production_order.CalendarFilter) ([]*production_order.ProductionOrder, error) {
	sql, args, err := r.plannedQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var orders []*production_order.ProductionOrder
	if err := pgxscan.Select(ctx, r.querier(ctx), &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("list planned: %w", err)
	}
	return orders, nil
}

func plannedQtyQuery(itemCode, fgWarehouse string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("COALESCE(SUM(qty - produced_qty), 0)::bigint").
		From(productionOrderTable).
		Where(squirrel.Eq{"production_item": itemCode, "fg_warehouse": fgWarehouse}).
		Where(squirrel.Eq{"docstatus": entity.DocStatusSubmitted}).
		Where(squirrel.NotEq{"status": production_order.StatusStopped}).
		Where("qty > produced_qty")
}

// PlannedQty implements production_order.Repository.
func (r *ProductionOrderRepo) PlannedQty(ctx context.Context, itemCode, fgWarehouse string) (types.Quantity, error) {
	sql, args, err := plannedQtyQuery(itemCode, fgWarehouse).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var qty types.Quantity
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&qty); err != nil {
		return 0, fmt.Errorf("planned qty: %w", err)
	}
	return qty, nil
}

// SubmittedStockEntry implements production_order.Repository.
func (r *ProductionOrderRepo) SubmittedStockEntry(ctx context.Context, orderID id.ID) (string, error) {
	sql, args, err := postgres.Builder().
		Select("number").
		From(stockEntryTable).
		Where(squirrel.Eq{"production_order_id": orderID, "docstatus": entity.DocStatusSubmitted}).
		OrderBy("posting_date", "number").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}
	var numbers []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &numbers, sql, args...); err != nil {
		return "", fmt.Errorf("submitted stock entry: %w", err)
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

var _ production_order.Repository = (*ProductionOrderRepo)(nil)
