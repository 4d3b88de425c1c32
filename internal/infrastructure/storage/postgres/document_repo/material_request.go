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
	"rms/internal/domain/documents/material_request"
	"rms/internal/infrastructure/storage/postgres"
)

const (
	materialRequestTable     = "doc_material_requests"
	materialRequestItemTable = "doc_material_request_items"
)

// MaterialRequestRepo implements material_request.Repository.
type MaterialRequestRepo struct {
	*BaseDocumentRepo[*material_request.MaterialRequest]
	items *childTable[material_request.Item]
}

// NewMaterialRequestRepo creates a new material request repository.
func NewMaterialRequestRepo(txm *postgres.TxManager) *MaterialRequestRepo {
	return &MaterialRequestRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			material_request.Doctype,
			materialRequestTable,
			postgres.ExtractDBColumns[material_request.MaterialRequest](),
			"transaction_date",
			func() *material_request.MaterialRequest { return &material_request.MaterialRequest{} },
		),
		items: newChildTable[material_request.Item](txm, materialRequestItemTable, "material_request_id"),
	}
}

// Create inserts the header and rows.
func (r *MaterialRequestRepo) Create(ctx context.Context, doc *material_request.MaterialRequest) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Create(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.Items)
	})
}

// Update saves the header and replaces the rows.
func (r *MaterialRequestRepo) Update(ctx context.Context, doc *material_request.MaterialRequest) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Update(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.Items)
	})
}

func (r *MaterialRequestRepo) withItems(ctx context.Context, doc *material_request.MaterialRequest, err error) (*material_request.MaterialRequest, error) {
	if err != nil {
		return nil, err
	}
	if doc.Items, err = r.items.Load(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID retrieves a request with its rows.
func (r *MaterialRequestRepo) GetByID(ctx context.Context, docID id.ID) (*material_request.MaterialRequest, error) {
	doc, err := r.BaseDocumentRepo.GetByID(ctx, docID)
	return r.withItems(ctx, doc, err)
}

// GetByNumber retrieves a request by number with its rows.
func (r *MaterialRequestRepo) GetByNumber(ctx context.Context, number string) (*material_request.MaterialRequest, error) {
	doc, err := r.BaseDocumentRepo.GetByNumber(ctx, number)
	return r.withItems(ctx, doc, err)
}

// GetForUpdate locks the request and returns it with its rows.
func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, docID id.ID) (*material_request.MaterialRequest, error) {
	doc, err := r.BaseDocumentRepo.GetForUpdate(ctx, docID)
	return r.withItems(ctx, doc, err)
}

// List returns request headers.
func (r *MaterialRequestRepo) List(ctx context.Context, filter material_request.ListFilter) (domain.ListResult[*material_request.MaterialRequest], error) {
	var extra []squirrel.Sqlizer
	if filter.Type != "" {
		extra = append(extra, squirrel.Eq{"material_request_type": filter.Type})
	}
	if filter.Status != "" {
		extra = append(extra, squirrel.Eq{"status": filter.Status})
	}
	return r.BaseDocumentRepo.List(ctx, filter.ListFilter, extra...)
}

type rowSum struct {
	RowID id.ID          `db:"row_id"`
	Qty   types.Quantity `db:"qty"`
}

func (r *MaterialRequestRepo) sumByRow(ctx context.Context, q squirrel.SelectBuilder) (map[id.ID]types.Quantity, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var sums []rowSum
	if err := pgxscan.Select(ctx, r.querier(ctx), &sums, sql, args...); err != nil {
		return nil, fmt.Errorf("sum by row: %w", err)
	}
	out := make(map[id.ID]types.Quantity, len(sums))
	for _, s := range sums {
		out[s.RowID] = s.Qty
	}
	return out, nil
}

// transferredQuery sums transfer_qty of submitted stock entry rows per
// material request row.
func transferredQuery(rowIDs []id.ID) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("sei.material_request_item_id AS row_id", "COALESCE(SUM(sei.transfer_qty), 0)::bigint AS qty").
		From(stockEntryItemTable + " sei").
		Join(stockEntryTable + " se ON se.id = sei.stock_entry_id").
		Where(squirrel.Eq{"sei.material_request_item_id": rowIDs}).
		Where(squirrel.Eq{"se.docstatus": entity.DocStatusSubmitted}).
		GroupBy("sei.material_request_item_id")
}

// TransferredQty implements material_request.Repository.
func (r *MaterialRequestRepo) TransferredQty(ctx context.Context, rowIDs []id.ID) (map[id.ID]types.Quantity, error) {
	return r.sumByRow(ctx, transferredQuery(rowIDs))
}

func productionQuery(rowIDs []id.ID) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("material_request_item_id AS row_id", "COALESCE(SUM(qty), 0)::bigint AS qty").
		From(productionOrderTable).
		Where(squirrel.Eq{"material_request_item_id": rowIDs}).
		Where(squirrel.Eq{"docstatus": entity.DocStatusSubmitted}).
		GroupBy("material_request_item_id")
}

// ProductionQty implements material_request.Repository.
func (r *MaterialRequestRepo) ProductionQty(ctx context.Context, rowIDs []id.ID) (map[id.ID]types.Quantity, error) {
	return r.sumByRow(ctx, productionQuery(rowIDs))
}

func indentedQuery(itemCode, warehouse string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("COALESCE(SUM(mri.stock_qty - mri.ordered_qty), 0)::bigint").
		From(materialRequestItemTable + " mri").
		Join(materialRequestTable + " mr ON mr.id = mri.material_request_id").
		Where(squirrel.Eq{"mri.item_code": itemCode, "mri.warehouse": warehouse}).
		Where(squirrel.Eq{"mr.docstatus": entity.DocStatusSubmitted}).
		Where(squirrel.NotEq{"mr.status": []material_request.Status{material_request.StatusStopped, material_request.StatusClosed}}).
		Where(squirrel.Eq{"mr.deletion_mark": false}).
		Where("mri.stock_qty > mri.ordered_qty")
}

// IndentedQty implements material_request.Repository.
func (r *MaterialRequestRepo) IndentedQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error) {
	sql, args, err := indentedQuery(itemCode, warehouse).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var qty types.Quantity
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&qty); err != nil {
		return 0, fmt.Errorf("indented qty: %w", err)
	}
	return qty, nil
}

var _ material_request.Repository = (*MaterialRequestRepo)(nil)
