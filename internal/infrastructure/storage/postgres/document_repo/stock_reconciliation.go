package document_repo

import (
	"context"

	"rms/internal/core/id"
	"rms/internal/domain"
	"rms/internal/domain/documents/stock_reconciliation"
	"rms/internal/infrastructure/storage/postgres"
)

// StockReconciliationRepo implements stock_reconciliation.Repository.
type StockReconciliationRepo struct {
	*BaseDocumentRepo[*stock_reconciliation.StockReconciliation]
	items *childTable[stock_reconciliation.Item]
}

// NewStockReconciliationRepo creates a new stock reconciliation repository.
func NewStockReconciliationRepo(txm *postgres.TxManager) *StockReconciliationRepo {
	return &StockReconciliationRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			stock_reconciliation.Doctype,
			"doc_stock_reconciliations",
			postgres.ExtractDBColumns[stock_reconciliation.StockReconciliation](),
			"posting_date",
			func() *stock_reconciliation.StockReconciliation { return &stock_reconciliation.StockReconciliation{} },
		),
		items: newChildTable[stock_reconciliation.Item](txm, "doc_stock_reconciliation_items", "stock_reconciliation_id"),
	}
}

func (r *StockReconciliationRepo) Create(ctx context.Context, doc *stock_reconciliation.StockReconciliation) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Create(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.Items)
	})
}

func (r *StockReconciliationRepo) Update(ctx context.Context, doc *stock_reconciliation.StockReconciliation) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Update(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.Items)
	})
}

func (r *StockReconciliationRepo) load(ctx context.Context, doc *stock_reconciliation.StockReconciliation, err error) (*stock_reconciliation.StockReconciliation, error) {
	if err != nil {
		return nil, err
	}
	if doc.Items, err = r.items.Load(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *StockReconciliationRepo) GetByID(ctx context.Context, docID id.ID) (*stock_reconciliation.StockReconciliation, error) {
	doc, err := r.BaseDocumentRepo.GetByID(ctx, docID)
	return r.load(ctx, doc, err)
}

func (r *StockReconciliationRepo) GetForUpdate(ctx context.Context, docID id.ID) (*stock_reconciliation.StockReconciliation, error) {
	doc, err := r.BaseDocumentRepo.GetForUpdate(ctx, docID)
	return r.load(ctx, doc, err)
}

func (r *StockReconciliationRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*stock_reconciliation.StockReconciliation], error) {
	return r.BaseDocumentRepo.List(ctx, filter)
}

var _ stock_reconciliation.Repository = (*StockReconciliationRepo)(nil)
