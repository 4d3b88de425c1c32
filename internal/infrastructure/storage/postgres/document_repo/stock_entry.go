package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"rms/internal/core/id"
	"rms/internal/domain"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/infrastructure/storage/postgres"
)

const (
	stockEntryTable     = "doc_stock_entries"
	stockEntryItemTable = "doc_stock_entry_items"
)

// StockEntryRepo implements stock_entry.Repository.
type StockEntryRepo struct {
	*BaseDocumentRepo[*stock_entry.StockEntry]
	items *childTable[stock_entry.Item]
}

// NewStockEntryRepo creates a new stock entry repository.
func NewStockEntryRepo(txm *postgres.TxManager) *StockEntryRepo {
	return &StockEntryRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			stock_entry.Doctype,
			stockEntryTable,
			postgres.ExtractDBColumns[stock_entry.StockEntry](),
			"posting_date",
			func() *stock_entry.StockEntry { return &stock_entry.StockEntry{} },
		),
		items: newChildTable[stock_entry.Item](txm, stockEntryItemTable, "stock_entry_id"),
	}
}

func (r *StockEntryRepo) Create(ctx context.Context, doc *stock_entry.StockEntry) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Create(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.Items)
	})
}

func (r *StockEntryRepo) Update(ctx context.Context, doc *stock_entry.StockEntry) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseDocumentRepo.Update(ctx, doc); err != nil {
			return err
		}
		return r.items.Save(ctx, doc.ID, doc.Items)
	})
}

func (r *StockEntryRepo) withItems(ctx context.Context, doc *stock_entry.StockEntry, err error) (*stock_entry.StockEntry, error) {
	if err != nil {
		return nil, err
	}
	if doc.Items, err = r.items.Load(ctx, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *StockEntryRepo) GetByID(ctx context.Context, docID id.ID) (*stock_entry.StockEntry, error) {
	doc, err := r.BaseDocumentRepo.GetByID(ctx, docID)
	return r.withItems(ctx, doc, err)
}

func (r *StockEntryRepo) GetByNumber(ctx context.Context, number string) (*stock_entry.StockEntry, error) {
	doc, err := r.BaseDocumentRepo.GetByNumber(ctx, number)
	return r.withItems(ctx, doc, err)
}

func (r *StockEntryRepo) GetForUpdate(ctx context.Context, docID id.ID) (*stock_entry.StockEntry, error) {
	doc, err := r.BaseDocumentRepo.GetForUpdate(ctx, docID)
	return r.withItems(ctx, doc, err)
}

func (r *StockEntryRepo) List(ctx context.Context, filter stock_entry.ListFilter) (domain.ListResult[*stock_entry.StockEntry], error) {
	var extra []squirrel.Sqlizer
	if filter.Purpose != "" {
		extra = append(extra, squirrel.Eq{"purpose": filter.Purpose})
	}
	if filter.ProductionOrderID != nil {
		extra = append(extra, squirrel.Eq{"production_order_id": *filter.ProductionOrderID})
	}
	return r.BaseDocumentRepo.List(ctx, filter.ListFilter, extra...)
}

var _ stock_entry.Repository = (*StockEntryRepo)(nil)
