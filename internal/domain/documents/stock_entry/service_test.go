package stock_entry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/numerator"
	"rms/internal/domain"
	"rms/internal/domain/catalogs/item"
	"rms/internal/domain/catalogs/warehouse"
	"rms/internal/domain/posting"
)

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo map[id.ID]*StockEntry

func clone(se *StockEntry) *StockEntry {
	c := *se
	c.Items = append([]Item(nil), se.Items...)
	return &c
}

func (r memRepo) Create(_ context.Context, doc *StockEntry) error {
	r[doc.ID] = clone(doc)
	return nil
}

func (r memRepo) Update(_ context.Context, doc *StockEntry) error {
	doc.Version++
	r[doc.ID] = clone(doc)
	return nil
}

func (r memRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r, docID)
	return nil
}

func (r memRepo) GetByID(_ context.Context, docID id.ID) (*StockEntry, error) {
	doc, ok := r[docID]
	if !ok {
		return nil, apperror.NewNotFound("doc_stock_entries", docID)
	}
	return clone(doc), nil
}

func (r memRepo) GetByNumber(_ context.Context, number string) (*StockEntry, error) {
	for _, doc := range r {
		if doc.Number == number {
			return clone(doc), nil
		}
	}
	return nil, apperror.NewNotFound("doc_stock_entries", number)
}

func (r memRepo) GetForUpdate(ctx context.Context, docID id.ID) (*StockEntry, error) {
	return r.GetByID(ctx, docID)
}

func (r memRepo) List(context.Context, ListFilter) (domain.ListResult[*StockEntry], error) {
	return domain.ListResult[*StockEntry]{}, nil
}

type recorder struct {
	entries   []entity.StockLedgerEntry
	cancelled []id.ID
}

func (r *recorder) RecordEntries(_ context.Context, entries []entity.StockLedgerEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *recorder) CancelVoucher(_ context.Context, voucherID id.ID) error {
	r.cancelled = append(r.cancelled, voucherID)
	return nil
}

type fakeItems map[string]*item.Item

func (f fakeItems) GetByCode(_ context.Context, code string) (*item.Item, error) {
	it, ok := f[code]
	if !ok {
		return nil, apperror.NewNotFound("cat_items", code)
	}
	return it, nil
}

type fakeWarehouses map[string]*warehouse.Warehouse

func (f fakeWarehouses) GetByCode(_ context.Context, code string) (*warehouse.Warehouse, error) {
	wh, ok := f[code]
	if !ok {
		return nil, apperror.NewNotFound("cat_warehouses", code)
	}
	return wh, nil
}

func newService() (*Service, memRepo, *recorder) {
	repo := memRepo{}
	rec := &recorder{}
	group := warehouse.NewWarehouse("All Warehouses", "All Warehouses")
	group.IsGroup = true

	svc := NewService(repo, posting.NewEngine(directTx{}, rec, nil), numerator.NewMemoryGenerator(),
		fakeItems{"ITM-1": item.NewItem("ITM-1", "Bolt", "Raw Material")},
		fakeWarehouses{
			"Stores":         warehouse.NewWarehouse("Stores", "Stores"),
			"Work":           warehouse.NewWarehouse("Work", "Work"),
			"All Warehouses": group,
		},
	)
	return svc, repo, rec
}

func TestService_SubmitAndCancel(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec := newService()

	se := NewStockEntry(PurposeMaterialTransfer)
	se.AddItem("ITM-1", "Stores", "Work", qty(3))
	require.NoError(t, svc.Create(ctx, se))
	assert.Contains(t, se.Number, "STE-")
	assert.Equal(t, item.DefaultUOM, repo[se.ID].Items[0].UOM)

	var submittedHook bool
	svc.Hooks().On(domain.OnSubmit, func(context.Context, *StockEntry) error {
		submittedHook = true
		return nil
	})

	submitted, err := svc.Submit(ctx, se.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusSubmitted, submitted.DocStatus)
	assert.True(t, submittedHook)
	require.Len(t, rec.entries, 2)
	assert.Equal(t, qty(-3), rec.entries[0].ActualQty)
	assert.Equal(t, "Stores", rec.entries[0].Warehouse)
	assert.Equal(t, qty(3), rec.entries[1].ActualQty)

	cancelled, err := svc.Cancel(ctx, se.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusCancelled, cancelled.DocStatus)
	assert.Equal(t, []id.ID{se.ID}, rec.cancelled)
}

func TestService_RejectsGroupWarehouse(t *testing.T) {
	svc, _, _ := newService()

	se := NewStockEntry(PurposeMaterialReceipt)
	se.AddItem("ITM-1", "", "All Warehouses", qty(1))
	err := svc.Create(context.Background(), se)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Group Warehouse All Warehouses cannot be used in transactions")
}

func TestService_UpdateSubmittedFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	se := NewStockEntry(PurposeMaterialReceipt)
	se.AddItem("ITM-1", "", "Stores", qty(1))
	require.NoError(t, svc.Create(ctx, se))
	_, err := svc.Submit(ctx, se.ID)
	require.NoError(t, err)

	draft := NewStockEntry(PurposeMaterialReceipt)
	draft.ID = se.ID
	draft.AddItem("ITM-1", "", "Stores", qty(2))
	assert.Error(t, svc.Update(ctx, draft))
	assert.Error(t, svc.Delete(ctx, se.ID))
}
