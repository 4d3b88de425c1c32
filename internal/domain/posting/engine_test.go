package posting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain"
)

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStock struct {
	recorded  []entity.StockLedgerEntry
	cancelled []id.ID
	err       error
}

func (f *fakeStock) RecordEntries(_ context.Context, entries []entity.StockLedgerEntry) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, entries...)
	return nil
}

func (f *fakeStock) CancelVoucher(_ context.Context, voucherID id.ID) error {
	f.cancelled = append(f.cancelled, voucherID)
	return nil
}

type fakeAudit struct{ actions []string }

func (f *fakeAudit) LogAction(_ context.Context, _ string, _ id.ID, action string, _ map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

type note struct {
	entity.Document
}

type receipt struct {
	entity.Document
	qty types.Quantity
}

func (r *receipt) LedgerEntries() ([]entity.StockLedgerEntry, error) {
	return []entity.StockLedgerEntry{
		entity.NewStockLedgerEntry(entity.VoucherStockEntry, r.ID, r.Number, "", "BOLT", "Stores",
			r.CreatedAt, "09:00:00", r.qty),
	}, nil
}

func TestSubmit_RunsHooksInOrder(t *testing.T) {
	stock, audit := &fakeStock{}, &fakeAudit{}
	var saved []entity.DocStatus
	lc := NewLifecycle(NewEngine(directTx{}, stock, audit), "Note", func(_ context.Context, n *note) error {
		saved = append(saved, n.DocStatus)
		return nil
	})

	var order []string
	for _, ev := range []domain.HookEvent{domain.Validate, domain.BeforeSave, domain.BeforeSubmit, domain.OnSubmit} {
		ev := ev
		lc.Hooks().On(ev, func(context.Context, *note) error {
			order = append(order, string(ev))
			return nil
		})
	}

	doc := &note{Document: entity.NewDocument()}
	require.NoError(t, lc.Submit(context.Background(), doc))

	assert.Equal(t, []string{"validate", "before_save", "before_submit", "on_submit"}, order)
	assert.Equal(t, []entity.DocStatus{entity.DocStatusSubmitted}, saved)
	assert.Empty(t, stock.recorded, "documents without ledger entries do not touch stock")
	assert.Equal(t, []string{"submit"}, audit.actions)
}

func TestSubmit_RecordsLedgerEntries(t *testing.T) {
	stock := &fakeStock{}
	lc := NewLifecycle(NewEngine(directTx{}, stock, nil), "Receipt", func(context.Context, *receipt) error { return nil })

	doc := &receipt{Document: entity.NewDocument(), qty: types.NewQuantityFromFloat64(3)}
	doc.Number = "STE-2026-00001"
	require.NoError(t, lc.Submit(context.Background(), doc))

	require.Len(t, stock.recorded, 1)
	assert.Equal(t, "STE-2026-00001", stock.recorded[0].VoucherNo)
}

func TestSubmit_StockErrorSkipsOnSubmit(t *testing.T) {
	stock := &fakeStock{err: errors.New("no stock")}
	lc := NewLifecycle(NewEngine(directTx{}, stock, nil), "Receipt", func(context.Context, *receipt) error { return nil })
	called := false
	lc.Hooks().On(domain.OnSubmit, func(context.Context, *receipt) error {
		called = true
		return nil
	})

	err := lc.Submit(context.Background(), &receipt{Document: entity.NewDocument()})
	require.Error(t, err)
	assert.False(t, called)
}

func TestSubmit_RejectsSubmitted(t *testing.T) {
	lc := NewLifecycle(NewEngine(directTx{}, &fakeStock{}, nil), "Note", func(context.Context, *note) error { return nil })
	doc := &note{Document: entity.NewDocument()}
	doc.DocStatus = entity.DocStatusSubmitted

	err := lc.Submit(context.Background(), doc)
	assert.True(t, apperror.IsInvalidStatus(err))
}

func TestCancel(t *testing.T) {
	stock, audit := &fakeStock{}, &fakeAudit{}
	lc := NewLifecycle(NewEngine(directTx{}, stock, audit), "Receipt", func(context.Context, *receipt) error { return nil })
	var seenStatus entity.DocStatus
	lc.Hooks().On(domain.BeforeCancel, func(_ context.Context, r *receipt) error {
		seenStatus = r.DocStatus
		return nil
	})

	doc := &receipt{Document: entity.NewDocument()}
	err := lc.Cancel(context.Background(), doc)
	assert.True(t, apperror.IsInvalidStatus(err), "drafts cannot be cancelled")

	doc.DocStatus = entity.DocStatusSubmitted
	require.NoError(t, lc.Cancel(context.Background(), doc))

	assert.Equal(t, entity.DocStatusCancelled, seenStatus)
	assert.Equal(t, entity.DocStatusCancelled, doc.DocStatus)
	assert.Equal(t, []id.ID{doc.ID}, stock.cancelled)
	assert.Equal(t, []string{"cancel"}, audit.actions)
}

func TestSave_RefusesSubmitted(t *testing.T) {
	lc := NewLifecycle(NewEngine(directTx{}, &fakeStock{}, nil), "Note", func(context.Context, *note) error { return nil })
	doc := &note{Document: entity.NewDocument()}
	doc.DocStatus = entity.DocStatusSubmitted

	err := lc.Save(context.Background(), doc, func(context.Context, *note) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot edit a submitted document")
}
