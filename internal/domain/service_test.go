package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
)

type directTx struct{ calls int }

func (d *directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	d.calls++
	return fn(ctx)
}

type widget struct {
	entity.Catalog
}

type memRepo struct {
	byID    map[id.ID]*widget
	created []string
}

func newMemRepo() *memRepo { return &memRepo{byID: map[id.ID]*widget{}} }

func (m *memRepo) Create(_ context.Context, w *widget) error {
	m.byID[w.ID] = w
	m.created = append(m.created, w.Code)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, wid id.ID) (*widget, error) {
	if w, ok := m.byID[wid]; ok {
		return w, nil
	}
	return nil, apperror.NewNotFound("widgets", wid.String())
}

func (m *memRepo) GetByCode(_ context.Context, code string) (*widget, error) {
	for _, w := range m.byID {
		if w.Code == code {
			return w, nil
		}
	}
	return nil, apperror.NewNotFound("widgets", code)
}

func (m *memRepo) Update(_ context.Context, w *widget) error {
	m.byID[w.ID] = w
	return nil
}

func (m *memRepo) SetDeletionMark(_ context.Context, wid id.ID, marked bool) error {
	m.byID[wid].DeletionMark = marked
	return nil
}

func (m *memRepo) List(context.Context, ListFilter) (ListResult[*widget], error) {
	return ListResult[*widget]{}, nil
}

func (m *memRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := m.GetByCode(ctx, code)
	return err == nil, nil
}

func TestCatalogService_CreateRunsHooksInTransaction(t *testing.T) {
	repo := newMemRepo()
	txm := &directTx{}
	svc := NewCatalogService(CatalogServiceConfig[*widget]{Repo: repo, TxManager: txm, EntityName: "Widget"})

	var order []string
	svc.Hooks().On(BeforeCreate, func(_ context.Context, w *widget) error {
		order = append(order, "before:"+w.Code)
		return nil
	})
	svc.Hooks().On(AfterCreate, func(_ context.Context, w *widget) error {
		order = append(order, "after:"+w.Code)
		return nil
	})

	w := &widget{Catalog: entity.NewCatalog("W-1", "Widget")}
	require.NoError(t, svc.Create(context.Background(), w))

	assert.Equal(t, []string{"before:W-1", "after:W-1"}, order)
	assert.Equal(t, []string{"W-1"}, repo.created)
	assert.Equal(t, 1, txm.calls)
}

func TestCatalogService_CreateValidationError(t *testing.T) {
	repo := newMemRepo()
	svc := NewCatalogService(CatalogServiceConfig[*widget]{Repo: repo, TxManager: &directTx{}, EntityName: "Widget"})

	err := svc.Create(context.Background(), &widget{Catalog: entity.NewCatalog("W-1", "")})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestCatalogService_HookErrorStopsWrite(t *testing.T) {
	repo := newMemRepo()
	svc := NewCatalogService(CatalogServiceConfig[*widget]{Repo: repo, TxManager: &directTx{}, EntityName: "Widget"})
	boom := errors.New("boom")
	svc.Hooks().On(BeforeCreate, func(context.Context, *widget) error { return boom })

	err := svc.Create(context.Background(), &widget{Catalog: entity.NewCatalog("W-1", "Widget")})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, repo.created)
}

func TestCatalogService_GetByCodeNotFound(t *testing.T) {
	svc := NewCatalogService(CatalogServiceConfig[*widget]{Repo: newMemRepo(), TxManager: &directTx{}, EntityName: "Widget"})

	_, err := svc.GetByCode(context.Background(), "missing")

	require.True(t, apperror.IsNotFound(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "Widget", appErr.Details["entity"])
}

func TestCatalogService_Delete(t *testing.T) {
	repo := newMemRepo()
	svc := NewCatalogService(CatalogServiceConfig[*widget]{Repo: repo, TxManager: &directTx{}, EntityName: "Widget"})
	w := &widget{Catalog: entity.NewCatalog("W-1", "Widget")}
	require.NoError(t, svc.Create(context.Background(), w))

	require.NoError(t, svc.Delete(context.Background(), w.ID))
	assert.True(t, repo.byID[w.ID].DeletionMark)
}
