package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/domain"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/infrastructure/http/v1/dto"
)

type memEntries struct {
	docs       map[id.ID]*stock_entry.StockEntry
	lastFilter stock_entry.ListFilter
}

func (m *memEntries) GetByID(_ context.Context, docID id.ID) (*stock_entry.StockEntry, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("Stock Entry", docID)
	}
	return doc, nil
}

func (m *memEntries) Create(_ context.Context, doc *stock_entry.StockEntry) error {
	doc.Number = "STE-2026-00001"
	m.docs[doc.ID] = doc
	return nil
}

func (m *memEntries) Update(_ context.Context, doc *stock_entry.StockEntry) error {
	if err := doc.CanModify(); err != nil {
		return err
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *memEntries) Delete(_ context.Context, docID id.ID) error {
	delete(m.docs, docID)
	return nil
}

func (m *memEntries) List(_ context.Context, f stock_entry.ListFilter) (domain.ListResult[*stock_entry.StockEntry], error) {
	m.lastFilter = f
	items := make([]*stock_entry.StockEntry, 0, len(m.docs))
	for _, doc := range m.docs {
		items = append(items, doc)
	}
	return domain.ListResult[*stock_entry.StockEntry]{Items: items, TotalCount: int64(len(items)), Limit: f.Limit}, nil
}

func (m *memEntries) Submit(_ context.Context, docID id.ID) (*stock_entry.StockEntry, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("Stock Entry", docID)
	}
	if err := doc.CanSubmit(); err != nil {
		return nil, err
	}
	doc.MarkSubmitted()
	return doc, nil
}

func (m *memEntries) Cancel(_ context.Context, docID id.ID) (*stock_entry.StockEntry, error) {
	doc := m.docs[docID]
	if err := doc.CanCancel(); err != nil {
		return nil, err
	}
	doc.MarkCancelled()
	return doc, nil
}

func newStockEntryRouter() (*gin.Engine, *memEntries) {
	svc := &memEntries{docs: make(map[id.ID]*stock_entry.StockEntry)}
	h := NewBaseDocumentHandler(NewBaseHandler(), BaseDocumentHandlerConfig[*stock_entry.StockEntry, stock_entry.ListFilter, dto.StockEntryRequest]{
		Service:     svc,
		MapRequest:  dto.StockEntryRequest.ToStockEntry,
		ParseFilter: parseStockEntryFilter,
	})
	r := newEngine()
	h.RegisterRoutes(r.Group("/document/stock-entry"))
	return r, svc
}

func TestDocumentHandler_Lifecycle(t *testing.T) {
	r, svc := newStockEntryRouter()

	w := do(r, http.MethodPost, "/document/stock-entry", gin.H{
		"purpose":     "Material Receipt",
		"postingDate": "2026-03-02",
		"items":       []gin.H{{"itemCode": "BOLT", "tWarehouse": "Stores", "qty": 5}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "STE-2026-00001", created["number"])
	docID := created["id"].(string)

	var stored *stock_entry.StockEntry
	for _, doc := range svc.docs {
		stored = doc
	}
	require.NotNil(t, stored)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Stores", stored.Items[0].TWarehouse)
	assert.Equal(t, "1", stored.Items[0].ConversionFactor.String())

	w = do(r, http.MethodPost, "/document/stock-entry/"+docID+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, entity.DocStatusSubmitted, decode(t, w)["docstatus"])

	w = do(r, http.MethodPut, "/document/stock-entry/"+docID, gin.H{"purpose": "Material Receipt"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeDocumentSubmitted, decode(t, w)["code"])

	w = do(r, http.MethodPost, "/document/stock-entry/"+docID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, entity.DocStatusCancelled, decode(t, w)["docstatus"])
}

func TestDocumentHandler_ListFilters(t *testing.T) {
	r, svc := newStockEntryRouter()
	poID := id.New()

	w := do(r, http.MethodGet, "/document/stock-entry?purpose=Manufacture&productionOrder="+poID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, stock_entry.PurposeManufacture, svc.lastFilter.Purpose)
	require.NotNil(t, svc.lastFilter.ProductionOrderID)
	assert.Equal(t, poID, *svc.lastFilter.ProductionOrderID)
	assert.Equal(t, "-created_at", svc.lastFilter.OrderBy)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/document/stock-entry?purpose=Sale", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/document/stock-entry?productionOrder=x", nil).Code)
}

func TestDocumentHandler_BadID(t *testing.T) {
	r, _ := newStockEntryRouter()

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/document/stock-entry/not-an-id", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/document/stock-entry/"+id.New().String(), nil).Code)
}
