package handlers

import (
	"github.com/gin-gonic/gin"

	"rms/internal/core/apperror"
	"rms/internal/core/id"
	"rms/internal/domain"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/production_order"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/domain/documents/stock_reconciliation"
	"rms/internal/infrastructure/http/v1/dto"
)

// --- Material Request ---

// MaterialRequestHandler serves /document/material-request.
type MaterialRequestHandler struct {
	*BaseDocumentHandler[*material_request.MaterialRequest, material_request.ListFilter, dto.MaterialRequestRequest]
	service *material_request.Service
}

// NewMaterialRequestHandler creates the handler.
func NewMaterialRequestHandler(base *BaseHandler, svc *material_request.Service) *MaterialRequestHandler {
	return &MaterialRequestHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*material_request.MaterialRequest, material_request.ListFilter, dto.MaterialRequestRequest]{
			Service:     svc,
			MapRequest:  dto.MaterialRequestRequest.ToMaterialRequest,
			ParseFilter: parseMaterialRequestFilter,
			DefaultSort: "-transaction_date",
		}),
		service: svc,
	}
}

func parseMaterialRequestFilter(c *gin.Context, base domain.ListFilter) (material_request.ListFilter, error) {
	f := material_request.ListFilter{ListFilter: base}
	if t := c.Query("materialRequestType"); t != "" {
		f.Type = material_request.Type(t)
		if !f.Type.Valid() {
			return f, apperror.NewValidation("unknown material request type").WithDetail("value", t)
		}
	}
	if s := c.Query("status"); s != "" {
		f.Status = material_request.Status(s)
		if !f.Status.Valid() {
			return f, apperror.NewValidation("unknown status").WithDetail("value", s)
		}
	}
	return f, nil
}

// UpdateStatus handles POST /document/material-request/:id/status
func (h *MaterialRequestHandler) UpdateStatus(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateStatus(c.Request.Context(), docID, material_request.Status(req.Status), req.Version)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// RegisterRoutes adds the status route to the document routes.
func (h *MaterialRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.BaseDocumentHandler.RegisterRoutes(rg)
	rg.POST("/:id/status", h.UpdateStatus)
}

// --- Stock Entry ---

// NewStockEntryHandler creates the /document/stock-entry handler.
func NewStockEntryHandler(base *BaseHandler, svc *stock_entry.Service) *BaseDocumentHandler[*stock_entry.StockEntry, stock_entry.ListFilter, dto.StockEntryRequest] {
	return NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*stock_entry.StockEntry, stock_entry.ListFilter, dto.StockEntryRequest]{
		Service:     svc,
		MapRequest:  dto.StockEntryRequest.ToStockEntry,
		ParseFilter: parseStockEntryFilter,
		DefaultSort: "-posting_date",
	})
}

func parseStockEntryFilter(c *gin.Context, base domain.ListFilter) (stock_entry.ListFilter, error) {
	f := stock_entry.ListFilter{ListFilter: base}
	if p := c.Query("purpose"); p != "" {
		f.Purpose = stock_entry.Purpose(p)
		if !f.Purpose.Valid() {
			return f, apperror.NewValidation("unknown purpose").WithDetail("value", p)
		}
	}
	if raw := c.Query("productionOrder"); raw != "" {
		poID, err := id.Parse(raw)
		if err != nil {
			return f, apperror.NewValidation("invalid productionOrder id")
		}
		f.ProductionOrderID = &poID
	}
	return f, nil
}

// --- Stock Reconciliation ---

// StockReconciliationHandler serves /document/stock-reconciliation.
type StockReconciliationHandler struct {
	*BaseDocumentHandler[*stock_reconciliation.StockReconciliation, domain.ListFilter, dto.StockReconciliationRequest]
	service *stock_reconciliation.Service
}

// NewStockReconciliationHandler creates the handler.
func NewStockReconciliationHandler(base *BaseHandler, svc *stock_reconciliation.Service) *StockReconciliationHandler {
	return &StockReconciliationHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*stock_reconciliation.StockReconciliation, domain.ListFilter, dto.StockReconciliationRequest]{
			Service:    svc,
			MapRequest: dto.StockReconciliationRequest.ToStockReconciliation,
			ParseFilter: func(_ *gin.Context, base domain.ListFilter) (domain.ListFilter, error) {
				return base, nil
			},
			DefaultSort: "-posting_date",
		}),
		service: svc,
	}
}

// Upload handles POST /document/stock-reconciliation/upload: a multipart
// "file" field holding an .xlsx sheet (Item Code, Warehouse, Qty). It
// creates a draft reconciliation with one row per sheet row.
func (h *StockReconciliationHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	items, err := stock_reconciliation.ReadUpload(f)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc := stock_reconciliation.NewStockReconciliation()
	if raw := c.PostForm("postingDate"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid postingDate"))
			return
		}
		doc.PostingDate = d
	}
	doc.Comment = c.PostForm("comment")
	doc.Items = items

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// RegisterRoutes adds the upload route to the document routes.
func (h *StockReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.Upload)
	h.BaseDocumentHandler.RegisterRoutes(rg)
}

// --- Production Order ---

// ProductionOrderHandler serves /document/production-order.
type ProductionOrderHandler struct {
	*BaseDocumentHandler[*production_order.ProductionOrder, production_order.ListFilter, dto.ProductionOrderRequest]
	service *production_order.Service
}

// NewProductionOrderHandler creates the handler.
func NewProductionOrderHandler(base *BaseHandler, svc *production_order.Service) *ProductionOrderHandler {
	return &ProductionOrderHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*production_order.ProductionOrder, production_order.ListFilter, dto.ProductionOrderRequest]{
			Service:     svc,
			MapRequest:  dto.ProductionOrderRequest.ToProductionOrder,
			ParseFilter: parseProductionOrderFilter,
			DefaultSort: "-planned_start_date",
		}),
		service: svc,
	}
}

func parseProductionOrderFilter(c *gin.Context, base domain.ListFilter) (production_order.ListFilter, error) {
	return production_order.ListFilter{
		ListFilter:     base,
		Status:         production_order.Status(c.Query("status")),
		ProductionItem: c.Query("productionItem"),
	}, nil
}

// Stop handles POST /document/production-order/:id/stop
func (h *ProductionOrderHandler) Stop(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.StopRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.SetStopped(c.Request.Context(), docID, req.Stopped)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Calendar handles GET /document/production-order/calendar?start=&end=
func (h *ProductionOrderHandler) Calendar(c *gin.Context) {
	start, err := dto.ParseDate(c.Query("start"))
	if err != nil {
		h.Error(c, apperror.NewValidation("start is required (YYYY-MM-DD)"))
		return
	}
	end, err := dto.ParseDate(c.Query("end"))
	if err != nil {
		h.Error(c, apperror.NewValidation("end is required (YYYY-MM-DD)"))
		return
	}

	events, err := h.service.Calendar(c.Request.Context(), production_order.CalendarFilter{
		Start:          start,
		End:            end,
		ProductionItem: c.Query("productionItem"),
		WIPWarehouse:   c.Query("wipWarehouse"),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"events": events})
}

// RegisterRoutes adds stop and calendar to the document routes.
func (h *ProductionOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/calendar", h.Calendar)
	h.BaseDocumentHandler.RegisterRoutes(rg)
	rg.POST("/:id/stop", h.Stop)
}
