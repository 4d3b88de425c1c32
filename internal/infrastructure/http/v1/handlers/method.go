package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"rms/internal/core/id"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/infrastructure/http/v1/dto"
)

// MaterialRequestMethods is the part of the material request service
// exposed as RPC methods.
type MaterialRequestMethods interface {
	GetByNumber(ctx context.Context, number string) (*material_request.MaterialRequest, error)
	MakeStockEntry(ctx context.Context, sourceID id.ID) (*stock_entry.StockEntry, error)
	RaiseProductionOrders(ctx context.Context, mrID id.ID) (material_request.RaiseResult, error)
}

// MethodHandler serves /method/*. Results are wrapped in {"message": ...}.
type MethodHandler struct {
	*BaseHandler
	requests MaterialRequestMethods
}

// NewMethodHandler creates the handler.
func NewMethodHandler(base *BaseHandler, requests MaterialRequestMethods) *MethodHandler {
	return &MethodHandler{BaseHandler: base, requests: requests}
}

// resolveRequest accepts either the request id or its number.
func (h *MethodHandler) resolveRequest(ctx context.Context, name string) (id.ID, error) {
	if parsed, err := id.Parse(name); err == nil {
		return parsed, nil
	}
	mr, err := h.requests.GetByNumber(ctx, name)
	if err != nil {
		return id.Nil(), err
	}
	return mr.ID, nil
}

// MakeStockEntry handles POST /method/make_stock_entry. The returned stock
// entry is not saved.
func (h *MethodHandler) MakeStockEntry(c *gin.Context) {
	var req dto.MakeStockEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	mrID, err := h.resolveRequest(ctx, req.SourceName)
	if err != nil {
		h.Error(c, err)
		return
	}
	se, err := h.requests.MakeStockEntry(ctx, mrID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"message": se})
}

// RaiseProductionOrders handles POST /method/raise_production_orders.
func (h *MethodHandler) RaiseProductionOrders(c *gin.Context) {
	var req dto.RaiseProductionOrdersRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	mrID, err := h.resolveRequest(ctx, req.MaterialRequest)
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.requests.RaiseProductionOrders(ctx, mrID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"message": res})
}

// RegisterRoutes registers the RPC methods.
func (h *MethodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/make_stock_entry", h.MakeStockEntry)
	rg.POST("/raise_production_orders", h.RaiseProductionOrders)
}
