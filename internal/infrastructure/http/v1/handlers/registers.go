package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/domain/registers/stock"
	"rms/internal/infrastructure/http/v1/dto"
)

// StockRegisters reads bins and ledger history.
type StockRegisters interface {
	ListBins(ctx context.Context, filter stock.BinFilter) ([]entity.Bin, error)
	ListEntries(ctx context.Context, filter stock.LedgerFilter) ([]entity.StockLedgerEntry, int64, error)
}

// RegistersHandler serves /registers.
type RegistersHandler struct {
	*BaseHandler
	stock StockRegisters
}

// NewRegistersHandler creates the handler.
func NewRegistersHandler(base *BaseHandler, registers StockRegisters) *RegistersHandler {
	return &RegistersHandler{BaseHandler: base, stock: registers}
}

// Bins handles GET /registers/bins?itemCode=&warehouse=&excludeZero=
// warehouse matches the whole warehouse subtree.
func (h *RegistersHandler) Bins(c *gin.Context) {
	bins, err := h.stock.ListBins(c.Request.Context(), stock.BinFilter{
		ItemCode:    c.Query("itemCode"),
		Warehouse:   c.Query("warehouse"),
		ExcludeZero: c.Query("excludeZero") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": bins})
}

// StockLedger handles GET /registers/stock-ledger
func (h *RegistersHandler) StockLedger(c *gin.Context) {
	filter := stock.LedgerFilter{
		ItemCode:         c.Query("itemCode"),
		Warehouse:        c.Query("warehouse"),
		VoucherNo:        c.Query("voucherNo"),
		IncludeCancelled: c.Query("includeCancelled") == "true",
		Limit:            h.ParseIntQuery(c, "limit", 100),
		Offset:           h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("fromDate"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid fromDate"))
			return
		}
		filter.FromDate = &d
	}
	if raw := c.Query("toDate"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid toDate"))
			return
		}
		filter.ToDate = &d
	}

	entries, total, err := h.stock.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      entries,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// RegisterRoutes registers the register routes.
func (h *RegistersHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bins", h.Bins)
	rg.GET("/stock-ledger", h.StockLedger)
}
