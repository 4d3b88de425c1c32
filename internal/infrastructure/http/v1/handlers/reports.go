package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"rms/internal/core/apperror"
	"rms/internal/domain/reports"
	"rms/internal/infrastructure/http/v1/dto"
	"rms/pkg/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StockBalanceReport executes the stock balance report.
type StockBalanceReport interface {
	StockBalance(ctx context.Context, filter reports.StockBalanceFilter) (*reports.Result, error)
}

// ReportsHandler serves /reports.
type ReportsHandler struct {
	*BaseHandler
	service StockBalanceReport
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service StockBalanceReport) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// StockBalance handles GET /reports/stock-balance. Query: fromDate, toDate,
// itemGroup, itemCode, warehouse, format (json or xlsx).
func (h *ReportsHandler) StockBalance(c *gin.Context) {
	started := time.Now()
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "xlsx" {
		h.Error(c, apperror.NewValidation("format must be json or xlsx"))
		return
	}

	filter := reports.StockBalanceFilter{
		ItemGroup: c.Query("itemGroup"),
		ItemCode:  c.Query("itemCode"),
		Warehouse: c.Query("warehouse"),
	}
	for key, target := range map[string]**time.Time{"fromDate": &filter.FromDate, "toDate": &filter.ToDate} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		d, err := dto.ParseDate(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid "+key).WithDetail("value", raw))
			return
		}
		*target = &d
	}

	res, err := h.service.StockBalance(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	if format == "xlsx" {
		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="stock-balance-%s.xlsx"`,
			filter.ToDate.Format("2006-01-02")))
		if err := reports.WriteXLSX(c.Writer, "Stock Balance", res); err != nil {
			h.Error(c, fmt.Errorf("write stock balance xlsx: %w", err))
			return
		}
	} else {
		h.OK(c, res)
	}
	metrics.ObserveReport("stock_balance", format, time.Since(started))
}

// RegisterRoutes registers the report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock-balance", h.StockBalance)
}
