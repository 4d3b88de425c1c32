package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/domain"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/production_order"
)

func TestTransferredQuery(t *testing.T) {
	rows := []id.ID{id.New(), id.New()}

	sql, args, err := transferredQuery(rows).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM doc_stock_entry_items sei JOIN doc_stock_entries se ON se.id = sei.stock_entry_id")
	assert.Contains(t, sql, "sei.material_request_item_id IN ($1,$2)")
	assert.Contains(t, sql, "se.docstatus = $3")
	assert.Contains(t, sql, "GROUP BY sei.material_request_item_id")
	assert.Equal(t, entity.DocStatusSubmitted, args[2])
}

func TestProductionQuery(t *testing.T) {
	sql, _, err := productionQuery([]id.ID{id.New()}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM doc_production_orders")
	assert.Contains(t, sql, "SUM(qty)")
}

func TestIndentedQuery_SkipsStoppedClosedAndFulfilled(t *testing.T) {
	sql, args, err := indentedQuery("BOLT", "Stores").ToSql()
	require.NoError(t, err)

	assert.Regexp(t, `mr\.status NOT IN \(\$\d+,\$\d+\)`, sql)
	assert.Contains(t, args, material_request.StatusStopped)
	assert.Contains(t, args, material_request.StatusClosed)
	assert.Contains(t, sql, "mri.stock_qty > mri.ordered_qty")
	assert.Contains(t, args, "BOLT")
	assert.Contains(t, args, "Stores")
}

func TestPlannedQtyQuery(t *testing.T) {
	sql, args, err := plannedQtyQuery("TABLE", "Finished Goods").ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "SUM(qty - produced_qty)")
	assert.Contains(t, sql, "qty > produced_qty")
	assert.Contains(t, args, production_order.StatusStopped)
}

func TestPlannedQuery_Overlap(t *testing.T) {
	r := NewProductionOrderRepo(nil)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := r.plannedQuery(production_order.CalendarFilter{
		Start:          start,
		End:            start.AddDate(0, 1, 0),
		ProductionItem: "TABLE",
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "planned_start_date <= $")
	assert.Contains(t, sql, "COALESCE(planned_end_date, planned_start_date) >= $")
	assert.Contains(t, sql, "production_item = $")
	assert.NotContains(t, sql, "wip_warehouse =")
	assert.Contains(t, args, "TABLE")
}

func TestListQuery_DocumentFilters(t *testing.T) {
	r := NewStockEntryRepo(nil)
	submitted := entity.DocStatusSubmitted
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	q, err := r.listQuery(domain.ListFilter{
		Search:    "STE-",
		DocStatus: &submitted,
		DateFrom:  &from,
	}, nil)
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "deletion_mark = $1")
	assert.Contains(t, sql, "number ILIKE $2")
	assert.Contains(t, sql, "docstatus = $3")
	assert.Contains(t, sql, "posting_date >= $4")
	assert.Equal(t, "%STE-%", args[1])
}

func TestStockEntryColumns(t *testing.T) {
	r := NewStockEntryRepo(nil)

	assert.Contains(t, r.selectCols, "purpose")
	assert.Contains(t, r.selectCols, "production_order_id")
	assert.NotContains(t, r.selectCols, "items")
	assert.Contains(t, r.items.columns, "s_warehouse")
	assert.Contains(t, r.items.columns, "material_request_item_id")
}
