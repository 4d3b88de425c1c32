package report_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/domain/reports"
)

func TestStockLedgerQuery(t *testing.T) {
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	sql, args, err := stockLedgerQuery(reports.StockBalanceFilter{
		ToDate:    &to,
		ItemGroup: "Hardware",
		Warehouse: "All Warehouses",
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "JOIN cat_items item ON item.code = sle.item_code")
	assert.Contains(t, sql, "sle.docstatus < $1")
	assert.Contains(t, sql, "sle.posting_date <= $2")
	assert.Contains(t, sql, "item.item_group IN")
	assert.Contains(t, sql, "sle.warehouse IN")
	assert.Contains(t, sql, "ORDER BY sle.posting_date, sle.posting_time, sle.id")
	assert.Equal(t, []any{to, "Hardware", "Hardware", "All Warehouses", "All Warehouses"}, args[1:])
}

func TestStockLedgerQuery_UnknownNodeIgnored(t *testing.T) {
	sql, args, err := stockLedgerQuery(reports.StockBalanceFilter{Warehouse: "Nowhere"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "(NOT EXISTS (SELECT 1 FROM cat_warehouses WHERE code = $2) OR sle.warehouse IN")
	assert.Equal(t, []any{"Nowhere", "Nowhere"}, args[1:])
}

func TestStockLedgerQuery_NoJoinWithoutItemGroup(t *testing.T) {
	sql, _, err := stockLedgerQuery(reports.StockBalanceFilter{ItemCode: "BOLT"}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "cat_items")
	assert.Contains(t, sql, "sle.item_code = $2")
}
