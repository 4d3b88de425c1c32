package register_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/domain/registers/stock"
)

func TestLedgerQuery(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := ledgerQuery(stock.LedgerFilter{
		ItemCode:  "BOLT",
		Warehouse: "Stores",
		FromDate:  &from,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM reg_stock_ledger")
	assert.Contains(t, sql, "docstatus < $1")
	assert.Contains(t, sql, "item_code = $2")
	assert.Contains(t, sql, "warehouse IN")
	assert.Contains(t, sql, "posting_date >= $4")
	assert.Len(t, args, 4)
}

func TestLedgerQuery_IncludeCancelled(t *testing.T) {
	sql, args, err := ledgerQuery(stock.LedgerFilter{IncludeCancelled: true}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "docstatus")
	assert.Empty(t, args)
}
