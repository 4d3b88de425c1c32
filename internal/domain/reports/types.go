// Package reports provides query reports returning (columns, data).
package reports

import (
	"fmt"
	"time"

	"rms/internal/core/types"
)

// Column describes one report column.
type Column struct {
	Label     string `json:"label"`
	FieldType string `json:"fieldtype"`
	Options   string `json:"options,omitempty"`
	Width     int    `json:"width"`
}

// String renders the column in "Label:Type/Options:Width" notation.
func (c Column) String() string {
	t := c.FieldType
	if c.Options != "" {
		t += "/" + c.Options
	}
	return fmt.Sprintf("%s:%s:%d", c.Label, t, c.Width)
}

// Result is the outcome of a report run.
type Result struct {
	Columns []Column `json:"columns"`
	Data    [][]any  `json:"data"`
}

// StockBalanceFilter holds the Stock Balance report filters.
type StockBalanceFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	ItemGroup string
	ItemCode  string
	Warehouse string
}

// LedgerRow is the part of a stock ledger entry the balance report reads.
type LedgerRow struct {
	ItemCode            string         `db:"item_code"`
	Warehouse           string         `db:"warehouse"`
	PostingDate         time.Time      `db:"posting_date"`
	ActualQty           types.Quantity `db:"actual_qty"`
	QtyAfterTransaction types.Quantity `db:"qty_after_transaction"`
	VoucherType         string         `db:"voucher_type"`
}

// ItemDetails are the descriptive item columns of the report.
type ItemDetails struct {
	ItemCode    string `db:"code"`
	ItemName    string `db:"name"`
	ItemGroup   string `db:"item_group"`
	Description string `db:"description"`
}
