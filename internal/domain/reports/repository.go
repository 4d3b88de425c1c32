package reports

import (
	"context"
)

// Repository defines report data access.
type Repository interface {
	// CountLedgerEntries returns the size of the stock ledger.
	CountLedgerEntries(ctx context.Context) (int64, error)

	// StockLedgerRows returns live ledger entries up to filter.ToDate
	// ordered by posting date, posting time and id.
	StockLedgerRows(ctx context.Context, filter StockBalanceFilter) ([]LedgerRow, error)

	// ItemDetails returns items keyed by code; all items when itemCode is empty.
	ItemDetails(ctx context.Context, itemCode string) (map[string]ItemDetails, error)
}

// PrecisionSource provides the system float precision.
type PrecisionSource interface {
	FloatPrecision(ctx context.Context) (int32, error)
}
