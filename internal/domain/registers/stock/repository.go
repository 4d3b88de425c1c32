// Package stock provides the stock ledger and the Bin quantity register.
package stock

import (
	"context"
	"time"

	"rms/internal/core/entity"
	"rms/internal/core/id"
)

// BinKey identifies a Bin.
type BinKey struct {
	ItemCode  string
	Warehouse string
}

// Repository defines operations for the stock registers.
type Repository interface {
	// GetBinForUpdate returns the bin with a row lock, creating it when missing.
	GetBinForUpdate(ctx context.Context, key BinKey) (*entity.Bin, error)

	// GetBin returns the bin or an empty one when missing.
	GetBin(ctx context.Context, key BinKey) (*entity.Bin, error)

	// SaveBin upserts the bin.
	SaveBin(ctx context.Context, bin *entity.Bin) error

	// InsertEntries bulk inserts ledger entries.
	InsertEntries(ctx context.Context, entries []entity.StockLedgerEntry) error

	// GetVoucherEntries returns the live (docstatus 1) entries of a voucher.
	GetVoucherEntries(ctx context.Context, voucherID id.ID) ([]entity.StockLedgerEntry, error)

	// CancelVoucherEntries flips the voucher's entries to docstatus 2.
	CancelVoucherEntries(ctx context.Context, voucherID id.ID) error

	ListBins(ctx context.Context, filter BinFilter) ([]entity.Bin, error)
	ListEntries(ctx context.Context, filter LedgerFilter) ([]entity.StockLedgerEntry, int64, error)
}

// BinFilter for bin queries. Warehouse matches the warehouse subtree.
type BinFilter struct {
	ItemCode    string
	Warehouse   string
	ExcludeZero bool
	Limit       int
	Offset      int
}

// LedgerFilter for ledger history queries.
type LedgerFilter struct {
	ItemCode         string
	Warehouse        string
	VoucherNo        string
	FromDate         *time.Time
	ToDate           *time.Time
	IncludeCancelled bool
	Limit            int
	Offset           int
}
