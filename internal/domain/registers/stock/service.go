package stock

import (
	"context"
	"fmt"
	"sort"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/pkg/logger"
	"rms/pkg/metrics"
)

// Service provides business operations for the stock registers.
// Writes are expected to run inside the caller's transaction.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordEntries posts ledger entries of one voucher. The running balance of
// every item+warehouse is taken from its locked Bin; a negative result fails
// with an insufficient stock error. Reconciliation entries carry the target
// balance in QtyAfterTransaction and get ActualQty set to the difference.
func (s *Service) RecordEntries(ctx context.Context, entries []entity.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	bins, err := s.lockBins(ctx, entries)
	if err != nil {
		return err
	}

	for i := range entries {
		e := &entries[i]
		bin := bins[BinKey{e.ItemCode, e.Warehouse}]

		if e.IsReconciliation() {
			e.ActualQty = e.QtyAfterTransaction - bin.ActualQty
		} else {
			e.QtyAfterTransaction = bin.ActualQty + e.ActualQty
		}
		if e.QtyAfterTransaction.IsNegative() {
			return apperror.NewInsufficientStock(e.ItemCode, e.Warehouse,
				e.ActualQty.Abs().Float64(), bin.ActualQty.Float64())
		}
		bin.ActualQty = e.QtyAfterTransaction
	}

	if err := s.saveBins(ctx, bins); err != nil {
		return err
	}
	if err := s.repo.InsertEntries(ctx, entries); err != nil {
		return fmt.Errorf("insert ledger entries: %w", err)
	}

	metrics.LedgerEntries(len(entries))
	logger.Debug(ctx, "recorded stock ledger entries",
		"voucher_no", entries[0].VoucherNo,
		"count", len(entries),
	)
	return nil
}

// CancelVoucher marks the voucher's entries cancelled and reverses their
// effect on the bins.
func (s *Service) CancelVoucher(ctx context.Context, voucherID id.ID) error {
	entries, err := s.repo.GetVoucherEntries(ctx, voucherID)
	if err != nil {
		return fmt.Errorf("get voucher entries: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	bins, err := s.lockBins(ctx, entries)
	if err != nil {
		return err
	}
	for _, e := range entries {
		bin := bins[BinKey{e.ItemCode, e.Warehouse}]
		after := bin.ActualQty - e.ActualQty
		if after.IsNegative() {
			return apperror.NewInsufficientStock(e.ItemCode, e.Warehouse,
				e.ActualQty.Float64(), bin.ActualQty.Float64())
		}
		bin.ActualQty = after
	}

	if err := s.saveBins(ctx, bins); err != nil {
		return err
	}
	if err := s.repo.CancelVoucherEntries(ctx, voucherID); err != nil {
		return fmt.Errorf("cancel ledger entries: %w", err)
	}

	logger.Debug(ctx, "cancelled stock ledger entries",
		"voucher_no", entries[0].VoucherNo,
		"count", len(entries),
	)
	return nil
}

// lockBins locks the bins touched by entries in key order.
func (s *Service) lockBins(ctx context.Context, entries []entity.StockLedgerEntry) (map[BinKey]*entity.Bin, error) {
	bins := make(map[BinKey]*entity.Bin)
	var keys []BinKey
	for _, e := range entries {
		k := BinKey{e.ItemCode, e.Warehouse}
		if _, ok := bins[k]; ok {
			continue
		}
		bins[k] = nil
		keys = append(keys, k)
	}
	sortKeys(keys)

	for _, k := range keys {
		bin, err := s.repo.GetBinForUpdate(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("lock bin %s/%s: %w", k.ItemCode, k.Warehouse, err)
		}
		bins[k] = bin
	}
	return bins, nil
}

func (s *Service) saveBins(ctx context.Context, bins map[BinKey]*entity.Bin) error {
	for _, bin := range bins {
		bin.RecalcProjected()
		if err := s.repo.SaveBin(ctx, bin); err != nil {
			return fmt.Errorf("save bin: %w", err)
		}
	}
	return nil
}

// UpdateBin locks the bin, applies fn and saves it with projected qty recomputed.
func (s *Service) UpdateBin(ctx context.Context, key BinKey, fn func(bin *entity.Bin)) error {
	bin, err := s.repo.GetBinForUpdate(ctx, key)
	if err != nil {
		return fmt.Errorf("lock bin %s/%s: %w", key.ItemCode, key.Warehouse, err)
	}
	fn(bin)
	bin.RecalcProjected()
	return s.repo.SaveBin(ctx, bin)
}

// SetIndentedQty stores the requested (indented) quantity of a bin.
func (s *Service) SetIndentedQty(ctx context.Context, key BinKey, qty types.Quantity) error {
	return s.UpdateBin(ctx, key, func(bin *entity.Bin) { bin.IndentedQty = qty })
}

// SetPlannedQty stores the planned production quantity of a bin.
func (s *Service) SetPlannedQty(ctx context.Context, key BinKey, qty types.Quantity) error {
	return s.UpdateBin(ctx, key, func(bin *entity.Bin) { bin.PlannedQty = qty })
}

// ProjectedQty returns the projected quantity of item+warehouse.
func (s *Service) ProjectedQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error) {
	bin, err := s.repo.GetBin(ctx, BinKey{itemCode, warehouse})
	if err != nil {
		return 0, fmt.Errorf("get bin: %w", err)
	}
	return bin.ProjectedQty, nil
}

// ActualQty returns the quantity on hand of item+warehouse.
func (s *Service) ActualQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error) {
	bin, err := s.repo.GetBin(ctx, BinKey{itemCode, warehouse})
	if err != nil {
		return 0, fmt.Errorf("get bin: %w", err)
	}
	return bin.ActualQty, nil
}

// ListBins returns bins matching filter.
func (s *Service) ListBins(ctx context.Context, filter BinFilter) ([]entity.Bin, error) {
	return s.repo.ListBins(ctx, filter)
}

// ListEntries returns ledger history and the total count.
func (s *Service) ListEntries(ctx context.Context, filter LedgerFilter) ([]entity.StockLedgerEntry, int64, error) {
	return s.repo.ListEntries(ctx, filter)
}

func sortKeys(keys []BinKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemCode != keys[j].ItemCode {
			return keys[i].ItemCode < keys[j].ItemCode
		}
		return keys[i].Warehouse < keys[j].Warehouse
	})
}
