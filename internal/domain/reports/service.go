package reports

import "rms/internal/core/tx"

// Service runs query reports.
type Service struct {
	repo            Repository
	precision       PrecisionSource
	ledgerThreshold int64
	snapshot        tx.ReadOnlyManager
}

// NewService creates a new reports service. Reports without an item or
// warehouse filter are refused once the ledger holds more than
// ledgerThreshold entries; zero disables the check.
func NewService(repo Repository, precision PrecisionSource, ledgerThreshold int64) *Service {
	return &Service{repo: repo, precision: precision, ledgerThreshold: ledgerThreshold}
}

// WithSnapshot makes reports read items and ledger rows in one read-only
// transaction, so postings committed mid-report are not half counted.
func (s *Service) WithSnapshot(m tx.ReadOnlyManager) *Service {
	s.snapshot = m
	return s
}
