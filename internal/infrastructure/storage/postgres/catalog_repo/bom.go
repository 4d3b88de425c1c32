package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"rms/internal/core/id"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/infrastructure/storage/postgres"
)

const (
	bomTable     = "cat_boms"
	bomLineTable = "cat_bom_items"
)

var bomLineColumns = postgres.ExtractDBColumns[bom.Line]()

// BOMRepo implements bom.Repository. Lines are replaced on every save.
type BOMRepo struct {
	*BaseCatalogRepo[*bom.BOM]
	inserter *postgres.BatchInserter
	txm      *postgres.TxManager
}

// NewBOMRepo creates a new BOM repository.
func NewBOMRepo(txm *postgres.TxManager) *BOMRepo {
	return &BOMRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			bomTable,
			postgres.ExtractDBColumns[bom.BOM](),
			func() *bom.BOM { return &bom.BOM{} },
		),
		inserter: postgres.NewBatchInserter(txm),
		txm:      txm,
	}
}

// Create inserts header and lines in one transaction.
func (r *BOMRepo) Create(ctx context.Context, b *bom.BOM) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseCatalogRepo.Create(ctx, b); err != nil {
			return err
		}
		return r.saveLines(ctx, b)
	})
}

// Update saves header and replaces lines.
func (r *BOMRepo) Update(ctx context.Context, b *bom.BOM) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.BaseCatalogRepo.Update(ctx, b); err != nil {
			return err
		}
		return r.saveLines(ctx, b)
	})
}

func (r *BOMRepo) saveLines(ctx context.Context, b *bom.BOM) error {
	sql, args, err := r.Builder().Delete(bomLineTable).Where(squirrel.Eq{"bom_id": b.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete bom lines: %w", err)
	}

	rows := make([][]any, 0, len(b.Items))
	for _, line := range b.Items {
		m := postgres.StructToMap(line)
		row := make([]any, len(bomLineColumns))
		for i, col := range bomLineColumns {
			row[i] = m[col]
		}
		rows = append(rows, row)
	}
	if _, err := r.inserter.CopyFromSlice(ctx, bomLineTable, bomLineColumns, rows); err != nil {
		return fmt.Errorf("insert bom lines: %w", err)
	}
	return nil
}

func (r *BOMRepo) loadLines(ctx context.Context, b *bom.BOM) error {
	sql, args, err := r.Builder().
		Select(bomLineColumns...).
		From(bomLineTable).
		Where(squirrel.Eq{"bom_id": b.ID}).
		OrderBy("idx").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	b.Items = nil
	if err := pgxscan.Select(ctx, r.querier(ctx), &b.Items, sql, args...); err != nil {
		return fmt.Errorf("load bom lines: %w", err)
	}
	return nil
}

// GetByID retrieves a BOM with its lines.
func (r *BOMRepo) GetByID(ctx context.Context, bomID id.ID) (*bom.BOM, error) {
	b, err := r.BaseCatalogRepo.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	return b, r.loadLines(ctx, b)
}

// GetByCode retrieves a BOM by number with its lines.
func (r *BOMRepo) GetByCode(ctx context.Context, code string) (*bom.BOM, error) {
	b, err := r.BaseCatalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return b, r.loadLines(ctx, b)
}

// ClearDefault unsets is_default on the item's BOMs other than except.
func (r *BOMRepo) ClearDefault(ctx context.Context, itemCode string, except id.ID) error {
	sql, args, err := r.Builder().
		Update(bomTable).
		Set("is_default", false).
		Where(squirrel.Eq{"item_code": itemCode, "is_default": true}).
		Where(squirrel.NotEq{"id": except}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear default: %w", err)
	}
	return nil
}

var _ bom.Repository = (*BOMRepo)(nil)
