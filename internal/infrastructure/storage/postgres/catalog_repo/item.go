package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"rms/internal/core/apperror"
	"rms/internal/domain/catalogs/item"
	"rms/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository. item_group supports
// in_hierarchy filters.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	base := NewBaseCatalogRepo(
		txm,
		itemTable,
		postgres.ExtractDBColumns[item.Item](),
		func() *item.Item { return &item.Item{} },
	).WithHierarchy(postgres.HierarchyTables{"item_group": itemGroupTable})
	return &ItemRepo{BaseCatalogRepo: base}
}

// SetDefaultBOM updates the default BOM of an item.
func (r *ItemRepo) SetDefaultBOM(ctx context.Context, itemCode, bomNo string) error {
	sql, args, err := r.Builder().
		Update(itemTable).
		Set("default_bom", bomNo).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"code": itemCode}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set default bom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("Item", itemCode)
	}
	return nil
}

var _ item.Repository = (*ItemRepo)(nil)
