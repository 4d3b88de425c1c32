package catalog_repo

import (
	"rms/internal/domain/catalogs/item_group"
	"rms/internal/infrastructure/storage/postgres"
)

const itemGroupTable = "cat_item_groups"

// ItemGroupRepo implements item_group.Repository.
type ItemGroupRepo struct {
	*BaseCatalogRepo[*item_group.ItemGroup]
	treeStore
}

// NewItemGroupRepo creates a new item group repository.
func NewItemGroupRepo(txm *postgres.TxManager) *ItemGroupRepo {
	return &ItemGroupRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			itemGroupTable,
			postgres.ExtractDBColumns[item_group.ItemGroup](),
			func() *item_group.ItemGroup { return &item_group.ItemGroup{} },
		),
		treeStore: newTreeStore(txm, itemGroupTable),
	}
}

var _ item_group.Repository = (*ItemGroupRepo)(nil)
