package dto

import (
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/catalogs/item"
	"rms/internal/domain/catalogs/item_group"
	"rms/internal/domain/catalogs/warehouse"
)

// --- Item ---

// ItemRequest creates or updates an item.
type ItemRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name"`
	ItemGroup   string `json:"itemGroup"`
	Description string `json:"description"`
	StockUOM    string `json:"stockUom"`
	IsStockItem *bool  `json:"isStockItem"`
	Disabled    bool   `json:"disabled"`
	EndOfLife   *Date  `json:"endOfLife"`
	Version     int    `json:"version"`
}

// ToItem maps the request onto target (a new item when nil).
func (r ItemRequest) ToItem(target *item.Item) *item.Item {
	if target == nil {
		target = item.NewItem(r.Code, r.Name, r.ItemGroup)
	}
	target.Code = r.Code
	target.Name = r.Name
	target.ItemGroup = r.ItemGroup
	target.Description = r.Description
	if r.StockUOM != "" {
		target.StockUOM = r.StockUOM
	}
	if r.IsStockItem != nil {
		target.IsStockItem = *r.IsStockItem
	}
	target.Disabled = r.Disabled
	target.EndOfLife = r.EndOfLife.Ptr()
	if r.Version > 0 {
		target.Version = r.Version
	}
	return target
}

// --- Tree catalogs ---

// TreeNodeRequest creates or updates an item group or warehouse.
type TreeNodeRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name"`
	ParentID *id.ID `json:"parentId"`
	IsGroup  bool   `json:"isGroup"`
	Version  int    `json:"version"`
}

// ToItemGroup maps the request onto target (a new group when nil).
func (r TreeNodeRequest) ToItemGroup(target *item_group.ItemGroup) *item_group.ItemGroup {
	if target == nil {
		target = &item_group.ItemGroup{Catalog: entity.NewCatalog(r.Code, r.Name)}
	}
	target.Code, target.Name = r.Code, r.Name
	target.ParentID, target.IsGroup = r.ParentID, r.IsGroup
	if r.Version > 0 {
		target.Version = r.Version
	}
	return target
}

// ToWarehouse maps the request onto target (a new warehouse when nil).
func (r TreeNodeRequest) ToWarehouse(target *warehouse.Warehouse) *warehouse.Warehouse {
	if target == nil {
		target = warehouse.NewWarehouse(r.Code, r.Name)
	}
	target.Code, target.Name = r.Code, r.Name
	target.ParentID, target.IsGroup = r.ParentID, r.IsGroup
	if r.Version > 0 {
		target.Version = r.Version
	}
	return target
}

// --- BOM ---

// BOMLineRequest is one raw material.
type BOMLineRequest struct {
	ItemCode        string         `json:"itemCode" binding:"required"`
	Qty             types.Quantity `json:"qty"`
	SourceWarehouse string         `json:"sourceWarehouse"`
}

// BOMRequest creates or updates a BOM.
type BOMRequest struct {
	Item      string           `json:"item" binding:"required"`
	Quantity  types.Quantity   `json:"quantity"`
	IsActive  *bool            `json:"isActive"`
	IsDefault bool             `json:"isDefault"`
	Items     []BOMLineRequest `json:"items"`
	Version   int              `json:"version"`
}

// ToBOM maps the request onto target (a new BOM when nil).
func (r BOMRequest) ToBOM(target *bom.BOM) *bom.BOM {
	if target == nil {
		target = bom.NewBOM(r.Item, r.Quantity)
	}
	target.ItemCode = r.Item
	target.Quantity = r.Quantity
	if r.IsActive != nil {
		target.IsActive = *r.IsActive
	}
	target.IsDefault = r.IsDefault
	target.Items = make([]bom.Line, 0, len(r.Items))
	for i, l := range r.Items {
		target.Items = append(target.Items, bom.Line{
			ID:              id.New(),
			BOMID:           target.ID,
			Idx:             i + 1,
			ItemCode:        l.ItemCode,
			Qty:             l.Qty,
			SourceWarehouse: l.SourceWarehouse,
		})
	}
	if r.Version > 0 {
		target.Version = r.Version
	}
	return target
}
