package entity

import (
	"context"

	"rms/internal/core/apperror"
	"rms/internal/core/id"
)

// Catalog is the base type for reference data (Item, Warehouse, BOM, ...).
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier, unique per catalog
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// TreeNode holds the nested-set columns of hierarchical catalogs
// (Item Group, Warehouse). Lft/Rgt are maintained by the repository.
type TreeNode struct {
	ParentID *id.ID `db:"parent_id" json:"parentId,omitempty"`
	IsGroup  bool   `db:"is_group" json:"isGroup"`
	Lft      int    `db:"lft" json:"lft"`
	Rgt      int    `db:"rgt" json:"rgt"`
}

// IsRoot returns true if node has no parent.
func (t *TreeNode) IsRoot() bool {
	return t.ParentID == nil || id.IsNil(*t.ParentID)
}

// Contains reports whether other lies in the subtree rooted at t.
func (t *TreeNode) Contains(other TreeNode) bool {
	return t.Lft <= other.Lft && other.Rgt <= t.Rgt
}
