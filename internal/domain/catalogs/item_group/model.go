// Package item_group provides the Item Group tree catalog.
package item_group

import (
	"context"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/domain"
	"rms/internal/domain/catalogs/tree"
)

// RootCode is the conventional root of the item group tree.
const RootCode = "All Item Groups"

// ItemGroup classifies items. Code is the group name.
type ItemGroup struct {
	entity.Catalog
	entity.TreeNode
}

// Validate implements entity.Validatable interface.
func (g *ItemGroup) Validate(ctx context.Context) error {
	if g.Code == "" {
		return apperror.NewValidation("Item Group name is required").WithDetail("field", "code")
	}
	if g.Name == "" {
		g.Name = g.Code
	}
	return nil
}

// Repository defines the interface for Item Group persistence.
type Repository interface {
	domain.CatalogRepository[*ItemGroup]
	tree.Repository
}
