package tree

import (
	"context"

	"rms/internal/core/apperror"
	"rms/internal/core/id"
	"rms/internal/domain"
)

// Repository is the persistence a tree catalog needs beyond plain CRUD.
type Repository interface {
	Store
	HasChildren(ctx context.Context, nodeID id.ID) (bool, error)
}

// Attach registers the hooks that keep a tree catalog consistent:
// bounds are rebuilt after every write and nodes with children cannot be deleted.
func Attach[T interface{ GetID() id.ID }](hooks *domain.HookRegistry[T], repo Repository) {
	m := NewMaintainer(repo)
	refresh := func(ctx context.Context, _ T) error { return m.Refresh(ctx) }

	hooks.On(domain.AfterCreate, refresh)
	hooks.On(domain.AfterUpdate, refresh)
	hooks.On(domain.BeforeDelete, func(ctx context.Context, node T) error {
		has, err := repo.HasChildren(ctx, node.GetID())
		if err != nil {
			return err
		}
		if has {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "Cannot delete a node that has child nodes")
		}
		return nil
	})
}
