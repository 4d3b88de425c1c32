package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/id"
	"rms/internal/domain"
)

type group struct{ id id.ID }

func (g *group) GetID() id.ID { return g.id }

type fakeRepo struct {
	fakeStore
	children map[id.ID]bool
}

func (f *fakeRepo) HasChildren(_ context.Context, nodeID id.ID) (bool, error) {
	return f.children[nodeID], nil
}

func TestAttach(t *testing.T) {
	parent := &group{id: id.New()}
	leaf := &group{id: id.New()}
	repo := &fakeRepo{
		fakeStore: fakeStore{nodes: []Node{{ID: parent.id, Code: "Stores"}}},
		children:  map[id.ID]bool{parent.id: true},
	}
	hooks := domain.NewHookRegistry[*group]()
	Attach(hooks, repo)

	ctx := context.Background()
	require.NoError(t, hooks.Run(ctx, domain.AfterCreate, leaf))
	assert.Len(t, repo.saved, 1)

	err := hooks.Run(ctx, domain.BeforeDelete, parent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "child nodes")

	assert.NoError(t, hooks.Run(ctx, domain.BeforeDelete, leaf))
}
