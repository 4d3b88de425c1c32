// Package tree maintains nested-set bounds (lft/rgt) of hierarchical
// catalogs so that subtree queries are a single range condition.
package tree

import (
	"context"
	"fmt"
	"sort"

	"rms/internal/core/apperror"
	"rms/internal/core/id"
)

// Node is the part of a tree row needed to compute bounds.
type Node struct {
	ID       id.ID  `db:"id"`
	ParentID *id.ID `db:"parent_id"`
	Code     string `db:"code"`
	Lft      int    `db:"lft"`
	Rgt      int    `db:"rgt"`
}

// Store loads and saves nested-set bounds of one tree table.
type Store interface {
	// LockNodes returns all nodes, locking them until the transaction ends.
	LockNodes(ctx context.Context) ([]Node, error)
	SaveBounds(ctx context.Context, nodes []Node) error
}

// Rebuild assigns lft/rgt by depth-first traversal. Siblings are visited in
// code order. Nodes whose parent is missing are treated as roots.
func Rebuild(nodes []Node) ([]Node, error) {
	byID := make(map[id.ID]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = i
	}

	children := make(map[id.ID][]int, len(nodes))
	var roots []int
	for i, n := range nodes {
		if n.ParentID == nil || id.IsNil(*n.ParentID) {
			roots = append(roots, i)
			continue
		}
		if _, ok := byID[*n.ParentID]; !ok {
			roots = append(roots, i)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], i)
	}

	byCode := func(idx []int) {
		sort.Slice(idx, func(a, b int) bool { return nodes[idx[a]].Code < nodes[idx[b]].Code })
	}
	byCode(roots)
	for _, c := range children {
		byCode(c)
	}

	out := make([]Node, len(nodes))
	copy(out, nodes)

	counter := 0
	visited := make([]bool, len(nodes))
	var walk func(i int)
	walk = func(i int) {
		visited[i] = true
		counter++
		out[i].Lft = counter
		for _, c := range children[nodes[i].ID] {
			walk(c)
		}
		counter++
		out[i].Rgt = counter
	}
	for _, r := range roots {
		walk(r)
	}

	// Anything unvisited sits on a parent cycle.
	for i, ok := range visited {
		if !ok {
			return nil, apperror.NewValidation(
				fmt.Sprintf("Item cannot be added to its own descendants: %s", nodes[i].Code),
			).WithDetail("code", nodes[i].Code)
		}
	}
	return out, nil
}

// Maintainer recomputes bounds after every change of a tree catalog.
type Maintainer struct {
	store Store
}

// NewMaintainer creates a maintainer over store.
func NewMaintainer(store Store) *Maintainer {
	return &Maintainer{store: store}
}

// Refresh reloads the tree and writes back the changed bounds.
// Must run inside the transaction that modified the tree.
func (m *Maintainer) Refresh(ctx context.Context) error {
	nodes, err := m.store.LockNodes(ctx)
	if err != nil {
		return fmt.Errorf("load tree: %w", err)
	}
	rebuilt, err := Rebuild(nodes)
	if err != nil {
		return err
	}

	var changed []Node
	for i := range rebuilt {
		if rebuilt[i].Lft != nodes[i].Lft || rebuilt[i].Rgt != nodes[i].Rgt {
			changed = append(changed, rebuilt[i])
		}
	}
	if len(changed) == 0 {
		return nil
	}
	return m.store.SaveBounds(ctx, changed)
}
