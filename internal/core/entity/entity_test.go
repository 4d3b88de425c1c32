package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/core/types"
)

func TestDocument_Transitions(t *testing.T) {
	doc := NewDocument()
	doc.Number = "MR-2026-00001"

	require.NoError(t, doc.CanModify())
	require.NoError(t, doc.CanSubmit())
	assert.True(t, apperror.IsInvalidStatus(doc.CanCancel()))

	doc.MarkSubmitted()
	assert.True(t, doc.IsSubmitted())
	assert.Error(t, doc.CanModify())
	assert.True(t, apperror.IsInvalidStatus(doc.CanSubmit()))
	require.NoError(t, doc.CanCancel())

	doc.MarkCancelled()
	assert.Equal(t, "Cancelled", doc.DocStatus.String())
	assert.Error(t, doc.CanCancel())
	assert.Error(t, doc.CanModify())
}

func TestBin_RecalcProjected(t *testing.T) {
	b := NewBin("ITM-1", "Stores")
	b.ActualQty = types.NewQuantityFromFloat64(10)
	b.OrderedQty = types.NewQuantityFromFloat64(2)
	b.IndentedQty = types.NewQuantityFromFloat64(3)
	b.PlannedQty = types.NewQuantityFromFloat64(1.5)
	b.ReservedQty = types.NewQuantityFromFloat64(4)

	b.RecalcProjected()

	assert.Equal(t, types.NewQuantityFromFloat64(12.5), b.ProjectedQty)
}

func TestTreeNode_Contains(t *testing.T) {
	root := TreeNode{Lft: 1, Rgt: 10}
	child := TreeNode{Lft: 2, Rgt: 5}
	other := TreeNode{Lft: 11, Rgt: 12}

	assert.True(t, root.Contains(child))
	assert.True(t, root.Contains(root))
	assert.False(t, root.Contains(other))
	assert.True(t, root.IsRoot())
}
