package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/apperror"
	"rms/internal/domain/filter"
)

func TestApplyFilters_Operators(t *testing.T) {
	cols := []string{"id", "status", "qty", "item_group"}

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "greater",
			item:     filter.Item{Field: "qty", Operator: filter.Greater, Value: 10},
			wantSQL:  "SELECT id FROM t WHERE qty > $1",
			wantArgs: []any{10},
		},
		{
			name:     "less or equal",
			item:     filter.Item{Field: "qty", Operator: filter.LessOrEqual, Value: 5},
			wantSQL:  "SELECT id FROM t WHERE qty <= $1",
			wantArgs: []any{5},
		},
		{
			name:     "in list",
			item:     filter.Item{Field: "status", Operator: filter.InList, Value: []string{"Pending", "Stopped"}},
			wantSQL:  "SELECT id FROM t WHERE status IN ($1,$2)",
			wantArgs: []any{"Pending", "Stopped"},
		},
		{
			name:     "contains",
			item:     filter.Item{Field: "status", Operator: filter.Contains, Value: "Order"},
			wantSQL:  "SELECT id FROM t WHERE status ILIKE $1",
			wantArgs: []any{"%Order%"},
		},
		{
			name:     "is null",
			item:     filter.Item{Field: "item_group", Operator: filter.IsNull},
			wantSQL:  "SELECT id FROM t WHERE item_group IS NULL",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ApplyFilters(Builder().Select("id").From("t"), []filter.Item{tt.item}, cols, nil)
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestApplyFilters_Hierarchy(t *testing.T) {
	q, err := ApplyFilters(
		Builder().Select("id").From("cat_items"),
		[]filter.Item{{Field: "item_group", Operator: filter.InHierarchy, Value: "Raw Material"}},
		[]string{"item_group"},
		HierarchyTables{"item_group": "cat_item_groups"},
	)
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "item_group IN (")
	assert.Contains(t, sql, "FROM cat_item_groups c, cat_item_groups p")
	assert.Contains(t, sql, "p.code = $1")
	assert.Equal(t, []any{"Raw Material"}, args)
}

func TestApplyFilters_Rejects(t *testing.T) {
	base := Builder().Select("id").From("t")

	_, err := ApplyFilters(base, []filter.Item{{Field: "password", Operator: filter.Equal, Value: 1}}, []string{"id"}, nil)
	assert.True(t, apperror.IsAppError(err))

	_, err = ApplyFilters(base, []filter.Item{{Field: "id", Operator: "like", Value: 1}}, []string{"id"}, nil)
	assert.Error(t, err)

	_, err = ApplyFilters(base, []filter.Item{{Field: "id", Operator: filter.InHierarchy, Value: "x"}}, []string{"id"}, nil)
	assert.Error(t, err)
}

func TestParseOrderBy(t *testing.T) {
	cols := []string{"name", "created_at"}

	got, err := ParseOrderBy("-created_at", "name ASC", cols)
	require.NoError(t, err)
	assert.Equal(t, "created_at DESC", got)

	got, err = ParseOrderBy("", "name ASC", cols)
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	_, err = ParseOrderBy("name; DROP TABLE x", "name ASC", cols)
	assert.Error(t, err)
}
