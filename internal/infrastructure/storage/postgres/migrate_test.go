package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Annotated(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := fs.ReadFile(migrationsFS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestMigrations_ProductionOrderItemIndex(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, "migrations/00003_documents.sql")
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body),
		"ON doc_production_order_items (item_code, source_warehouse)"))
}
