package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore map[string]string

func (m mapStore) GetValue(_ context.Context, doctype, field string) (string, bool, error) {
	v, ok := m[doctype+"."+field]
	return v, ok, nil
}

func (m mapStore) SetValue(_ context.Context, doctype, field, value string) error {
	m[doctype+"."+field] = value
	return nil
}

func TestFloatPrecision(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		stored map[string]string
		want   int32
	}{
		{name: "missing uses default", stored: map[string]string{}, want: 3},
		{name: "empty uses default", stored: map[string]string{"System Settings.float_precision": ""}, want: 3},
		{name: "stored", stored: map[string]string{"System Settings.float_precision": "2"}, want: 2},
		{name: "garbage uses default", stored: map[string]string{"System Settings.float_precision": "abc"}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(mapStore(tt.stored), Defaults{FloatPrecision: 3})
			got, err := svc.FloatPrecision(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultWIPWarehouse(t *testing.T) {
	ctx := context.Background()
	store := mapStore{}
	svc := NewService(store, Defaults{DefaultWIPWarehouse: "Work In Progress"})

	got, err := svc.DefaultWIPWarehouse(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Work In Progress", got)

	require.NoError(t, svc.Set(ctx, ManufacturingSettings, FieldDefaultWIPWarehouse, "WIP - Line 2"))
	got, err = svc.DefaultWIPWarehouse(ctx)
	require.NoError(t, err)
	assert.Equal(t, "WIP - Line 2", got)
}
