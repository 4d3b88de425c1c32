// Package settings reads single-value settings (doctype, field) with
// fallbacks from the service configuration.
package settings

import (
	"context"
	"fmt"
	"strconv"
)

const (
	SystemSettings        = "System Settings"
	ManufacturingSettings = "Manufacturing Settings"

	FieldFloatPrecision      = "float_precision"
	FieldDefaultWIPWarehouse = "default_wip_warehouse"
)

// Store persists single values.
type Store interface {
	GetValue(ctx context.Context, doctype, field string) (string, bool, error)
	SetValue(ctx context.Context, doctype, field, value string) error
}

// Defaults are used when the store holds no value.
type Defaults struct {
	FloatPrecision      int32
	DefaultWIPWarehouse string
}

// Service resolves settings.
type Service struct {
	store    Store
	defaults Defaults
}

// NewService creates a settings service.
func NewService(store Store, defaults Defaults) *Service {
	return &Service{store: store, defaults: defaults}
}

// FloatPrecision returns the number of decimals used for report quantities.
func (s *Service) FloatPrecision(ctx context.Context) (int32, error) {
	raw, ok, err := s.store.GetValue(ctx, SystemSettings, FieldFloatPrecision)
	if err != nil {
		return 0, fmt.Errorf("get float precision: %w", err)
	}
	if !ok || raw == "" {
		return s.defaults.FloatPrecision, nil
	}
	p, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || p < 0 || p > 9 {
		return s.defaults.FloatPrecision, nil
	}
	return int32(p), nil
}

// DefaultWIPWarehouse returns the work-in-progress warehouse for new production orders.
func (s *Service) DefaultWIPWarehouse(ctx context.Context) (string, error) {
	raw, ok, err := s.store.GetValue(ctx, ManufacturingSettings, FieldDefaultWIPWarehouse)
	if err != nil {
		return "", fmt.Errorf("get default wip warehouse: %w", err)
	}
	if !ok || raw == "" {
		return s.defaults.DefaultWIPWarehouse, nil
	}
	return raw, nil
}

// Set stores a single value.
func (s *Service) Set(ctx context.Context, doctype, field, value string) error {
	return s.store.SetValue(ctx, doctype, field, value)
}
