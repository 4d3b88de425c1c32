// Package app wires repositories and domain services together. The server
// and the seed command share it.
package app

import (
	"context"
	"fmt"

	"rms/internal/config"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/catalogs/item"
	"rms/internal/domain/catalogs/item_group"
	"rms/internal/domain/catalogs/warehouse"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/production_order"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/domain/documents/stock_reconciliation"
	"rms/internal/domain/posting"
	"rms/internal/domain/registers/stock"
	"rms/internal/domain/reports"
	"rms/internal/domain/settings"
	"rms/internal/infrastructure/cache"
	"rms/internal/infrastructure/numerator"
	"rms/internal/infrastructure/storage/postgres"
	"rms/internal/infrastructure/storage/postgres/catalog_repo"
	"rms/internal/infrastructure/storage/postgres/document_repo"
	"rms/internal/infrastructure/storage/postgres/register_repo"
	"rms/internal/infrastructure/storage/postgres/report_repo"
	"rms/internal/infrastructure/storage/postgres/settings_repo"
)

// App holds the wired services.
type App struct {
	TxManager *postgres.TxManager
	Settings  *settings.Service
	// SettingsCache must be started to follow changes made by other processes.
	SettingsCache *cache.SinglesCache
	Stock         *stock.Service
	Audit         *postgres.AuditService

	Items      *item.Service
	ItemGroups *item_group.Service
	Warehouses *warehouse.Service
	BOMs       *bom.Service

	MaterialRequests     *material_request.Service
	StockEntries         *stock_entry.Service
	StockReconciliations *stock_reconciliation.Service
	ProductionOrders     *production_order.Service

	Reports *reports.Service
}

// New builds every service on top of pool.
func New(_ context.Context, cfg config.Config, pool *postgres.Pool) (*App, error) {
	txm := postgres.NewTxManager(pool)
	num := numerator.NewWithSource(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	})

	auditSvc, err := postgres.NewAuditService(txm)
	if err != nil {
		return nil, fmt.Errorf("audit service: %w", err)
	}

	singles := cache.NewSinglesCache(settings_repo.NewSinglesRepo(txm), pool.Unwrap())
	settingsSvc := settings.NewService(singles, settings.Defaults{
		FloatPrecision:      cfg.Stock.FloatPrecision,
		DefaultWIPWarehouse: cfg.Manufacturing.DefaultWIPWarehouse,
	})
	stockSvc := stock.NewService(register_repo.NewStockRepo(txm))
	engine := posting.NewEngine(txm, stockSvc, auditSvc)

	// Catalogs
	groups := item_group.NewService(catalog_repo.NewItemGroupRepo(txm), txm)
	items := item.NewService(catalog_repo.NewItemRepo(txm), groups, num, txm)
	warehouses := warehouse.NewService(catalog_repo.NewWarehouseRepo(txm), txm)
	boms := bom.NewService(catalog_repo.NewBOMRepo(txm), items, num, txm)

	// Documents
	entries := stock_entry.NewService(document_repo.NewStockEntryRepo(txm), engine, num, items, warehouses)
	reconciliations := stock_reconciliation.NewService(
		document_repo.NewStockReconciliationRepo(txm), engine, num, stockSvc, items, warehouses,
	)
	orders := production_order.NewService(production_order.Deps{
		Repo:       document_repo.NewProductionOrderRepo(txm),
		Engine:     engine,
		Numerator:  num,
		BOMs:       boms,
		Items:      items,
		Warehouses: warehouses,
		Planner:    stockSvc,
		Defaults:   settingsSvc,
	})
	requests := material_request.NewService(material_request.Deps{
		Repo:             document_repo.NewMaterialRequestRepo(txm),
		Engine:           engine,
		Numerator:        num,
		Items:            items,
		Warehouses:       warehouses,
		Bins:             stockSvc,
		ProductionOrders: orders,
		Defaults:         settingsSvc,
	})

	// Stock entries drive production orders first, then the requests the
	// entries were made against.
	orders.AttachStockEntries(entries.Hooks())
	requests.Attach(entries.Hooks(), orders.Hooks())

	return &App{
		TxManager:     txm,
		Settings:      settingsSvc,
		SettingsCache: singles,
		Stock:         stockSvc,
		Audit:         auditSvc,

		Items:      items,
		ItemGroups: groups,
		Warehouses: warehouses,
		BOMs:       boms,

		MaterialRequests:     requests,
		StockEntries:         entries,
		StockReconciliations: reconciliations,
		ProductionOrders:     orders,

		Reports: reports.NewService(report_repo.NewReportRepo(txm), settingsSvc, cfg.Stock.LedgerFilterThreshold).WithSnapshot(txm),
	}, nil
}
