package main

import (
	"rms/internal/core/entity"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/catalogs/item"
	"rms/internal/domain/catalogs/item_group"
	"rms/internal/domain/catalogs/warehouse"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/production_order"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/domain/documents/stock_reconciliation"
	"rms/internal/metadata"
)

func names[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// setupMetadataRegistry registers the doctypes served by /api/v1/meta.
func setupMetadataRegistry() *metadata.Registry {
	reg := metadata.NewRegistry()

	register := func(v any, name string, typ metadata.EntityType, options map[string][]string) {
		def := metadata.Inspect(v, name, typ)
		for field, opts := range options {
			def.SetOptions(field, opts...)
		}
		reg.Register(def)
	}

	// --- Catalogs ---
	register(item.Item{}, "Item", metadata.TypeCatalog, nil)
	register(item_group.ItemGroup{}, "Item Group", metadata.TypeCatalog, nil)
	register(warehouse.Warehouse{}, "Warehouse", metadata.TypeCatalog, nil)
	register(bom.BOM{}, "BOM", metadata.TypeCatalog, nil)

	// --- Documents ---
	register(material_request.MaterialRequest{}, material_request.Doctype, metadata.TypeDocument, map[string][]string{
		"materialRequestType": names(
			material_request.TypePurchase, material_request.TypeMaterialTransfer,
			material_request.TypeMaterialIssue, material_request.TypeManufacture,
		),
		"status": names(
			material_request.StatusDraft, material_request.StatusSubmitted, material_request.StatusStopped,
			material_request.StatusCancelled, material_request.StatusPending, material_request.StatusPartiallyOrdered,
			material_request.StatusOrdered, material_request.StatusIssued, material_request.StatusTransferred,
			material_request.StatusClosed,
		),
	})
	register(stock_entry.StockEntry{}, stock_entry.Doctype, metadata.TypeDocument, map[string][]string{
		"purpose": names(
			stock_entry.PurposeMaterialReceipt, stock_entry.PurposeMaterialIssue,
			stock_entry.PurposeMaterialTransfer, stock_entry.PurposeMaterialTransferManufacture,
			stock_entry.PurposeManufacture,
		),
	})
	register(stock_reconciliation.StockReconciliation{}, stock_reconciliation.Doctype, metadata.TypeDocument, nil)
	register(production_order.ProductionOrder{}, production_order.Doctype, metadata.TypeDocument, map[string][]string{
		"status": names(
			production_order.StatusDraft, production_order.StatusNotStarted, production_order.StatusInProcess,
			production_order.StatusCompleted, production_order.StatusStopped, production_order.StatusCancelled,
		),
	})

	// --- Registers ---
	register(entity.StockLedgerEntry{}, "Stock Ledger Entry", metadata.TypeRegister, nil)
	register(entity.Bin{}, "Bin", metadata.TypeRegister, nil)

	return reg
}
