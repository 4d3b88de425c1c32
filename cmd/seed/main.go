// Package main seeds the database with the root trees and, optionally,
// a small manufacturing demo, then prints an administrator token.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"rms/internal/app"
	"rms/internal/config"
	appctx "rms/internal/core/context"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain/auth"
	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/catalogs/item"
	"rms/internal/domain/catalogs/item_group"
	"rms/internal/domain/catalogs/warehouse"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/infrastructure/storage/postgres"
	"rms/pkg/logger"
)

const rootWarehouse = "All Warehouses"

var admin = appctx.UserContext{
	UserID:  "Administrator",
	Email:   "admin@example.com",
	Roles:   []string{"Stock Manager", "Manufacturing Manager"},
	IsAdmin: true,
}

func main() {
	configPath := flag.String("config", os.Getenv("RMS_CONFIG"), "path to a YAML config file")
	demo := flag.Bool("demo", os.Getenv("RMS_SEED_DEMO") == "true", "also create demo items, a BOM and documents")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	defer log.Sync()

	ctx := logger.WithLogger(context.Background(), log)
	ctx = appctx.WithUser(ctx, &admin)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool.Unwrap(), postgres.MigrateUp); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	services, err := app.New(ctx, cfg, pool)
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}

	groupRoot, err := seedItemGroups(ctx, services.ItemGroups)
	if err != nil {
		log.Fatalw("failed to seed item groups", "error", err)
	}
	whRoot, err := ensureWarehouse(ctx, services.Warehouses, rootWarehouse, nil, true)
	if err != nil {
		log.Fatalw("failed to seed warehouses", "error", err)
	}
	log.Infow("root trees ready", "item_group", groupRoot.Code, "warehouse", whRoot.Code)

	if *demo {
		if err := seedDemo(ctx, services, groupRoot, whRoot); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	if cfg.Auth.JWTSecret != "" {
		jwtCfg := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
		jwtCfg.Issuer = cfg.Auth.Issuer
		jwtCfg.AccessTokenTTL = 24 * time.Hour
		token, expiresAt, err := auth.NewJWTService(jwtCfg).GenerateAccessToken(admin)
		if err != nil {
			log.Fatalw("failed to issue admin token", "error", err)
		}
		fmt.Printf("admin token (expires %s):\n%s\n", expiresAt.Format(time.RFC3339), token)
	}

	log.Info("seeding completed successfully")
}

func seedItemGroups(ctx context.Context, svc *item_group.Service) (*item_group.ItemGroup, error) {
	if g, err := svc.GetByCode(ctx, item_group.RootCode); err == nil {
		return g, nil
	}
	root := &item_group.ItemGroup{Catalog: entity.NewCatalog(item_group.RootCode, item_group.RootCode)}
	root.IsGroup = true
	if err := svc.Create(ctx, root); err != nil {
		return nil, err
	}
	return root, nil
}

func ensureWarehouse(ctx context.Context, svc *warehouse.Service, code string, parent *id.ID, group bool) (*warehouse.Warehouse, error) {
	if wh, err := svc.GetByCode(ctx, code); err == nil {
		return wh, nil
	}
	wh := warehouse.NewWarehouse(code, code)
	wh.ParentID = parent
	wh.IsGroup = group
	if err := svc.Create(ctx, wh); err != nil {
		return nil, fmt.Errorf("warehouse %s: %w", code, err)
	}
	return wh, nil
}

func ensureItem(ctx context.Context, svc *item.Service, code, group string) error {
	if ok, err := svc.ExistsByCode(ctx, code); err != nil || ok {
		return err
	}
	if err := svc.Create(ctx, item.NewItem(code, code, group)); err != nil {
		return fmt.Errorf("item %s: %w", code, err)
	}
	return nil
}

func seedDemo(ctx context.Context, services *app.App, group *item_group.ItemGroup, root *warehouse.Warehouse) error {
	for _, code := range []string{"Stores", "Work In Progress", "Finished Goods"} {
		if _, err := ensureWarehouse(ctx, services.Warehouses, code, &root.ID, false); err != nil {
			return err
		}
	}
	for _, code := range []string{"RM-STEEL", "RM-BOLT", "FG-FRAME"} {
		if err := ensureItem(ctx, services.Items, code, group.Code); err != nil {
			return err
		}
	}

	b := bom.NewBOM("FG-FRAME", qty(1))
	b.IsDefault = true
	b.Items = []bom.Line{
		{ItemCode: "RM-STEEL", Qty: qty(2), SourceWarehouse: "Stores"},
		{ItemCode: "RM-BOLT", Qty: qty(8), SourceWarehouse: "Stores"},
	}
	if err := services.BOMs.Create(ctx, b); err != nil {
		return fmt.Errorf("bom: %w", err)
	}

	receipt := stock_entry.NewStockEntry(stock_entry.PurposeMaterialReceipt)
	receipt.AddItem("RM-STEEL", "", "Stores", qty(20))
	receipt.AddItem("RM-BOLT", "", "Stores", qty(50))
	if err := services.StockEntries.Create(ctx, receipt); err != nil {
		return fmt.Errorf("opening receipt: %w", err)
	}
	if _, err := services.StockEntries.Submit(ctx, receipt.ID); err != nil {
		return fmt.Errorf("submit opening receipt: %w", err)
	}

	mr := material_request.NewMaterialRequest(material_request.TypeManufacture, time.Now().UTC())
	mr.AddItem("FG-FRAME", "Finished Goods", qty(5))
	if err := services.MaterialRequests.Create(ctx, mr); err != nil {
		return fmt.Errorf("material request: %w", err)
	}

	logger.Info(ctx, "demo data created", "bom", b.Code, "stock_entry", receipt.Number, "material_request", mr.Number)
	return nil
}

func qty(v int64) types.Quantity {
	return types.NewQuantityFromInt64Scaled(v * types.QuantityScale)
}
