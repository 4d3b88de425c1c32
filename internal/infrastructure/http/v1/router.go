// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"rms/internal/domain/catalogs/bom"
	"rms/internal/domain/catalogs/item"
	"rms/internal/domain/catalogs/item_group"
	"rms/internal/domain/catalogs/warehouse"
	"rms/internal/domain/documents/material_request"
	"rms/internal/domain/documents/production_order"
	"rms/internal/domain/documents/stock_entry"
	"rms/internal/domain/documents/stock_reconciliation"
	"rms/internal/infrastructure/http/v1/dto"
	"rms/internal/infrastructure/http/v1/handlers"
	"rms/internal/infrastructure/http/v1/middleware"
	"rms/internal/metadata"
	"rms/pkg/logger"
	"rms/pkg/metrics"
)

// Roles checked when authentication is enabled.
const (
	RoleStockUser            = "Stock User"
	RoleStockManager         = "Stock Manager"
	RoleManufacturingUser    = "Manufacturing User"
	RoleManufacturingManager = "Manufacturing Manager"
)

// Services are the domain services the API exposes.
type Services struct {
	Items      *item.Service
	ItemGroups *item_group.Service
	Warehouses *warehouse.Service
	BOMs       *bom.Service

	MaterialRequests     *material_request.Service
	StockEntries         *stock_entry.Service
	StockReconciliations *stock_reconciliation.Service
	ProductionOrders     *production_order.Service

	Registers handlers.StockRegisters
	Reports   handlers.StockBalanceReport
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Logger *logger.Logger

	// JWTValidator enables bearer authentication on /api/v1 when set.
	JWTValidator middleware.JWTValidator

	// DB is pinged by /health/ready.
	DB handlers.Pinger

	MetadataRegistry *metadata.Registry
	MetricsEnabled   bool
	Development      bool

	Services Services
}

// NewHandler returns the router wrapped with gzip response compression.
func NewHandler(cfg RouterConfig) http.Handler {
	return gzhttp.GzipHandler(NewRouter(cfg))
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.MetadataRegistry == nil {
		cfg.MetadataRegistry = metadata.NewRegistry()
	}

	router := gin.New()

	// Order matters: the error renderer must run inside recovery.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.ErrorHandler())

	if cfg.DB != nil {
		health := handlers.NewHealthHandler(cfg.DB)
		router.GET("/health/live", health.Live)
		router.GET("/health/ready", health.Ready)
	}
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	authEnabled := cfg.JWTValidator != nil
	if authEnabled {
		v1.Use(middleware.Auth(cfg.JWTValidator))
	}

	base := handlers.NewBaseHandler()
	mount(v1, handlers.NewDeskHandler(base, cfg.MetadataRegistry), false)

	registerCatalogRoutes(v1.Group("/catalog"), base, cfg.Services, authEnabled)
	registerDocumentRoutes(v1.Group("/document"), base, cfg.Services, authEnabled)

	if cfg.Services.MaterialRequests != nil {
		mount(v1.Group("/method"), handlers.NewMethodHandler(base, cfg.Services.MaterialRequests),
			authEnabled, RoleStockUser, RoleStockManager, RoleManufacturingUser, RoleManufacturingManager)
	}
	if cfg.Services.Registers != nil {
		mount(v1.Group("/registers"), handlers.NewRegistersHandler(base, cfg.Services.Registers),
			authEnabled, RoleStockUser, RoleStockManager)
	}
	if cfg.Services.Reports != nil {
		mount(v1.Group("/reports"), handlers.NewReportsHandler(base, cfg.Services.Reports),
			authEnabled, RoleStockUser, RoleStockManager)
	}

	return router
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s Services, authEnabled bool) {
	if s.Items != nil {
		mount(rg.Group("/items"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*item.Item, dto.ItemRequest]{
			Service:    s.Items,
			MapRequest: dto.ItemRequest.ToItem,
		}), authEnabled, RoleStockManager)
	}
	if s.ItemGroups != nil {
		mount(rg.Group("/item-groups"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*item_group.ItemGroup, dto.TreeNodeRequest]{
			Service:    s.ItemGroups,
			MapRequest: dto.TreeNodeRequest.ToItemGroup,
		}), authEnabled, RoleStockManager)
	}
	if s.Warehouses != nil {
		mount(rg.Group("/warehouses"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*warehouse.Warehouse, dto.TreeNodeRequest]{
			Service:    s.Warehouses,
			MapRequest: dto.TreeNodeRequest.ToWarehouse,
		}), authEnabled, RoleStockManager)
	}
	if s.BOMs != nil {
		mount(rg.Group("/boms"), handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*bom.BOM, dto.BOMRequest]{
			Service:    s.BOMs,
			MapRequest: dto.BOMRequest.ToBOM,
		}), authEnabled, RoleManufacturingManager)
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s Services, authEnabled bool) {
	if s.MaterialRequests != nil {
		mount(rg.Group("/material-request"), handlers.NewMaterialRequestHandler(base, s.MaterialRequests),
			authEnabled, RoleStockUser, RoleStockManager)
	}
	if s.StockEntries != nil {
		mount(rg.Group("/stock-entry"), handlers.NewStockEntryHandler(base, s.StockEntries),
			authEnabled, RoleStockUser, RoleStockManager, RoleManufacturingUser)
	}
	if s.StockReconciliations != nil {
		mount(rg.Group("/stock-reconciliation"), handlers.NewStockReconciliationHandler(base, s.StockReconciliations),
			authEnabled, RoleStockManager)
	}
	if s.ProductionOrders != nil {
		mount(rg.Group("/production-order"), handlers.NewProductionOrderHandler(base, s.ProductionOrders),
			authEnabled, RoleManufacturingUser, RoleManufacturingManager)
	}
}
