package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/cargohub/cargohub-api/config"
	"github.com/cargohub/cargohub-api/internal/modules/audit"
	"github.com/cargohub/cargohub-api/internal/modules/auth"
	"github.com/cargohub/cargohub-api/internal/modules/catalog"
	"github.com/cargohub/cargohub-api/internal/modules/classification"
	"github.com/cargohub/cargohub-api/internal/modules/crossdock"
	"github.com/cargohub/cargohub-api/internal/modules/inventory"
	"github.com/cargohub/cargohub-api/internal/modules/order"
	"github.com/cargohub/cargohub-api/internal/modules/partner"
	"github.com/cargohub/cargohub-api/internal/modules/shipment"
	"github.com/cargohub/cargohub-api/internal/modules/transfer"
	"github.com/cargohub/cargohub-api/internal/modules/warehouse"
	"github.com/cargohub/cargohub-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.Server.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// ── Storage ─────────────────────────────────────────────
	var db *sql.DB
	if cfg.Storage.Backend == "postgres" {
		db, err = sql.Open("postgres", cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Fatal("opening database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatal("pinging database", zap.Error(err))
		}
		logger.Info("connected to postgres")
	}

	users := must(collection[auth.User](db, "users"))
	warehouses := must(collection[warehouse.Warehouse](db, "warehouses"))
	locations := must(collection[warehouse.Location](db, "locations"))
	items := must(collection[catalog.Item](db, "items"))
	taxonomies := map[string]storage.Collection[catalog.Taxonomy]{
		catalog.KindItemLines:  must(collection[catalog.Taxonomy](db, "item_lines")),
		catalog.KindItemGroups: must(collection[catalog.Taxonomy](db, "item_groups")),
		catalog.KindItemTypes:  must(collection[catalog.Taxonomy](db, "item_types")),
	}
	suppliers := must(collection[partner.Supplier](db, "suppliers"))
	clients := must(collection[partner.Client](db, "clients"))
	inventories := must(collection[inventory.Inventory](db, "inventories"))
	stockLogs := must(collection[inventory.StockLog](db, "stocklogs"))
	orders := must(collection[order.Order](db, "orders"))
	shipments := must(collection[shipment.Shipment](db, "shipments"))
	transfers := must(collection[transfer.Transfer](db, "transfers"))
	classifications := must(collection[classification.Classification](db, "classifications"))

	// ── Audit Log ───────────────────────────────────────────
	var recorder audit.Recorder
	if cfg.Audit.LogFile != "" {
		recorder = audit.NewFileRecorder(cfg.Audit.LogFile, logger)
	} else {
		recorder = audit.NewMemoryRecorder()
	}

	// ── Services ────────────────────────────────────────────
	authService := auth.NewService(users, recorder, cfg.Auth.OwnerAPIKey, cfg.Auth.OwnerApp)
	warehouseService := warehouse.NewService(warehouses, locations, recorder)
	catalogService := catalog.NewService(items, taxonomies, recorder)
	partnerService := partner.NewService(suppliers, clients, recorder)
	inventoryService := inventory.NewService(inventories, stockLogs, recorder)
	orderService := order.NewService(orders, recorder)
	shipmentService := shipment.NewService(shipments, recorder)
	transferService := transfer.NewService(transfers, recorder)
	crossdockService := crossdock.NewService(shipments, orders, recorder, logger)
	auditService := audit.NewService(recorder)

	classifier := classification.NewOpenAIClassifier(cfg.Classifier.APIKey, cfg.Classifier.Model)
	classificationService := classification.NewService(
		classifications, items, taxonomies, classifier, recorder, logger,
		cfg.Classifier.BatchSize, cfg.Classifier.Workers)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	api := func(r chi.Router) {
		r.Use(authService.Middleware)
		auth.NewHandler(authService).RegisterRoutes(r)
		warehouse.NewHandler(warehouseService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		partner.NewHandler(partnerService).RegisterRoutes(r)
		inventory.NewHandler(inventoryService).RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
		shipment.NewHandler(shipmentService).RegisterRoutes(r)
		transfer.NewHandler(transferService).RegisterRoutes(r)
		crossdock.NewHandler(crossdockService).RegisterRoutes(r)
		classification.NewHandler(classificationService).RegisterRoutes(r)
		audit.NewHandler(auditService).RegisterRoutes(r)
	}
	// v1 is kept as an alias for older clients; both mounts share the
	// same handlers and response conventions.
	router.Route("/api/v1", api)
	router.Route("/api/v2", api)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Info("cargohub API listening", zap.String("port", cfg.Server.Port))
	logger.Fatal("server stopped", zap.Error(srv.ListenAndServe()))
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// collection picks the storage backend: postgres when a database is
// configured, in-process memory otherwise.
func collection[T any](db *sql.DB, table string) (storage.Collection[T], error) {
	if db == nil {
		return storage.NewMemory[T](), nil
	}
	return storage.NewPostgres[T](db, table)
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}
