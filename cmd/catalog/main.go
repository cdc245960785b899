// cmd/catalog/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"mudahpos/internal/catalog"
	"mudahpos/internal/config"
	"mudahpos/internal/customer"
	"mudahpos/internal/logger"
	"mudahpos/internal/telemetry"
)

func main() {
	config.LoadDotEnv()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.Load(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "mudahpos-catalog", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	var (
		products  catalog.Provider
		customers customer.Provider
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		pp, cp, err := seed(ctx, db, cfg)
		if err != nil {
			log.Fatal("failed to prepare catalog tables", zap.Error(err))
		}
		products, customers = pp, cp
	} else {
		idx, err := catalog.NewIndex(mustProducts(cfg, log))
		if err != nil {
			log.Fatal("invalid product fixture", zap.Error(err))
		}
		dir, err := customer.NewDirectory(mustCustomers(cfg, log))
		if err != nil {
			log.Fatal("invalid customer fixture", zap.Error(err))
		}
		products, customers = idx, dir
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	catalog.NewHandler(products, log).Register(router)
	customer.NewHandler(customers, log).Register(router)

	srv := &http.Server{
		Addr:              cfg.CatalogAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		fmt.Printf("🚀 Starting Catalog Service on %s\n", cfg.CatalogAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("catalog service failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down Catalog Service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("Catalog Service stopped gracefully")
}

// seed creates the catalog tables and fills empty ones from the fixtures.
func seed(ctx context.Context, db *sql.DB, cfg *config.Config) (*catalog.PostgresProvider, *customer.PostgresProvider, error) {
	log := logger.L()
	products := catalog.NewPostgresProvider(db)
	if err := products.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}
	existing, err := products.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(existing) == 0 {
		if err := products.Seed(ctx, mustProducts(cfg, log)); err != nil {
			return nil, nil, err
		}
		log.Info("seeded products")
	}

	customers := customer.NewPostgresProvider(db)
	if err := customers.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}
	known, err := customers.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(known) == 0 {
		if err := customers.Seed(ctx, mustCustomers(cfg, log)); err != nil {
			return nil, nil, err
		}
		log.Info("seeded customers")
	}
	return products, customers, nil
}

func mustProducts(cfg *config.Config, log *zap.Logger) []catalog.Product {
	path := cfg.ProductsFixture()
	if path == "" {
		return catalog.DefaultProducts()
	}
	products, err := catalog.LoadProductsFile(path)
	if err != nil {
		log.Fatal("failed to load products", zap.String("path", path), zap.Error(err))
	}
	return products
}

func mustCustomers(cfg *config.Config, log *zap.Logger) []customer.Customer {
	path := cfg.CustomersFixture()
	if path == "" {
		return customer.DefaultCustomers()
	}
	customers, err := customer.LoadCustomersFile(path)
	if err != nil {
		log.Fatal("failed to load customers", zap.String("path", path), zap.Error(err))
	}
	return customers
}
