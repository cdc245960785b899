// cmd/pos/main.go
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

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"mudahpos/internal/catalog"
	"mudahpos/internal/checkout"
	"mudahpos/internal/clients"
	"mudahpos/internal/config"
	"mudahpos/internal/customer"
	"mudahpos/internal/eventstore"
	"mudahpos/internal/logger"
	"mudahpos/internal/telemetry"
	"mudahpos/internal/terminal"
	"mudahpos/internal/tui"
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

	shutdownTracing, err := telemetry.Setup(ctx, "mudahpos-terminal", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	var (
		products  catalog.Provider
		customers customer.Provider
		targets   = []checkout.Forwarder{checkout.NewLogForwarder(log)}
	)

	switch {
	case cfg.DatabaseURL != "":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		es := eventstore.NewEventStore(db)
		pp := catalog.NewPostgresProvider(db)
		cp := customer.NewPostgresProvider(db)
		for _, ensure := range []func(context.Context) error{es.EnsureSchema, pp.EnsureSchema, cp.EnsureSchema} {
			if err := ensure(ctx); err != nil {
				log.Fatal("failed to prepare database tables", zap.Error(err))
			}
		}
		products, customers = pp, cp
		targets = append(targets, checkout.NewJournal(es))
		log.Info("using postgres catalog")

	case cfg.CatalogServiceURL != "":
		httpClient := &http.Client{Timeout: cfg.RequestTimeout}
		products = clients.NewCatalogClient(cfg.CatalogServiceURL, httpClient)
		customers = clients.NewCustomerClient(cfg.CatalogServiceURL, httpClient)
		log.Info("using catalog service", zap.String("url", cfg.CatalogServiceURL))

	default:
		products, customers, err = loadFixtures(cfg)
		if err != nil {
			log.Fatal("failed to load fixtures", zap.Error(err))
		}
	}

	if cfg.Kafka.Enabled() {
		publisher := checkout.NewKafkaPublisher(checkout.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), cfg.RequestTimeout)
		defer publisher.Close()
		targets = append(targets, publisher)
		log.Info("publishing checkouts", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	lock, err := terminal.NewLock(cfg.LockPIN)
	if err != nil {
		log.Fatal("failed to set up lock screen", zap.Error(err))
	}

	term, err := terminal.New(ctx, terminal.Options{
		Products:  products,
		Customers: customers,
		Forwarder: checkout.NewFanout(targets...),
		Hook:      terminal.LogHook(log),
		Lock:      lock,
		Log:       log,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatal("failed to start terminal", zap.Error(err))
	}
	defer term.Close()

	if cfg.DisplayAddr != "" {
		srv := &http.Server{
			Addr:              cfg.DisplayAddr,
			Handler:           terminal.NewHandler(term, log).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("Starting customer display API", zap.String("addr", cfg.DisplayAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("display API failed", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	fmt.Println("🚀 Starting POS terminal (logs on stderr)")
	program := tea.NewProgram(tui.New(ctx, term), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error("terminal UI stopped", zap.Error(err))
	}
	log.Info("POS terminal stopped")
}

// loadFixtures builds in-memory providers from FIXTURES_DIR, falling back to
// the embedded demo data for any file that is not configured.
func loadFixtures(cfg *config.Config) (catalog.Provider, customer.Provider, error) {
	products := catalog.DefaultProducts()
	if path := cfg.ProductsFixture(); path != "" {
		loaded, err := catalog.LoadProductsFile(path)
		if err != nil {
			return nil, nil, err
		}
		products = loaded
	}
	idx, err := catalog.NewIndex(products)
	if err != nil {
		return nil, nil, err
	}

	customers := customer.DefaultCustomers()
	if path := cfg.CustomersFixture(); path != "" {
		loaded, err := customer.LoadCustomersFile(path)
		if err != nil {
			return nil, nil, err
		}
		customers = loaded
	}
	dir, err := customer.NewDirectory(customers)
	if err != nil {
		return nil, nil, err
	}
	return idx, dir, nil
}
