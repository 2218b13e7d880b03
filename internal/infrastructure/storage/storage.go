// Package storage abre el backend de persistencia elegido por STORE_DRIVER y
// expone sus repositorios detrás de los puertos del dominio.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
	"github.com/jhoicas/storefront-api/internal/infrastructure/mongo"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/storefront-api/pkg/config"
)

// Backend repositorios de un mismo store. Close libera conexiones.
type Backend struct {
	Driver       string
	Products     repository.ProductRepository
	Transactions repository.TransactionRepository
	Categories   repository.CategoryRepository
	Users        repository.UserRepository
	Orders       repository.OrderRepository
	TxRunner     inventory.TxRunner
	Close        func(ctx context.Context) error
}

// Open conecta el driver configurado y aplica el esquema cuando corresponde.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Driver:       cfg.Store.Driver,
			Products:     postgres.NewProductRepository(pool),
			Transactions: postgres.NewTransactionRepository(pool),
			Categories:   postgres.NewCategoryRepository(pool),
			Users:        postgres.NewUserRepository(pool),
			Orders:       postgres.NewOrderRepository(pool),
			TxRunner:     postgres.NewTxRunner(pool),
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		s, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:       cfg.Store.Driver,
			Products:     s.Products(),
			Transactions: s.Transactions(),
			Categories:   s.Categories(),
			Users:        s.Users(),
			Orders:       s.Orders(),
			TxRunner:     s.TxRunner(),
			Close:        s.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:       cfg.Store.Driver,
			Products:     sqlite.NewProductRepository(db),
			Transactions: sqlite.NewTransactionRepository(db),
			Categories:   sqlite.NewCategoryRepository(db),
			Users:        sqlite.NewUserRepository(db),
			Orders:       sqlite.NewOrderRepository(db),
			TxRunner:     sqlite.NewTxRunner(db),
			Close:        func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMemory:
		s := memory.NewStore()
		return &Backend{
			Driver:       cfg.Store.Driver,
			Products:     s.Products(),
			Transactions: s.Transactions(),
			Categories:   s.Categories(),
			Users:        s.Users(),
			Orders:       s.Orders(),
			TxRunner:     s.TxRunner(),
			Close:        func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Store.Driver)
}
