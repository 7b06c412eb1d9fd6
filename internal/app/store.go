package app

import (
	"context"
	"fmt"

	"digital-key-store/internal/client"
	"digital-key-store/internal/config"
	"digital-key-store/internal/repository"

	"go.uber.org/zap"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// OpenStore returns the document store selected by STORAGE_DRIVER.
func OpenStore(cfg *config.Storage) (repository.DocumentStore, error) {
	switch cfg.Driver {
	case "", DriverFile:
		return repository.NewFileStore(cfg.KeysFile, cfg.OrdersFile)
	case DriverSQLite, DriverMySQL:
		db, err := client.InitDBClient(cfg.Driver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Repositories groups the repositories built over one document store.
type Repositories struct {
	Store     repository.DocumentStore
	Inventory repository.InventoryRepository
	Orders    repository.OrderRepository
}

func NewRepositories(store repository.DocumentStore) *Repositories {
	return &Repositories{
		Store:     store,
		Inventory: repository.NewInventoryRepository(store),
		Orders:    repository.NewOrderRepository(store),
	}
}

// Init seeds the inventory from seedFile and creates an empty order book
// when either document is missing. Existing documents are left alone.
func (r *Repositories) Init(ctx context.Context, seedFile string, logger *zap.Logger) error {
	seed, err := repository.LoadSeed(seedFile)
	if err != nil {
		return err
	}

	seeded, err := r.Inventory.Seed(ctx, seed)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded inventory", zap.Int("products", len(seed)), zap.String("seed_file", seedFile))
	}

	created, err := r.Orders.Init(ctx)
	if err != nil {
		return err
	}
	if created {
		logger.Info("created empty order book")
	}
	return nil
}
