// Package bootstrap arma la capa de persistencia según la configuración.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Storage repositorios y unidad de trabajo de un backend.
type Storage struct {
	Driver     string
	TxRunner   inventory.TxRunner
	Users      repository.UserRepository
	Products   repository.ProductRepository
	Movements  repository.MovementRepository
	Categories repository.CategoryRepository
	Clients    repository.ClientRepository
	Suppliers  repository.SupplierRepository
	Reasons    repository.ReasonRepository
	Dashboard  repository.DashboardRepository

	close func()
}

// Close libera el pool (no-op en memoria).
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage abre PostgreSQL (aplicando migraciones si cfg.AutoMigrate) o el backend en memoria.
func OpenStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Storage, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return NewMemoryStorage(memory.NewStore()), nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &Storage{
		Driver:     "postgres",
		TxRunner:   postgres.NewTxRunner(pool, cfg.LockTimeout),
		Users:      postgres.NewUserRepository(pool),
		Products:   postgres.NewProductRepository(pool),
		Movements:  postgres.NewMovementRepository(pool),
		Categories: postgres.NewCategoryRepository(pool),
		Clients:    postgres.NewClientRepository(pool),
		Suppliers:  postgres.NewSupplierRepository(pool),
		Reasons:    postgres.NewReasonRepository(pool),
		Dashboard:  postgres.NewDashboardRepository(pool),
		close:      pool.Close,
	}, nil
}

// NewMemoryStorage expone un memory.Store como Storage.
func NewMemoryStorage(store *memory.Store) *Storage {
	return &Storage{
		Driver:     "memory",
		TxRunner:   store.TxRunner(),
		Users:      store.Users(),
		Products:   store.Products(),
		Movements:  store.Movements(),
		Categories: store.Categories(),
		Clients:    store.Clients(),
		Suppliers:  store.Suppliers(),
		Reasons:    store.Reasons(),
		Dashboard:  store.Dashboard(),
	}
}
