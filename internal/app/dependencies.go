package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения. Store не nil только при
// работе поверх PostgreSQL.
type Dependencies struct {
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Orders    domain.OrderRepository
	Outbox    domain.OutboxRepository
	Store     *postgres.Store
	Logger    *log.Entry
}

// NewDependencies инициализирует хранилища: PostgreSQL при заданном DSN,
// иначе in-memory для локальной разработки.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		logger.Info("postgres dsn is empty, using in-memory storage")
		return &Dependencies{
			Customers: memory.NewCustomerRepository(),
			Products:  memory.NewProductRepository(),
			Orders:    memory.NewOrderRepository(),
			Outbox:    memory.NewOutboxRepository(),
			Logger:    logger,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("postgres storage initialized")

	return &Dependencies{
		Customers: postgres.NewCustomerRepository(store),
		Products:  postgres.NewProductRepository(store),
		Orders:    postgres.NewOrderRepository(store),
		Outbox:    postgres.NewOutboxRepository(store),
		Store:     store,
		Logger:    logger,
	}, nil
}

// Close освобождает ресурсы хранилищ.
func (d *Dependencies) Close() error {
	if d == nil || d.Store == nil {
		return nil
	}
	return d.Store.Close()
}
