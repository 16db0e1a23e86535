package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spese/internal/amqp"
	"spese/internal/cache"
	"spese/internal/core"
	"spese/internal/services"
	"spese/internal/store"
	"spese/internal/store/memory"
	"spese/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		st    store.Store
		ready func(context.Context) error
	)
	switch config.Type {
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		st, ready = repo, repo.Ping
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		st = memory.NewFromFile(config.SeedFile)
		ready = func(context.Context) error { return nil }
		f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	amqpClient := f.connectAMQP(config)

	// A typed nil *amqp.Client must not reach the services as a non-nil Publisher.
	var publisher services.Publisher
	if amqpClient != nil {
		publisher = amqpClient
	}

	categories := services.NewCategoryService(st, publisher)
	cacheManager := cache.NewManager()
	if config.CategoryCacheTTL > 0 {
		categoryCache := cache.NewLRUCache[[]core.Category](1, config.CategoryCacheTTL)
		categories.WithCache(categoryCache)
		cacheManager.Register(categoryCache)
		cacheManager.StartCleanup(config.CategoryCacheTTL)
		f.logger.Info("Category cache enabled", "ttl", config.CategoryCacheTTL)
	}

	return &BackendResult{
		Store:      st,
		Categories: categories,
		Expenses:   services.NewExpenseService(st, publisher),
		Ready:      ready,
		Cleanup: func() error {
			cacheManager.Stop()
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, st.Close())
			return errors.Join(errs...)
		},
	}, nil
}

// connectAMQP returns nil when AMQP is not configured or unreachable.
func (f *DefaultFactory) connectAMQP(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
