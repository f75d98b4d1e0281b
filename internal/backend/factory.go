package backend

import (
	"context"
	"errors"
	"fmt"

	"bukmacher/internal/amqp"
	"bukmacher/internal/log"
	"bukmacher/internal/storage"
	"bukmacher/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		be      Backend
		closeFn CleanupFunc
	)
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		be, closeFn = repo, repo.Close
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		var store *memory.Store
		if config.SeedDirectory != "" {
			store = memory.NewFromFiles(config.SeedDirectory)
		} else {
			store = memory.New()
		}
		be = store
		f.logger.InfoContext(ctx, "Initialized memory backend", "seed_directory", config.SeedDirectory)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	broker := f.connectBroker(ctx, config)

	return &BackendResult{
		Backend: be,
		Broker:  broker,
		Cleanup: func() error {
			var errs []error
			if broker != nil {
				if err := broker.Close(); err != nil {
					errs = append(errs, fmt.Errorf("amqp: %w", err))
				}
			}
			if closeFn != nil {
				if err := closeFn(); err != nil {
					errs = append(errs, fmt.Errorf("storage: %w", err))
				}
			}
			return errors.Join(errs...)
		},
	}, nil
}

// connectBroker returns nil when AMQP is disabled or unreachable; the
// ledger works without change events.
func (f *DefaultFactory) connectBroker(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events",
			log.FieldError, err.Error())
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
