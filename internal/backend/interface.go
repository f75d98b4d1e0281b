package backend

import (
	"context"

	"bukmacher/internal/amqp"
	"bukmacher/internal/ports"
)

// Backend is everything the application needs from a storage engine.
type Backend interface {
	ports.EntryRepository
	ports.SettingsRepository
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance, the optional broker client
// and a cleanup function releasing both.
type BackendResult struct {
	Backend Backend
	Broker  *amqp.Client // nil when AMQP is disabled or unreachable
	Cleanup CleanupFunc
}

// Ready reports whether the storage and, when configured, the broker are usable.
func (r *BackendResult) Ready(ctx context.Context) error {
	if err := r.Backend.Ping(ctx); err != nil {
		return err
	}
	if r.Broker != nil {
		return r.Broker.Ping()
	}
	return nil
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific; empty means start empty
	SeedDirectory string

	// Change events, optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
