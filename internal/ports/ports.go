package ports

import (
	"context"

	"github.com/google/uuid"

	"bukmacher/internal/core"
)

// Ports for outbound adapters.
type (
	EntryWriter interface {
		// Insert stores a new entry. Insertion order breaks date ties.
		Insert(ctx context.Context, e core.BetEntry) error
		// Update replaces the stored fields of e.ID; core.ErrNotFound if absent.
		Update(ctx context.Context, e core.BetEntry) error
		// Delete removes the given ids and returns those that existed.
		Delete(ctx context.Context, ids ...uuid.UUID) ([]uuid.UUID, error)
	}

	EntryReader interface {
		Get(ctx context.Context, id uuid.UUID) (core.BetEntry, error)
		// ListSorted returns every entry, newest date first, ties in insertion order.
		ListSorted(ctx context.Context) ([]core.BetEntry, error)
	}

	EntryRepository interface {
		EntryWriter
		EntryReader
	}

	// SettingsRepository persists the process-wide display settings.
	SettingsRepository interface {
		// LoadSettings overlays stored values on defaults.
		LoadSettings(ctx context.Context, defaults core.Settings) (core.Settings, error)
		SaveSettings(ctx context.Context, s core.Settings) error
	}
)
