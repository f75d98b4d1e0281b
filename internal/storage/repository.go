package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/core"
	"bukmacher/internal/locale"

	_ "modernc.org/sqlite"
)

// Setting keys of the settings table.
const (
	SettingLanguage    = "language"
	SettingCurrency    = "currency"
	SettingDisplayName = "display_name"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite would answer SQLITE_BUSY otherwise.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert implements ports.EntryWriter
func (r *SQLiteRepository) Insert(ctx context.Context, e core.BetEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	row, err := r.queries.CreateBetEntry(ctx, CreateBetEntryParams{
		ID:           e.ID,
		OccurredAt:   e.Date.Unix(),
		OccurredNs:   int64(e.Date.Nanosecond()),
		Outcome:      string(e.Outcome),
		Stake:        e.Stake,
		Odds:         e.Odds,
		WinAmount:    e.WinAmount,
		PotentialWin: e.PotentialWin,
		Note:         e.Note,
	})
	if err != nil {
		return fmt.Errorf("create bet entry: %w", err)
	}

	slog.DebugContext(ctx, "Entry saved to SQLite",
		"id", row.ID,
		"seq", row.Seq,
		"outcome", row.Outcome,
		"stake", row.Stake.String())
	return nil
}

// Update implements ports.EntryWriter
func (r *SQLiteRepository) Update(ctx context.Context, e core.BetEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	n, err := r.queries.UpdateBetEntry(ctx, UpdateBetEntryParams{
		OccurredAt:   e.Date.Unix(),
		OccurredNs:   int64(e.Date.Nanosecond()),
		Outcome:      string(e.Outcome),
		Stake:        e.Stake,
		Odds:         e.Odds,
		WinAmount:    e.WinAmount,
		PotentialWin: e.PotentialWin,
		Note:         e.Note,
		ID:           e.ID,
	})
	if err != nil {
		return fmt.Errorf("update bet entry %s: %w", e.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update bet entry %s: %w", e.ID, core.ErrNotFound)
	}
	return nil
}

// Delete implements ports.EntryWriter. All ids are removed in one
// transaction; unknown ids are skipped and left out of the result.
func (r *SQLiteRepository) Delete(ctx context.Context, ids ...uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	var removed []uuid.UUID
	for _, id := range ids {
		n, err := q.DeleteBetEntry(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("delete bet entry %s: %w", id, err)
		}
		if n > 0 {
			removed = append(removed, id)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return removed, nil
}

// Get implements ports.EntryReader
func (r *SQLiteRepository) Get(ctx context.Context, id uuid.UUID) (core.BetEntry, error) {
	row, err := r.queries.GetBetEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BetEntry{}, fmt.Errorf("get bet entry %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.BetEntry{}, fmt.Errorf("get bet entry %s: %w", id, err)
	}
	return toCore(row), nil
}

// ListSorted implements ports.EntryReader
func (r *SQLiteRepository) ListSorted(ctx context.Context) ([]core.BetEntry, error) {
	rows, err := r.queries.ListBetEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bet entries: %w", err)
	}
	entries := make([]core.BetEntry, len(rows))
	for i, row := range rows {
		entries[i] = toCore(row)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountBetEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("count bet entries: %w", err)
	}
	return n, nil
}

// LoadSettings implements ports.SettingsRepository. Stored values that no
// longer parse are ignored in favour of the defaults.
func (r *SQLiteRepository) LoadSettings(ctx context.Context, defaults core.Settings) (core.Settings, error) {
	stored, err := r.queries.GetSettings(ctx)
	if err != nil {
		return defaults, fmt.Errorf("get settings: %w", err)
	}
	s := defaults
	if v, ok := stored[SettingLanguage]; ok {
		if lang, err := locale.ParseLanguage(v); err == nil {
			s.Language = lang
		} else {
			slog.WarnContext(ctx, "Ignoring stored language", "value", v, "error", err)
		}
	}
	if v, ok := stored[SettingCurrency]; ok {
		if cur, err := locale.ParseCurrency(v); err == nil {
			s.Currency = cur
		} else {
			slog.WarnContext(ctx, "Ignoring stored currency", "value", v, "error", err)
		}
	}
	if v, ok := stored[SettingDisplayName]; ok && v != "" {
		s.DisplayName = v
	}
	return s, nil
}

// SaveSettings implements ports.SettingsRepository
func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save settings: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	for key, value := range map[string]string{
		SettingLanguage:    string(s.Language),
		SettingCurrency:    string(s.Currency),
		SettingDisplayName: s.DisplayName,
	} {
		if err := q.UpsertSetting(ctx, key, value); err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

func toCore(row BetEntry) core.BetEntry {
	return core.BetEntry{
		ID: row.ID,
		Fields: core.Fields{
			Date:         time.Unix(row.OccurredAt, row.OccurredNs).UTC(),
			Outcome:      core.Outcome(row.Outcome),
			Stake:        row.Stake,
			Odds:         row.Odds,
			WinAmount:    row.WinAmount,
			PotentialWin: row.PotentialWin,
			Note:         row.Note,
		},
	}
}
