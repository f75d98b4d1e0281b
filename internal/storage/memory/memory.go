package memory

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/core"
)

// SeedFile is the optional seed read by NewFromFiles.
const SeedFile = "seed_entries.txt"

// Store keeps entries in insertion order; ListSorted derives the date view.
type Store struct {
	mu       sync.Mutex
	items    []core.BetEntry
	settings *core.Settings
}

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds the store from base/seed_entries.txt when present.
// Each line is "date;outcome;stake;odds;amount;note" with the date as
// YYYY-MM-DD; blank lines and lines starting with # are skipped.
func NewFromFiles(base string) *Store {
	s := New()
	for i, line := range readLines(filepath.Join(base, SeedFile)) {
		e, err := parseSeedLine(line)
		if err != nil {
			slog.Warn("Skipping seed entry", "entry", i+1, "error", err)
			continue
		}
		s.items = append(s.items, e)
	}
	return s
}

// Ping always succeeds; the store has no external resource.
func (s *Store) Ping(context.Context) error { return nil }

// Insert implements ports.EntryWriter
func (s *Store) Insert(_ context.Context, e core.BetEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == e.ID {
			return fmt.Errorf("entry %s already exists", e.ID)
		}
	}
	s.items = append(s.items, e)
	return nil
}

// Update implements ports.EntryWriter
func (s *Store) Update(_ context.Context, e core.BetEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == e.ID {
			s.items[i] = e
			return nil
		}
	}
	return fmt.Errorf("update entry %s: %w", e.ID, core.ErrNotFound)
}

// Delete implements ports.EntryWriter
func (s *Store) Delete(_ context.Context, ids ...uuid.UUID) ([]uuid.UUID, error) {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var removed []uuid.UUID
	for _, it := range s.items {
		if _, ok := drop[it.ID]; ok {
			removed = append(removed, it.ID)
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	return removed, nil
}

// Get implements ports.EntryReader
func (s *Store) Get(_ context.Context, id uuid.UUID) (core.BetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return core.BetEntry{}, fmt.Errorf("get entry %s: %w", id, core.ErrNotFound)
}

// ListSorted implements ports.EntryReader
func (s *Store) ListSorted(_ context.Context) ([]core.BetEntry, error) {
	s.mu.Lock()
	out := append([]core.BetEntry(nil), s.items...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// LoadSettings implements ports.SettingsRepository
func (s *Store) LoadSettings(_ context.Context, defaults core.Settings) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return defaults, nil
	}
	return *s.settings, nil
}

// SaveSettings implements ports.SettingsRepository
func (s *Store) SaveSettings(_ context.Context, settings core.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}

func parseSeedLine(line string) (core.BetEntry, error) {
	parts := strings.SplitN(line, ";", 6)
	if len(parts) < 5 {
		return core.BetEntry{}, fmt.Errorf("expected at least 5 fields, got %d", len(parts))
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(parts[0]), time.Local)
	if err != nil {
		return core.BetEntry{}, fmt.Errorf("parse date: %w", err)
	}
	outcome, err := core.ParseOutcome(parts[1])
	if err != nil {
		return core.BetEntry{}, err
	}
	in := core.EntryInput{
		Outcome: outcome,
		Stake:   parts[2],
		Odds:    parts[3],
		Amount:  parts[4],
		Date:    date,
	}
	if len(parts) == 6 {
		in.Note = strings.TrimSpace(parts[5])
	}
	fields, _, err := in.Normalize(date)
	if err != nil {
		return core.BetEntry{}, err
	}
	return core.BetEntry{ID: uuid.New(), Fields: fields}, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
