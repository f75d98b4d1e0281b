package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/core"
	"bukmacher/internal/log"
	"bukmacher/internal/ports"
)

// EventKind names the mutation an Event reports.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event is delivered to observers after a successful mutation.
type Event struct {
	Kind EventKind
	IDs  []uuid.UUID
	At   time.Time
}

// Observer receives store events synchronously, in subscription order.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Publisher forwards store events to an external broker.
type Publisher interface {
	PublishEntryEvent(ctx context.Context, kind string, ids []uuid.UUID, at time.Time) error
}

// EntryStore is the only writer of the entry collection. Reads always go to
// the repository, so a read after a mutation observes it.
type EntryStore struct {
	repo      ports.EntryRepository
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
	newID     func() uuid.UUID

	mu sync.Mutex // serialises mutations

	obsMu     sync.Mutex
	observers []subscription
	nextObsID int
}

// Option configures an EntryStore.
type Option func(*EntryStore)

// WithClock overrides time.Now, used for default dates and event times.
func WithClock(now func() time.Time) Option {
	return func(s *EntryStore) { s.now = now }
}

// WithIDGenerator overrides uuid.New.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *EntryStore) { s.newID = fn }
}

// WithPublisher forwards every event to p. Publish failures are logged and
// never fail the mutation.
func WithPublisher(p Publisher) Option {
	return func(s *EntryStore) { s.publisher = p }
}

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *EntryStore) { s.logger = l }
}

func NewEntryStore(repo ports.EntryRepository, opts ...Option) *EntryStore {
	s := &EntryStore{
		repo:  repo,
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStore)
	}
	return s
}

// Create normalizes raw input and stores it under a fresh id.
func (s *EntryStore) Create(ctx context.Context, in core.EntryInput) (core.BetEntry, error) {
	s.mu.Lock()
	fields, coerced, err := in.Normalize(s.now())
	if err != nil {
		s.mu.Unlock()
		return core.BetEntry{}, fmt.Errorf("create entry: %w", err)
	}
	e := core.BetEntry{ID: s.newID(), Fields: fields}
	s.warnCoerced(ctx, log.OpCreate, e.ID, coerced)
	if err := s.repo.Insert(ctx, e); err != nil {
		s.mu.Unlock()
		return core.BetEntry{}, fmt.Errorf("create entry: %w", err)
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Entry created",
		log.NewFields().WithEntry(e.ID, string(e.Outcome), e.Stake, e.Amount()).WithOperation(log.OpCreate).ToSlice()...)
	s.notify(ctx, EventCreated, e.ID)
	return e, nil
}

// Update replaces the entry with id by the normalized input. A zero input
// date keeps the stored date. Returns core.ErrNotFound for unknown ids.
func (s *EntryStore) Update(ctx context.Context, id uuid.UUID, in core.EntryInput) (core.BetEntry, error) {
	s.mu.Lock()
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return core.BetEntry{}, fmt.Errorf("update entry: %w", err)
	}
	if in.Date.IsZero() {
		in.Date = current.Date
	}
	fields, coerced, err := in.Normalize(s.now())
	if err != nil {
		s.mu.Unlock()
		return core.BetEntry{}, fmt.Errorf("update entry: %w", err)
	}
	e := core.BetEntry{ID: id, Fields: fields}
	s.warnCoerced(ctx, log.OpUpdate, id, coerced)
	if err := s.repo.Update(ctx, e); err != nil {
		s.mu.Unlock()
		return core.BetEntry{}, fmt.Errorf("update entry: %w", err)
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Entry updated",
		log.NewFields().WithEntry(e.ID, string(e.Outcome), e.Stake, e.Amount()).WithOperation(log.OpUpdate).ToSlice()...)
	s.notify(ctx, EventUpdated, id)
	return e, nil
}

// Get returns one entry or core.ErrNotFound.
func (s *EntryStore) Get(ctx context.Context, id uuid.UUID) (core.BetEntry, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes one entry. Deleting an absent id is a no-op.
func (s *EntryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.DeleteMany(ctx, []uuid.UUID{id})
	return err
}

// DeleteMany removes every listed entry and returns the ids that existed;
// absent ids are ignored and left out of the deleted event.
func (s *EntryStore) DeleteMany(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	removed, err := s.repo.Delete(ctx, ids...)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("delete entries: %w", err)
	}
	if len(removed) == 0 {
		s.logger.DebugContext(ctx, "Delete matched no entries",
			log.NewFields().WithEntryIDs(ids).WithOperation(log.OpDelete).ToSlice()...)
		return nil, nil
	}

	s.logger.InfoContext(ctx, "Entries deleted",
		append(log.NewFields().WithEntryIDs(removed).WithOperation(log.OpDelete).ToSlice(), "requested", len(ids))...)
	s.notify(ctx, EventDeleted, removed...)
	return removed, nil
}

// DeleteAtOffsets removes the entries at the given positions of a day
// group as it was displayed. Offsets outside the group are ignored.
func (s *EntryStore) DeleteAtOffsets(ctx context.Context, group []core.BetEntry, offsets []int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, off := range offsets {
		if off >= 0 && off < len(group) {
			ids = append(ids, group[off].ID)
		}
	}
	return s.DeleteMany(ctx, ids)
}

// AllSorted returns the live view: newest date first, ties in insertion order.
func (s *EntryStore) AllSorted(ctx context.Context) ([]core.BetEntry, error) {
	entries, err := s.repo.ListSorted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Subscribe registers fn for every future event. The returned func removes it.
func (s *EntryStore) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			for i, sub := range s.observers {
				if sub.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *EntryStore) notify(ctx context.Context, kind EventKind, ids ...uuid.UUID) {
	s.obsMu.Lock()
	subs := append([]subscription(nil), s.observers...)
	s.obsMu.Unlock()

	ev := Event{Kind: kind, IDs: append([]uuid.UUID(nil), ids...), At: s.now()}
	for _, sub := range subs {
		sub.fn(ev)
	}
	s.publish(ctx, ev)
}

func (s *EntryStore) publish(ctx context.Context, ev Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntryEvent(ctx, string(ev.Kind), ev.IDs, ev.At); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish entry event",
			log.NewFields().WithEntryIDs(ev.IDs).WithOperation(log.OpPublish).WithError(err).ToSlice()...)
	}
}

func (s *EntryStore) warnCoerced(ctx context.Context, op string, id uuid.UUID, fields []string) {
	if len(fields) == 0 {
		return
	}
	s.logger.WarnContext(ctx, "Unreadable amounts replaced by defaults",
		log.FieldEntryID, id.String(),
		log.FieldOperation, op,
		log.FieldCoerced, fields)
}
