// Package worker consumes entry change events from the broker and renders
// them for a terminal.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/amqp"
	"bukmacher/internal/core"
	"bukmacher/internal/locale"
	"bukmacher/internal/log"
)

// EntryReader looks up the current state of an entry.
type EntryReader interface {
	Get(ctx context.Context, id uuid.UUID) (core.BetEntry, error)
}

// SettingsReader yields the display preferences used to render lines.
type SettingsReader interface {
	Current(ctx context.Context) (core.Settings, error)
}

// EventWorker writes one localized line per entry named in an event.
// Entries deleted before the event is handled are skipped.
type EventWorker struct {
	entries  EntryReader
	settings SettingsReader
	loc      *time.Location
	logger   *log.Logger

	mu  sync.Mutex
	out io.Writer

	handled atomic.Int64
}

func NewEventWorker(entries EntryReader, settings SettingsReader, out io.Writer, loc *time.Location, logger *log.Logger) *EventWorker {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &EventWorker{
		entries:  entries,
		settings: settings,
		out:      out,
		loc:      loc,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Handler adapts the worker to amqp.Client.ConsumeEntryEvents.
func (w *EventWorker) Handler(ctx context.Context) func(*amqp.EntryEventMessage) error {
	return func(msg *amqp.EntryEventMessage) error {
		return w.HandleEntryEvent(ctx, msg)
	}
}

// HandleEntryEvent renders msg. Lookup failures other than a missing entry
// are returned so the message is requeued.
func (w *EventWorker) HandleEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error {
	st, err := w.settings.Current(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	w.logger.DebugContext(ctx, "Processing entry event",
		"kind", msg.Kind, "count", len(msg.IDs))

	stamp := msg.Timestamp.In(w.loc).Format("2006-01-02 15:04")
	var lines []string
	switch msg.Kind {
	case "deleted":
		for _, id := range msg.IDs {
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", stamp, st.T(locale.KeyEntriesDeleted), id))
		}
	case "created", "updated":
		label := st.T(locale.KeyEntryCreated)
		if msg.Kind == "updated" {
			label = st.T(locale.KeyEntryUpdated)
		}
		for _, id := range msg.IDs {
			e, err := w.entries.Get(ctx, id)
			if errors.Is(err, core.ErrNotFound) {
				w.logger.DebugContext(ctx, "Entry gone before event was handled", log.FieldEntryID, id.String())
				continue
			}
			if err != nil {
				return fmt.Errorf("get entry %s: %w", id, err)
			}
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", stamp, label, FormatEntryLine(e, st)))
		}
	default:
		w.logger.WarnContext(ctx, "Unknown entry event kind", "kind", msg.Kind)
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, line := range lines {
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}
	w.handled.Add(1)
	return nil
}

// Handled returns the number of events rendered so far.
func (w *EventWorker) Handled() int64 {
	return w.handled.Load()
}

// FormatEntryLine is the one-line summary used by the terminal views:
// title, odds and the signed balance effect.
func FormatEntryLine(e core.BetEntry, st core.Settings) string {
	title := e.Note
	if title == "" {
		title = st.T(locale.KeyOutcomeLoss)
		if e.Outcome == core.OutcomeWin {
			title = st.T(locale.KeyOutcomeWin)
		}
	}
	return fmt.Sprintf("%s  %s %s  %s  (%s)",
		title,
		st.T(locale.KeyOdds), core.FormatOdds(e.Odds),
		core.FormatAmount(core.NetEffect(e), st.Currency, true),
		e.ID)
}
