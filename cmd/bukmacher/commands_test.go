package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukmacher/internal/amqp"
	"bukmacher/internal/core"
	"bukmacher/internal/locale"
	"bukmacher/internal/log"
	"bukmacher/internal/services"
	"bukmacher/internal/storage/memory"
)

var cliNow = time.Date(2026, 10, 16, 18, 30, 0, 0, time.UTC)

type fakeEvents struct {
	msgs []*amqp.EntryEventMessage
}

func (f *fakeEvents) ConsumeEntryEvents(ctx context.Context, handler func(*amqp.EntryEventMessage) error) error {
	for _, m := range f.msgs {
		if err := handler(m); err != nil {
			return err
		}
	}
	return context.Canceled
}

// newTestCommands returns commands over an in-memory ledger whose user has
// already been onboarded as "Ania".
func newTestCommands(t *testing.T) (*commands, *bytes.Buffer) {
	t.Helper()
	logger := log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
	repo := memory.New()
	store := services.NewEntryStore(repo,
		services.WithLogger(logger),
		services.WithClock(func() time.Time { return cliNow }))
	settings := services.NewSettingsService(repo, core.DefaultSettings(), logger)
	_, err := settings.SetDisplayName(context.Background(), "Ania")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &commands{
		store:    store,
		settings: settings,
		loc:      time.UTC,
		now:      func() time.Time { return cliNow },
		in:       strings.NewReader(""),
		out:      out,
		logger:   logger,
	}, out
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCommands(t)

	require.NoError(t, c.run(ctx, "add", []string{"-outcome", "wygrana", "-stake", "10", "-odds", "2,5", "-amount", "25", "-note", "Derby"}))
	assert.Contains(t, out.String(), "Dodano kupon: Derby  Kurs 2.50  +15.00 zł")

	require.NoError(t, c.run(ctx, "add", []string{"-outcome", "loss", "-stake", "5", "-date", "2026-10-15"}))

	out.Reset()
	require.NoError(t, c.run(ctx, "list", nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Dziennik · Ania", lines[0])
	assert.Equal(t, "Bilans całkowity: +10.00 zł", lines[1])
	assert.Equal(t, "Dzisiaj", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "  [0] Derby  Kurs: 2.50  +15.00 zł"), lines[4])
	assert.Equal(t, "Wczoraj", lines[6])
	assert.True(t, strings.HasPrefix(lines[7], "  [0] Przegrana  Kurs: 1.00  -5.00 zł"), lines[7])
}

func TestAdd_Errors(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCommands(t)

	assert.ErrorIs(t, c.run(ctx, "add", []string{"-stake", "10"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, "add", []string{"-outcome", "draw"}), core.ErrInvalidOutcome)
	assert.ErrorIs(t, c.run(ctx, "add", []string{"-outcome", "win", "-date", "16.10.2026"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, "frobnicate", nil), errUsage)
}

func TestEdit_KeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCommands(t)
	e, err := c.store.Create(ctx, core.EntryInput{
		Outcome: core.OutcomeWin, Stake: "10", Odds: "3", Amount: "30", Note: "Derby",
		Date: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, c.run(ctx, "edit", []string{"-id", e.ID.String(), "-outcome", "loss"}))
	assert.Contains(t, out.String(), "Zapisano kupon: Derby  Kurs 3.00  -10.00 zł")

	got, err := c.store.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeLoss, got.Outcome)
	assert.True(t, got.PotentialWin.Equal(decimal.NewFromInt(30)))
	assert.True(t, got.WinAmount.IsZero())
	assert.True(t, got.Date.Equal(e.Date))

	assert.ErrorIs(t, c.run(ctx, "edit", []string{"-id", uuid.NewString()}), core.ErrNotFound)
	assert.ErrorIs(t, c.run(ctx, "edit", []string{"-id", "nope"}), errUsage)
}

func TestEdit_NoteOnlyKeepsExactAmounts(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCommands(t)
	e, err := c.store.Create(ctx, core.EntryInput{
		Outcome: core.OutcomeWin, Stake: "10.125", Odds: "1.875", Amount: "18.984", Note: "Derby",
		Date: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, c.run(ctx, "edit", []string{"-id", e.ID.String(), "-note", "renamed"}))

	got, err := c.store.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Note)
	assert.Equal(t, "10.125", got.Stake.String())
	assert.Equal(t, "1.875", got.Odds.String())
	assert.Equal(t, "18.984", got.WinAmount.String())
	assert.Equal(t, "8.859", core.NetEffect(got).String())
}

func TestRm(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCommands(t)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		e, err := c.store.Create(ctx, core.EntryInput{Outcome: core.OutcomeLoss, Stake: "1"})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	require.NoError(t, c.run(ctx, "rm", []string{ids[0].String()}))
	assert.Contains(t, out.String(), "Usunięto kupony: 1")

	// remaining group is [ids[1], ids[2]]; position 5 matches nothing
	out.Reset()
	require.NoError(t, c.run(ctx, "rm", []string{"-day", "2026-10-16", "-at", "1,5"}))
	assert.Contains(t, out.String(), "Usunięto kupony: 1")

	all, err := c.store.AllSorted(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, ids[1], all[0].ID)

	// only ids that existed are counted
	out.Reset()
	require.NoError(t, c.run(ctx, "rm", []string{ids[0].String(), ids[1].String(), uuid.NewString()}))
	assert.Contains(t, out.String(), "Usunięto kupony: 1")

	out.Reset()
	require.NoError(t, c.run(ctx, "rm", []string{ids[1].String()}))
	assert.Contains(t, out.String(), "Usunięto kupony: 0")

	assert.ErrorIs(t, c.run(ctx, "rm", nil), errUsage)
	assert.ErrorIs(t, c.run(ctx, "rm", []string{"-day", "2026-10-16"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, "rm", []string{"-day", "2026-10-16", "-at", "x"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, "rm", []string{"not-an-id"}), errUsage)
}

func TestBalance(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCommands(t)
	_, err := c.settings.Update(ctx, services.SettingsPatch{Language: ptr("en"), Currency: ptr("EUR")})
	require.NoError(t, err)
	_, err = c.store.Create(ctx, core.EntryInput{Outcome: core.OutcomeWin, Stake: "43", Amount: "129"})
	require.NoError(t, err)

	require.NoError(t, c.run(ctx, "balance", nil))
	assert.Equal(t, strings.Join([]string{
		"Journal · Ania",
		"Total balance: +20.00 €",
		"Slips: 1",
		"Total staked: 10.00 €",
		"Total winnings: +20.00 €",
	}, "\n")+"\n", out.String())
}

func TestList_Empty(t *testing.T) {
	c, out := newTestCommands(t)
	require.NoError(t, c.run(context.Background(), "list", nil))
	assert.Contains(t, out.String(), "Brak kuponów")
}

func TestShow(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCommands(t)
	e, err := c.store.Create(ctx, core.EntryInput{Outcome: core.OutcomeWin, Stake: "10", Odds: "2", Amount: "20", Note: "Derby"})
	require.NoError(t, err)

	require.NoError(t, c.run(ctx, "show", []string{e.ID.String()}))
	assert.Equal(t, strings.Join([]string{
		"Derby",
		"Data: 16 października 2026",
		"Stawka: 10.00 zł",
		"Kurs: 2.00",
		"Wygrana brutto: 20.00 zł",
		"Zysk netto: +10.00 zł",
		"Notatka: Derby",
	}, "\n")+"\n", out.String())

	assert.ErrorIs(t, c.run(ctx, "show", nil), errUsage)
	assert.ErrorIs(t, c.run(ctx, "show", []string{uuid.NewString()}), core.ErrNotFound)
}

func TestSettingsCommand(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCommands(t)

	require.NoError(t, c.run(ctx, "settings", []string{"-lang", "en", "-currency", "usd"}))
	assert.Equal(t, "Language: en\nCurrency: USD\nDisplay name: Ania\n", out.String())

	assert.ErrorIs(t, c.run(ctx, "settings", []string{"-currency", "GBP"}), locale.ErrInvalidCurrency)
	assert.ErrorIs(t, c.run(ctx, "settings", []string{"-name", " "}), core.ErrEmptyDisplayName)
}

func TestOnboarding(t *testing.T) {
	ctx := context.Background()
	logger := log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
	repo := memory.New()
	out := &bytes.Buffer{}
	c := &commands{
		store:    services.NewEntryStore(repo, services.WithLogger(logger)),
		settings: services.NewSettingsService(repo, core.DefaultSettings(), logger),
		loc:      time.UTC,
		now:      func() time.Time { return cliNow },
		in:       strings.NewReader("  Ania \n"),
		out:      out,
		logger:   logger,
	}

	require.NoError(t, c.run(ctx, "list", nil))
	assert.Contains(t, out.String(), "Podaj swoją nazwę")
	assert.Contains(t, out.String(), "Witaj, Ania!")

	st, err := c.settings.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ania", st.DisplayName)
	assert.False(t, st.NeedsOnboarding())
}

func TestOnboarding_EmptyName(t *testing.T) {
	logger := log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
	repo := memory.New()
	c := &commands{
		store:    services.NewEntryStore(repo, services.WithLogger(logger)),
		settings: services.NewSettingsService(repo, core.DefaultSettings(), logger),
		loc:      time.UTC,
		now:      func() time.Time { return cliNow },
		in:       strings.NewReader(""),
		out:      io.Discard,
		logger:   logger,
	}
	assert.ErrorIs(t, c.run(context.Background(), "balance", nil), core.ErrEmptyDisplayName)
	// settings stays reachable so the name can be given with -name
	assert.NoError(t, c.run(context.Background(), "settings", []string{"-name", "Ania"}))
}

func TestWatch(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCommands(t)
	assert.Error(t, c.run(ctx, "watch", nil), "no broker configured")

	e, err := c.store.Create(ctx, core.EntryInput{Outcome: core.OutcomeWin, Stake: "1", Amount: "3"})
	require.NoError(t, err)
	c.events = &fakeEvents{msgs: []*amqp.EntryEventMessage{
		amqp.NewEntryEventMessage("created", []uuid.UUID{e.ID}, cliNow),
	}}

	require.NoError(t, c.run(ctx, "watch", nil))
	assert.Contains(t, out.String(), "[2026-10-16 18:30] Dodano kupon: Wygrana  Kurs 1.00  +2.00 zł")
}

func TestWatch_HandlerError(t *testing.T) {
	c, _ := newTestCommands(t)
	want := errors.New("boom")
	c.events = eventSourceFunc(func(context.Context, func(*amqp.EntryEventMessage) error) error { return want })
	assert.ErrorIs(t, c.run(context.Background(), "watch", nil), want)
}

type eventSourceFunc func(ctx context.Context, handler func(*amqp.EntryEventMessage) error) error

func (f eventSourceFunc) ConsumeEntryEvents(ctx context.Context, handler func(*amqp.EntryEventMessage) error) error {
	return f(ctx, handler)
}

func ptr(s string) *string { return &s }
