package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/amqp"
	"bukmacher/internal/core"
	"bukmacher/internal/locale"
	"bukmacher/internal/log"
	"bukmacher/internal/services"
	"bukmacher/internal/worker"
)

var errUsage = errors.New("usage")

type eventSource interface {
	ConsumeEntryEvents(ctx context.Context, handler func(*amqp.EntryEventMessage) error) error
}

type commands struct {
	store    *services.EntryStore
	settings *services.SettingsService
	events   eventSource
	loc      *time.Location
	now      func() time.Time
	in       io.Reader
	out      io.Writer
	logger   *log.Logger
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func (c *commands) run(ctx context.Context, name string, args []string) error {
	if name != "settings" {
		if err := c.onboard(ctx); err != nil {
			return err
		}
	}
	switch name {
	case "add":
		return c.add(ctx, args)
	case "edit":
		return c.edit(ctx, args)
	case "rm":
		return c.rm(ctx, args)
	case "list":
		return c.list(ctx)
	case "balance":
		return c.balance(ctx)
	case "show":
		return c.show(ctx, args)
	case "settings":
		return c.updateSettings(ctx, args)
	case "watch":
		return c.watch(ctx)
	default:
		return usageErr("unknown command %q", name)
	}
}

// onboard asks for the display name once, before the first real command.
func (c *commands) onboard(ctx context.Context) error {
	st, err := c.settings.Current(ctx)
	if err != nil {
		return err
	}
	if !st.NeedsOnboarding() {
		return nil
	}
	fmt.Fprintf(c.out, "%s\n> ", st.T(locale.KeyAskName))
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read display name: %w", err)
	}
	st, err = c.settings.SetDisplayName(ctx, line)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s, %s!\n", st.T(locale.KeyWelcome), st.DisplayName)
	return nil
}

// entryFlags are the flags shared by add and edit.
type entryFlags struct {
	outcome, stake, odds, amount, date, note *string
}

func newEntryFlags(fs *flag.FlagSet) entryFlags {
	return entryFlags{
		outcome: fs.String("outcome", "", "win or loss (wygrana/przegrana)"),
		stake:   fs.String("stake", "", "amount staked, e.g. 10 or 12,50"),
		odds:    fs.String("odds", "", "decimal odds, default 1.0"),
		amount:  fs.String("amount", "", "winnings for a win, potential winnings for a loss"),
		date:    fs.String("date", "", "YYYY-MM-DD, default today"),
		note:    fs.String("note", "", "free text"),
	}
}

// apply overwrites in with every flag that was set on fs.
func (f entryFlags) apply(fs *flag.FlagSet, in *core.EntryInput, now time.Time) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "outcome":
			in.Outcome, err = core.ParseOutcome(*f.outcome)
		case "stake":
			in.Stake = *f.stake
		case "odds":
			in.Odds = *f.odds
		case "amount":
			in.Amount = *f.amount
		case "date":
			in.Date, err = parseDay(*f.date, now)
		case "note":
			in.Note = strings.TrimSpace(*f.note)
		}
	})
	return err
}

// parseDay reads YYYY-MM-DD and keeps now's time of day.
func parseDay(s string, now time.Time) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, usageErr("date %q must be YYYY-MM-DD", s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location()), nil
}

func (c *commands) localNow() time.Time {
	return c.now().In(c.loc)
}

func (c *commands) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(c.out)
	flags := newEntryFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *flags.outcome == "" {
		return usageErr("add needs -outcome")
	}

	var in core.EntryInput
	if err := flags.apply(fs, &in, c.localNow()); err != nil {
		return err
	}
	e, err := c.store.Create(ctx, in)
	if err != nil {
		return err
	}
	return c.printEntry(ctx, locale.KeyEntryCreated, e)
}

func (c *commands) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(c.out)
	rawID := fs.String("id", "", "id of the slip to change")
	flags := newEntryFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := uuid.Parse(*rawID)
	if err != nil {
		return usageErr("edit needs a valid -id")
	}

	current, err := c.store.Get(ctx, id)
	if err != nil {
		return err
	}
	in := core.EditInput(current)
	if err := flags.apply(fs, &in, c.localNow()); err != nil {
		return err
	}
	e, err := c.store.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return c.printEntry(ctx, locale.KeyEntryUpdated, e)
}

func (c *commands) printEntry(ctx context.Context, key locale.Key, e core.BetEntry) error {
	st, err := c.settings.Current(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%s: %s\n", st.T(key), worker.FormatEntryLine(e, st))
	return err
}

func (c *commands) rm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(c.out)
	day := fs.String("day", "", "day of the slips to delete, YYYY-MM-DD")
	at := fs.String("at", "", "comma-separated positions within -day, as printed by list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := c.settings.Current(ctx)
	if err != nil {
		return err
	}

	if *day != "" {
		if fs.NArg() > 0 {
			return usageErr("rm takes either ids or -day/-at")
		}
		n, err := c.rmAtOffsets(ctx, *day, *at)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.out, "%s: %d\n", st.T(locale.KeyEntriesDeleted), n)
		return err
	}

	if fs.NArg() == 0 {
		return usageErr("rm needs at least one id")
	}
	ids := make([]uuid.UUID, 0, fs.NArg())
	for _, raw := range fs.Args() {
		id, err := uuid.Parse(raw)
		if err != nil {
			return usageErr("invalid id %q", raw)
		}
		ids = append(ids, id)
	}
	removed, err := c.store.DeleteMany(ctx, ids)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%s: %d\n", st.T(locale.KeyEntriesDeleted), len(removed))
	return err
}

// rmAtOffsets deletes by position within one day group and returns how
// many entries were removed.
func (c *commands) rmAtOffsets(ctx context.Context, rawDay, rawOffsets string) (int, error) {
	d, err := parseDay(rawDay, c.localNow())
	if err != nil {
		return 0, err
	}
	var offsets []int
	for _, part := range strings.Split(rawOffsets, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		off, err := strconv.Atoi(part)
		if err != nil {
			return 0, usageErr("invalid position %q", part)
		}
		offsets = append(offsets, off)
	}
	if len(offsets) == 0 {
		return 0, usageErr("rm -day needs -at")
	}

	entries, err := c.store.AllSorted(ctx)
	if err != nil {
		return 0, err
	}
	want := core.StartOfDay(d, c.loc)
	for _, g := range core.GroupByDay(entries, c.loc) {
		if !g.Day.Equal(want) {
			continue
		}
		removed, err := c.store.DeleteAtOffsets(ctx, g.Entries, offsets)
		return len(removed), err
	}
	return 0, nil
}

func (c *commands) list(ctx context.Context) error {
	ov, err := c.overview(ctx)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(c.out)
	c.printHeader(w, ov)
	if ov.Empty != nil {
		fmt.Fprintf(w, "\n%s\n%s\n", ov.Empty.Title, ov.Empty.Description)
		return w.Flush()
	}
	for _, g := range ov.Groups {
		fmt.Fprintf(w, "\n%s\n", g.Label)
		for i, row := range g.Rows {
			fmt.Fprintf(w, "  [%d] %s  %s  %s  (%s)\n", i, row.Title, row.Odds, row.Amount, row.ID)
		}
	}
	return w.Flush()
}

func (c *commands) balance(ctx context.Context) error {
	ov, err := c.overview(ctx)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(c.out)
	c.printHeader(w, ov)
	for _, s := range ov.Stats {
		fmt.Fprintf(w, "%s: %s\n", s.Label, s.Value)
	}
	return w.Flush()
}

func (c *commands) overview(ctx context.Context) (services.Overview, error) {
	st, err := c.settings.Current(ctx)
	if err != nil {
		return services.Overview{}, err
	}
	entries, err := c.store.AllSorted(ctx)
	if err != nil {
		return services.Overview{}, err
	}
	return services.BuildOverview(entries, st, c.localNow()), nil
}

func (c *commands) printHeader(w io.Writer, ov services.Overview) {
	title := ov.Title
	if ov.DisplayName != "" {
		title += " · " + ov.DisplayName
	}
	fmt.Fprintf(w, "%s\n%s: %s\n", title, ov.BalanceLabel, ov.Balance)
}

func (c *commands) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageErr("show needs exactly one id")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return usageErr("invalid id %q", args[0])
	}
	e, err := c.store.Get(ctx, id)
	if err != nil {
		return err
	}
	st, err := c.settings.Current(ctx)
	if err != nil {
		return err
	}

	d := services.BuildEntryDetail(e, st, c.loc)
	w := bufio.NewWriter(c.out)
	fmt.Fprintf(w, "%s\n%s: %s\n", d.Title, st.T(locale.KeyDate), d.Date)
	for _, row := range d.Rows {
		fmt.Fprintf(w, "%s: %s\n", row.Label, row.Value)
	}
	if d.Note != "" {
		fmt.Fprintf(w, "%s: %s\n", st.T(locale.KeyNote), d.Note)
	}
	return w.Flush()
}

func (c *commands) updateSettings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(c.out)
	lang := fs.String("lang", "", "display language: pl or en")
	currency := fs.String("currency", "", "display currency: PLN, EUR or USD")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var patch services.SettingsPatch
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "lang":
			patch.Language = lang
		case "currency":
			patch.Currency = currency
		case "name":
			patch.DisplayName = name
		}
	})

	var (
		st  core.Settings
		err error
	)
	if patch == (services.SettingsPatch{}) {
		st, err = c.settings.Current(ctx)
	} else {
		st, err = c.settings.Update(ctx, patch)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%s: %s\n%s: %s\n%s: %s\n",
		st.T(locale.KeySettingsLanguage), st.Language,
		st.T(locale.KeySettingsCurrency), st.Currency,
		st.T(locale.KeySettingsName), st.DisplayName)
	return err
}

func (c *commands) watch(ctx context.Context) error {
	if c.events == nil {
		return errors.New("watch needs a reachable broker, set AMQP_URL")
	}
	w := worker.NewEventWorker(c.store, c.settings, c.out, c.loc, c.logger)
	err := c.events.ConsumeEntryEvents(ctx, w.Handler(ctx))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
