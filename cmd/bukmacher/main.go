// Command bukmacher records betting slips and prints the journal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"bukmacher/internal/cli"
)

const usageText = `Usage: bukmacher [-v] <command> [flags] [args]

Commands:
  add       record a slip (-outcome win|loss -stake -odds -amount -date -note)
  edit      change a slip (-id plus any add flag)
  rm        delete slips by id, or by position in a day (-day YYYY-MM-DD -at 0,2)
  list      print the journal grouped by day
  balance   print the total balance and stats
  show      print the breakdown of one slip
  settings  print or change display settings (-lang -currency -name)
  watch     print entry changes published to the broker (needs AMQP_URL)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bukmacher", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "log at LOG_LEVEL instead of warnings only")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupCommandLogger(cfg, os.Stderr, *verbose)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	app, err := cli.Bootstrap(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bukmacher:", err)
		return 1
	}
	defer app.Close()

	c := &commands{
		store:    app.Store,
		settings: app.Settings,
		loc:      app.Location,
		now:      time.Now,
		in:       os.Stdin,
		out:      os.Stdout,
		logger:   logger,
	}
	if app.Backend.Broker != nil {
		c.events = app.Backend.Broker
	}

	if err := c.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, "bukmacher:", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}
