package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"cryptovault/pkg/appdir"
	"cryptovault/pkg/log"
)

// timeFormats are tried in order when a time spec is not a duration.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec accepts a duration before now ("1h", "30m", "2d", "1w") or an
// absolute timestamp.
func parseTimeSpec(spec string, now time.Time) (time.Time, error) {
	if d, err := parseDuration(spec); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.ParseInLocation(layout, spec, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification '%s': use a duration (e.g. '1h', '2d') or a timestamp (e.g. '2023-10-27T15:04:05Z')", spec)
}

// parseDuration extends time.ParseDuration with whole-day (d) and week (w)
// units.
func parseDuration(spec string) (time.Duration, error) {
	if n := len(spec); n > 1 {
		var unit time.Duration
		switch spec[n-1] {
		case 'd':
			unit = 24 * time.Hour
		case 'w':
			unit = 7 * 24 * time.Hour
		}
		if unit != 0 {
			var count int
			if _, err := fmt.Sscanf(spec[:n-1], "%d", &count); err == nil && fmt.Sprint(count) == spec[:n-1] {
				return time.Duration(count) * unit, nil
			}
		}
	}
	return time.ParseDuration(spec)
}

var logsCommand = &cli.Command{
	Name:      "logs",
	Usage:     "read events from the SQLite log store",
	UsageText: "cryptovault logs [--last|--since|--between] [options]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dbfile", Aliases: []string{"f"}, Usage: "log store `PATH` (defaults to the configured log_db)"},
		&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "human readable output instead of raw JSON"},
		&cli.BoolFlag{Name: "last", Usage: "mode: the most recent N events (default)"},
		&cli.BoolFlag{Name: "since", Usage: "mode: events since --start"},
		&cli.BoolFlag{Name: "between", Usage: "mode: events between --start and --end"},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "events for --last `NUMBER`", Value: 100},
		&cli.StringFlag{Name: "start", Aliases: []string{"s"}, Usage: "start `TIME_SPEC` (e.g. '1h', '2023-10-27T10:00:00Z')"},
		&cli.StringFlag{Name: "end", Aliases: []string{"e"}, Usage: "end `TIME_SPEC`"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "max events for --since/--between `NUMBER`", Value: 1000},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	modes := 0
	for _, m := range []string{"last", "since", "between"} {
		if c.Bool(m) {
			modes++
		}
	}
	if modes > 1 {
		return cli.Exit("Error: only one of --last, --since, --between can be given.", 1)
	}

	dbFile := c.String("dbfile")
	if dbFile == "" {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		dbFile = cfg.LogDB
	}
	if err := log.OpenReadOnly(appdir.Path(dbFile)); err != nil {
		return cli.Exit(fmt.Sprintf("Error opening log store: %v", err), 1)
	}
	defer log.Close()

	now := time.Now()
	var (
		results []log.LogEntry
		err     error
	)
	switch {
	case c.Bool("since"):
		if !c.IsSet("start") {
			return cli.Exit("Error: --start is required for --since.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		results, err = log.GetLogsSince(start, c.Int("limit"))
	case c.Bool("between"):
		if !c.IsSet("start") || !c.IsSet("end") {
			return cli.Exit("Error: --start and --end are required for --between.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		end, perr := parseTimeSpec(c.String("end"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		if start.After(end) {
			fmt.Fprintf(os.Stderr, "Warning: start (%s) is after end (%s).\n", start.Format(time.RFC3339), end.Format(time.RFC3339))
		}
		results, err = log.GetLogsBetween(start, end, c.Int("limit"))
	default:
		n := c.Int("count")
		if n <= 0 {
			return cli.Exit("Error: --count must be positive.", 1)
		}
		results, err = log.GetLastNLogs(n)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No log entries found matching the criteria.")
		return nil
	}

	printEntries(c, results, c.Bool("pretty"))
	return nil
}

func printEntries(c *cli.Context, entries []log.LogEntry, pretty bool) {
	if !pretty {
		for _, e := range entries {
			fmt.Fprintln(c.App.Writer, e.LogData)
		}
		return
	}
	w := zerolog.ConsoleWriter{Out: c.App.Writer, TimeFormat: time.RFC3339}
	for _, e := range entries {
		fmt.Fprintf(c.App.Writer, "#%d stored %s\n", e.ID, humanize.Time(e.InsertedAt))
		if _, err := w.Write([]byte(e.LogData)); err != nil {
			fmt.Fprintln(c.App.Writer, e.LogData)
		}
	}
}
