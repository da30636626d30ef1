package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"slotfinder/internal/caldav"
	"slotfinder/internal/finder"
	"slotfinder/internal/google"
	"slotfinder/internal/icsfile"
	"slotfinder/internal/naturaldate"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "slotfinder",
		Usage: "Find free meeting slots across Google, CalDAV and iCalendar calendars.",
		Commands: []*cli.Command{
			authCommand(),
			calendarsCommand(),
			findCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Stderr, "info")
			logger.Info("Starting Google authentication flow.")

			config, err := google.GetOAuthConfigForAuthFlow(os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"))
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(c.Context, config, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Print("Enter a name for this account (e.g., 'personal', 'work'): ")
			accountName, _ := reader.ReadString('\n')
			accountName = strings.TrimSpace(accountName)
			tokenFile := "token-" + accountName + ".json"

			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", tokenFile)
			return nil
		},
	}
}

func calendarsCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendars",
		Usage: "List the Google calendars visible to every authenticated account.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Stderr, os.Getenv("LOG_LEVEL"))
			clients, err := googleClients(c.Context, logger)
			if err != nil {
				return err
			}
			for _, client := range clients {
				ids, err := client.DiscoverGoogleCalendars(c.Context)
				if err != nil {
					return fmt.Errorf("account %s: %w", client.Account(), err)
				}
				for _, id := range ids {
					fmt.Printf("%s\t%s\n", client.Account(), id)
				}
			}
			return nil
		},
	}
}

func findCommand() *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "Find the free slots of a day for a meeting.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Value: "today", Usage: "Day to search, e.g. 2026-10-19, tomorrow, next friday."},
			&cli.IntFlag{Name: "duration", Aliases: []string{"d"}, Value: 30, Usage: "Meeting length in minutes."},
			&cli.StringSliceFlag{Name: "attendee", Aliases: []string{"a"}, Usage: "Mandatory attendee. Repeatable."},
			&cli.StringSliceFlag{Name: "optional", Aliases: []string{"o"}, Usage: "Optional attendee. Repeatable."},
			&cli.StringSliceFlag{Name: "ics", Usage: "Local calendar file as owner=path. Repeatable."},
			&cli.BoolFlag{Name: "caldav", Usage: "Read the CalDAV calendar configured by the CALDAV_* variables."},
			&cli.StringSliceFlag{Name: "google-calendar", EnvVars: []string{"GOOGLE_CALENDAR_IDS"}, Usage: "Google calendar id to read events from. Repeatable."},
			&cli.StringSliceFlag{Name: "google-freebusy", Usage: "Google calendar id or email to query free/busy for. Repeatable."},
			&cli.StringFlag{Name: "timezone", EnvVars: []string{"PRIMARY_TIMEZONE"}, Value: "UTC", Usage: "Time zone of the day searched."},
			&cli.BoolFlag{Name: "skip-past", Usage: "Do not offer slots that already started today."},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON."},
			&cli.StringFlag{Name: "book", Usage: "Book the first slot on the CalDAV calendar with this title."},
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be booked without making changes."},
			&cli.IntFlag{Name: "watch", Value: 300, Usage: "Repeat the search every N seconds."},
		},
		Action: func(c *cli.Context) error {
			logLevel := os.Getenv("LOG_LEVEL")
			if logLevel == "" {
				logLevel = "info"
			}
			logger := setupLogger(os.Stderr, logLevel)

			loc, err := time.LoadLocation(c.String("timezone"))
			if err != nil {
				return fmt.Errorf("invalid timezone '%s': %w", c.String("timezone"), err)
			}

			clock := clockwork.NewRealClock()
			day, err := naturaldate.NewParser(clock).Day(c.String("date"), loc)
			if err != nil {
				return err
			}

			sources, calDAV, err := buildSources(c, logger, loc)
			if err != nil {
				return err
			}
			var booker finder.Booker
			if calDAV != nil {
				booker = calDAV
			}
			if err := checkBookingFlags(c.String("book"), booker != nil, c.IsSet("watch")); err != nil {
				return err
			}

			f, err := finder.New(logger, sources, booker, clock, c.Bool("dry-run"))
			if err != nil {
				return fmt.Errorf("failed to create finder: %w", err)
			}

			query := finder.Query{
				Day:       day,
				Mandatory: c.StringSlice("attendee"),
				Optional:  c.StringSlice("optional"),
				Duration:  c.Int("duration"),
				SkipPast:  c.Bool("skip-past"),
			}
			run := func() error {
				return runFind(c.Context, f, query, c.String("book"), c.Bool("json"), os.Stdout)
			}

			// --watch repeats until interrupted
			if c.IsSet("watch") {
				interval := time.Duration(c.Int("watch")) * time.Second
				logger.Info("Starting watcher.", "interval", interval)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					if err := run(); err != nil {
						logger.Error("Search failed", "error", err)
					}
					select {
					case <-c.Context.Done():
						return nil
					case <-ticker.C:
					}
				}
			}
			return run()
		},
	}
}

// checkBookingFlags rejects --book without a calendar to write to, and with
// --watch, which would book a new meeting on every tick.
func checkBookingFlags(title string, canBook, watch bool) error {
	if title == "" {
		return nil
	}
	if !canBook {
		return errors.New("--book requires --caldav")
	}
	if watch {
		return errors.New("--book cannot be combined with --watch")
	}
	return nil
}

func runFind(ctx context.Context, f *finder.Finder, q finder.Query, bookTitle string, asJSON bool, out io.Writer) error {
	result, err := f.Find(ctx, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if bookTitle != "" {
		if _, err := f.Book(ctx, q, result, bookTitle); err != nil {
			return err
		}
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSlots(out, result)
	return nil
}

func printSlots(out io.Writer, result *finder.Result) {
	fmt.Fprintf(out, "Free slots on %s:\n", result.Day.Format("Monday, 2006-01-02"))
	if len(result.Slots) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, s := range result.Slots {
		fmt.Fprintf(out, "  %s - %s  (%d min)\n", s.Start.Format("15:04"), endLabel(s), s.Minutes)
	}
	if b := result.Booked; b != nil {
		verb := "Booked"
		if b.DryRun {
			verb = "Would book"
		}
		fmt.Fprintf(out, "%s %q at %s - %s (uid %s)\n", verb, b.Title, b.Start.Format("15:04"), b.End.Format("15:04"), b.UID)
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "Unavailable calendars: %s\n", strings.Join(result.Skipped, ", "))
	}
}

func endLabel(s finder.Slot) string {
	if s.End.Day() != s.Start.Day() && s.End.Hour() == 0 && s.End.Minute() == 0 {
		return "24:00"
	}
	return s.End.Format("15:04")
}

// buildSources creates a provider for every configured calendar. The CalDAV
// client is returned separately because it can also book.
func buildSources(c *cli.Context, logger *slog.Logger, loc *time.Location) ([]finder.Source, *caldav.Client, error) {
	var sources []finder.Source

	for _, v := range c.StringSlice("ics") {
		owner, path := parseICSFlag(v)
		sources = append(sources, finder.Source{Provider: icsfile.NewFile(logger, path, loc), Owner: owner})
	}

	var calDAV *caldav.Client
	if c.Bool("caldav") {
		var err error
		calDAV, err = caldav.NewClient(c.Context, logger, os.Getenv("CALDAV_ENDPOINT"), os.Getenv("CALDAV_USERNAME"),
			os.Getenv("CALDAV_PASSWORD"), os.Getenv("CALDAV_CALENDAR_NAME"), loc)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create caldav client: %w", err)
		}
		sources = append(sources, finder.Source{Provider: calDAV, Owner: os.Getenv("CALDAV_USERNAME")})
	}

	calendarIDs := splitIDs(c.StringSlice("google-calendar"))
	freeBusyIDs := splitIDs(c.StringSlice("google-freebusy"))
	if len(calendarIDs) > 0 || len(freeBusyIDs) > 0 {
		clients, err := googleClients(c.Context, logger)
		if err != nil {
			return nil, nil, err
		}
		for _, client := range clients {
			for _, id := range calendarIDs {
				sources = append(sources, finder.Source{Provider: &google.EventsProvider{Client: client, CalendarID: id}, Owner: id})
			}
			if len(freeBusyIDs) > 0 {
				sources = append(sources, finder.Source{Provider: &google.FreeBusyProvider{Client: client, CalendarIDs: freeBusyIDs}})
			}
		}
	}
	return sources, calDAV, nil
}

// googleClients loads a client for every token saved by the auth command.
func googleClients(ctx context.Context, logger *slog.Logger) ([]*google.CalendarClient, error) {
	accounts, err := google.GetTokenAccounts(".")
	if err != nil {
		return nil, fmt.Errorf("could not find any google accounts, did you run auth command? %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no google accounts found. Run the 'auth' command first")
	}

	var clients []*google.CalendarClient
	for _, acc := range accounts {
		client, err := google.NewClient(ctx, logger, os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"), acc)
		if err != nil {
			return nil, fmt.Errorf("failed to create google client for account %s: %w", acc, err)
		}
		clients = append(clients, client)
	}
	logger.Info("Initialized Google clients for all accounts.", "count", len(clients))
	return clients, nil
}

// parseICSFlag splits "owner=path". Without '=' the whole value is the path.
func parseICSFlag(v string) (owner, path string) {
	if i := strings.Index(v, "="); i > 0 {
		return strings.TrimSpace(v[:i]), strings.TrimSpace(v[i+1:])
	}
	return "", strings.TrimSpace(v)
}

// splitIDs accepts both repeated flags and comma separated lists.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func setupLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
	}))
}
