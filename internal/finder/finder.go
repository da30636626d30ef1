package finder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"slotfinder/internal/models"
	"slotfinder/internal/naturaldate"
	"slotfinder/internal/scheduling"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrNoProviders = errors.New("no calendar providers configured")
	ErrNoSlot      = errors.New("no free slot for the meeting")
)

// Provider supplies the events of one calendar.
type Provider interface {
	Name() string
	Events(ctx context.Context, start, end time.Time) ([]*models.Event, error)
}

// Booker writes a new event to a calendar.
type Booker interface {
	BookEvent(ctx context.Context, event *models.Event) error
}

// Source is a provider together with the person whose calendar it is. The
// owner counts as an attendee of every event the provider returns.
type Source struct {
	Provider Provider
	Owner    string
}

// Query describes the meeting to place.
type Query struct {
	Day       time.Time // Any instant of the day; its location is used for projection
	Mandatory []string
	Optional  []string
	Duration  int  // Minutes
	SkipPast  bool // Treat the elapsed part of today as busy
}

// Slot is a candidate range rendered back onto the wall clock.
type Slot struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
}

// Result is the outcome of a single Find.
type Result struct {
	Day     time.Time `json:"day"`
	Slots   []Slot    `json:"slots"`
	Events  int       `json:"events"`
	Skipped []string  `json:"skipped,omitempty"` // Providers that failed
	Booked  *Booking  `json:"booked,omitempty"`
}

// Booking describes the meeting created by Book.
type Booking struct {
	UID    string    `json:"uid"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	DryRun bool      `json:"dryRun,omitempty"`
}

// Finder gathers events from its sources and resolves free slots.
type Finder struct {
	logger  *slog.Logger
	sources []Source
	booker  Booker
	clock   clockwork.Clock
	dryRun  bool
}

// New creates a Finder. booker may be nil when booking is not needed.
func New(logger *slog.Logger, sources []Source, booker Booker, clock clockwork.Clock, dryRun bool) (*Finder, error) {
	if len(sources) == 0 {
		return nil, ErrNoProviders
	}
	return &Finder{
		logger:  logger,
		sources: sources,
		booker:  booker,
		clock:   clock,
		dryRun:  dryRun,
	}, nil
}

// Find runs q against the current contents of every source.
func (f *Finder) Find(ctx context.Context, q Query) (*Result, error) {
	request, err := scheduling.NewMeetingRequest(normalize(q.Mandatory), normalize(q.Optional), q.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid meeting request: %w", err)
	}

	dayStart := naturaldate.StartOfDay(q.Day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	f.logger.Info("Searching for free slots.", "day", dayStart.Format("2006-01-02"), "duration", q.Duration,
		"mandatory", q.Mandatory, "optional", q.Optional)

	result := &Result{Day: dayStart}
	var busy []scheduling.Event
	for _, src := range f.sources {
		events, err := src.Provider.Events(ctx, dayStart, dayEnd)
		if err != nil {
			// Keep going with the remaining calendars.
			f.logger.Error("Could not fetch events from a provider", "provider", src.Provider.Name(), "error", err)
			result.Skipped = append(result.Skipped, src.Provider.Name())
			continue
		}
		f.logger.Debug("Fetched events.", "provider", src.Provider.Name(), "count", len(events))

		for _, e := range events {
			if ev, ok := Project(e, src.Owner, dayStart, dayEnd); ok {
				busy = append(busy, ev)
			}
		}
	}
	if len(result.Skipped) == len(f.sources) {
		return nil, fmt.Errorf("all %d providers failed", len(f.sources))
	}

	if q.SkipPast {
		if elapsed, ok := f.elapsed(dayStart, dayEnd, request); ok {
			busy = append(busy, elapsed)
		}
	}
	result.Events = len(busy)

	for _, r := range scheduling.FindMeetingTimes(busy, request) {
		result.Slots = append(result.Slots, Slot{
			Start:   wallClock(dayStart, r.Start()),
			End:     wallClock(dayStart, r.End()),
			Minutes: r.Duration(),
		})
	}
	f.logger.Info("Search finished.", "busy", len(busy), "slots", len(result.Slots))
	return result, nil
}

// Book creates an event lasting q.Duration at the start of the first slot of
// result and records it in result.Booked.
func (f *Finder) Book(ctx context.Context, q Query, result *Result, title string) (*models.Event, error) {
	if f.booker == nil {
		return nil, errors.New("no calendar configured for booking")
	}
	if len(result.Slots) == 0 {
		return nil, ErrNoSlot
	}

	slot := result.Slots[0]
	event := &models.Event{
		UID:       uuid.New().String(),
		Title:     title,
		StartTime: slot.Start,
		EndTime:   slot.Start.Add(time.Duration(q.Duration) * time.Minute),
		Attendees: append(normalize(q.Mandatory), normalize(q.Optional)...),
		Source:    "slotfinder",
	}
	event.ID = event.UID

	booking := &Booking{UID: event.UID, Title: title, Start: event.StartTime, End: event.EndTime, DryRun: f.dryRun}

	if f.dryRun {
		f.logger.Info("[DRY RUN] Would book meeting", "title", title, "startTime", event.StartTime)
		result.Booked = booking
		return event, nil
	}
	if err := f.booker.BookEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to book meeting: %w", err)
	}
	f.logger.Info("Booked meeting.", "title", title, "startTime", event.StartTime, "uid", event.UID)
	result.Booked = booking
	return event, nil
}

// elapsed returns a busy event covering today up to now for every attendee
// of request. It reports false on any other day and at midnight.
func (f *Finder) elapsed(dayStart, dayEnd time.Time, request scheduling.MeetingRequest) (scheduling.Event, bool) {
	now := f.clock.Now()
	if now.Before(dayStart) || !now.Before(dayEnd) {
		return scheduling.Event{}, false
	}
	past, err := scheduling.NewTimeRange(scheduling.StartOfDay, minuteOf(now, dayStart, dayEnd, true))
	if err != nil || past.Duration() == 0 {
		return scheduling.Event{}, false
	}
	attendees := append(request.Mandatory(), request.Optional()...)
	return scheduling.NewEvent("elapsed", past, attendees...), true
}

func normalize(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id = strings.ToLower(strings.TrimSpace(id)); id != "" {
			out = append(out, id)
		}
	}
	return out
}
