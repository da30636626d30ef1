package google

import (
	"context"
	"time"

	"slotfinder/internal/models"
)

// EventsProvider reads the events of one calendar.
type EventsProvider struct {
	Client     *CalendarClient
	CalendarID string
}

func (p *EventsProvider) Name() string { return "google-" + p.CalendarID }

func (p *EventsProvider) Events(ctx context.Context, start, end time.Time) ([]*models.Event, error) {
	return p.Client.ListEvents(ctx, p.CalendarID, start, end)
}

// FreeBusyProvider reads busy periods of several calendars in one request.
// Calendars shared as free/busy only are visible this way.
type FreeBusyProvider struct {
	Client      *CalendarClient
	CalendarIDs []string
}

func (p *FreeBusyProvider) Name() string { return "google-freebusy" }

func (p *FreeBusyProvider) Events(ctx context.Context, start, end time.Time) ([]*models.Event, error) {
	return p.Client.QueryFreeBusy(ctx, p.CalendarIDs, start, end)
}
