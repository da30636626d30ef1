package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"slotfinder/internal/icsfile"
	"slotfinder/internal/models"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	gocaldav "github.com/emersion/go-webdav/caldav"
)

const (
	// DefaultEndpoint is used when no endpoint is configured.
	DefaultEndpoint = "https://caldav.icloud.com/"
	productID       = "-//slotfinder//EN"
)

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "slotfinder/1.0")
	return t.Transport.RoundTrip(req)
}

// Client reads and books events on one calendar of a CalDAV server.
type Client struct {
	caldavClient *gocaldav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	calendarPath string
	calendarName string
	loc          *time.Location
}

// NewClient connects to endpoint and looks up the calendar called calendarName.
// Floating times are read in loc.
func NewClient(ctx context.Context, logger *slog.Logger, endpoint, username, password, calendarName string, loc *time.Location) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := gocaldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	webdavClient, err := webdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
		calendarName: calendarName,
		loc:          loc,
	}

	logger.Info("Finding CalDAV calendar", "calendarName", calendarName, "endpoint", endpoint)
	calendarPath, err := c.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarPath = calendarPath
	logger.Info("Successfully found CalDAV calendar", "path", calendarPath)

	return c, nil
}

func (c *Client) Name() string { return "caldav:" + c.calendarName }

// Events returns the events of the calendar that intersect [start, end).
func (c *Client) Events(ctx context.Context, start, end time.Time) ([]*models.Event, error) {
	query := &gocaldav.CalendarQuery{
		CompRequest: gocaldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Props: []string{ical.PropVersion},
			Comps: []gocaldav.CalendarCompRequest{{
				Name:     ical.CompEvent,
				AllProps: true,
			}},
		},
		CompFilter: gocaldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []gocaldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: start.UTC(),
				End:   end.UTC(),
			}},
		},
	}

	objects, err := c.caldavClient.QueryCalendar(ctx, c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	var events []*models.Event
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		got, err := icsfile.FromCalendar(obj.Data, c.Name(), start, end, c.loc)
		if err != nil {
			c.logger.Warn("Skipping unreadable calendar object", "path", obj.Path, "error", err)
			continue
		}
		events = append(events, got...)
	}
	c.logger.Debug("Fetched CalDAV events", "objects", len(objects), "events", len(events))
	return events, nil
}

// BookEvent creates event in the calendar.
func (c *Client) BookEvent(ctx context.Context, event *models.Event) error {
	c.logger.Debug("Booking event on CalDAV", "eventTitle", event.Title, "uid", event.UID)

	eventPath := path.Join(c.calendarPath, fmt.Sprintf("%s.ics", event.UID))

	writer, err := c.webdavClient.Create(ctx, eventPath)
	if err != nil {
		return fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}

	if err := Encode(writer, event); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to upload event: %w", err)
	}

	c.logger.Info("Successfully booked event", "eventTitle", event.Title)
	return nil
}

// findCalendar discovers the user's calendars and returns the path of the one with the matching name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
