package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"slotfinder/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	credentialsFile = "credentials.json"
	allDayLayout    = "2006-01-02"
)

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
	account string
}

// NewClient creates a new Google Calendar client.
// It handles loading credentials and setting up an authenticated HTTP client.
// It supports multiple accounts by looking for token files like token-user1.json, token-user2.json, etc.
// The accountName is used to find the correct token file.
func NewClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, accountName string) (*CalendarClient, error) {
	config, err := getOAuthConfig(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	tokenFile := fmt.Sprintf("token-%s.json", accountName)
	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token for account %s: %w. Please run the 'auth' command first", accountName, err)
	}

	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return newClient(service, logger, accountName), nil
}

func newClient(service *calendar.Service, logger *slog.Logger, account string) *CalendarClient {
	return &CalendarClient{service: service, logger: logger, account: account}
}

// Account returns the name of the token the client was created with.
func (c *CalendarClient) Account() string { return c.account }

// ListEvents fetches the events of a calendar that intersect [start, end).
// Recurring events are returned as single instances.
func (c *CalendarClient) ListEvents(ctx context.Context, calendarID string, start, end time.Time) ([]*models.Event, error) {
	c.logger.Debug("Fetching events", "calendarID", calendarID, "start", start, "end", end)

	var items []*calendar.Event
	err := c.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			items = append(items, page.Items...)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	c.logger.Info("Successfully fetched events from Google Calendar", "count", len(items), "calendarID", calendarID)
	return c.toInternalEvents(items, calendarID, start.Location()), nil
}

// QueryFreeBusy asks the Free/Busy API for the busy periods of each calendar
// in ids. Every busy period becomes an event attended by its calendar id.
func (c *CalendarClient) QueryFreeBusy(ctx context.Context, ids []string, start, end time.Time) ([]*models.Event, error) {
	req := &calendar.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
	}
	for _, id := range ids {
		req.Items = append(req.Items, &calendar.FreeBusyRequestItem{Id: id})
	}

	resp, err := c.service.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query free/busy: %w", err)
	}

	var events []*models.Event
	for _, id := range ids {
		cal, ok := resp.Calendars[id]
		if !ok {
			continue
		}
		if len(cal.Errors) > 0 {
			return nil, fmt.Errorf("free/busy for %s failed: %s", id, cal.Errors[0].Reason)
		}
		for _, period := range cal.Busy {
			startTime, err := time.Parse(time.RFC3339, period.Start)
			if err != nil {
				return nil, fmt.Errorf("invalid busy start %q: %w", period.Start, err)
			}
			endTime, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				return nil, fmt.Errorf("invalid busy end %q: %w", period.End, err)
			}
			events = append(events, &models.Event{
				Title:     "busy",
				StartTime: startTime,
				EndTime:   endTime,
				Attendees: []string{id},
				Source:    "google-freebusy",
			})
		}
	}
	c.logger.Info("Successfully queried Google free/busy", "calendars", len(ids), "busy", len(events))
	return events, nil
}

// toInternalEvents converts Google Calendar events to the internal Event model.
// All-day events are placed in loc.
func (c *CalendarClient) toInternalEvents(googleEvents []*calendar.Event, source string, loc *time.Location) []*models.Event {
	var internalEvents []*models.Event
	for _, item := range googleEvents {
		if item.Start == nil || item.End == nil {
			continue
		}

		event := &models.Event{
			ID:          item.Id,
			Title:       item.Summary,
			Status:      strings.ToUpper(item.Status),
			Transparent: item.Transparency == "transparent",
			UID:         item.ICalUID,
			Source:      fmt.Sprintf("google-%s", source),
		}

		var err error
		if item.Start.DateTime != "" {
			event.StartTime, err = time.Parse(time.RFC3339, item.Start.DateTime)
			if err == nil {
				event.EndTime, err = time.Parse(time.RFC3339, item.End.DateTime)
			}
		} else {
			event.AllDay = true
			event.StartTime, err = time.ParseInLocation(allDayLayout, item.Start.Date, loc)
			if err == nil {
				event.EndTime, err = time.ParseInLocation(allDayLayout, item.End.Date, loc)
			}
		}
		if err != nil {
			c.logger.Warn("Skipping event with unreadable time", "title", item.Summary, "error", err)
			continue
		}

		if item.Organizer != nil {
			event.Organizer = item.Organizer.Email
		}
		for _, a := range item.Attendees {
			if a.ResponseStatus == "declined" {
				continue
			}
			event.Attendees = append(event.Attendees, a.Email)
		}
		internalEvents = append(internalEvents, event)
	}
	return internalEvents
}

// GetOAuthConfigForAuthFlow is used by the auth command to get the config for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret)
}

// getOAuthConfig reads credentials and returns an OAuth2 config.
// It prioritizes environment variables over a local credentials.json file.
func getOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the root directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	return config, nil
}

// TokenFromWeb is called by the auth flow to retrieve a token.
func TokenFromWeb(ctx context.Context, config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(ctx, authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// DiscoverGoogleCalendars finds all calendars associated with the authenticated account.
func (c *CalendarClient) DiscoverGoogleCalendars(ctx context.Context) ([]string, error) {
	list, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendarIDs []string
	for _, item := range list.Items {
		calendarIDs = append(calendarIDs, item.Id)
	}
	return calendarIDs, nil
}

// GetTokenAccounts lists the account names of the token files in dir.
func GetTokenAccounts(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, file := range files {
		if strings.HasPrefix(file.Name(), "token-") && strings.HasSuffix(file.Name(), ".json") {
			accountName := strings.TrimSuffix(strings.TrimPrefix(file.Name(), "token-"), ".json")
			accounts = append(accounts, accountName)
		}
	}
	return accounts, nil
}
