package models

import "time"

// Event represents a calendar entry fetched from any provider.
// Providers convert their own representation into this one before the
// finder projects it onto a day.
type Event struct {
	ID          string    // Identifier within the source calendar
	Title       string    // Summary or title of the event
	StartTime   time.Time // Start time of the event
	EndTime     time.Time // End time of the event (exclusive)
	AllDay      bool      // Event was given as a date rather than a date-time
	Status      string    // iCalendar STATUS, e.g. "CONFIRMED" or "CANCELLED"
	Transparent bool      // Event does not block time (TRANSP:TRANSPARENT or Google "transparent")
	Organizer   string    // Organizer's email
	Attendees   []string  // List of attendee emails
	Source      string    // The source of the event (e.g., "ics:work.ics", "google-primary")
	UID         string    // The iCalendar UID
}

const StatusCancelled = "CANCELLED"

// Blocks reports whether the event makes its attendees unavailable.
func (e *Event) Blocks() bool {
	if e.Transparent || e.Status == StatusCancelled {
		return false
	}
	return e.EndTime.After(e.StartTime)
}

// Participants returns the organizer followed by the attendees, skipping blanks.
func (e *Event) Participants() []string {
	var out []string
	if e.Organizer != "" {
		out = append(out, e.Organizer)
	}
	for _, a := range e.Attendees {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
