package icsfile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"slotfinder/internal/models"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

const (
	propTransparency = "TRANSP"
	paramPartStat    = "PARTSTAT"
	transparent      = "TRANSPARENT"
	declined         = "DECLINED"
)

// File reads events from a local iCalendar file.
type File struct {
	path   string
	loc    *time.Location
	logger *slog.Logger
}

// NewFile returns a provider for the .ics file at path. Floating times are
// read in loc.
func NewFile(logger *slog.Logger, path string, loc *time.Location) *File {
	return &File{path: path, loc: loc, logger: logger}
}

func (f *File) Name() string { return "ics:" + f.path }

// Events returns the events of the file that intersect [start, end).
func (f *File) Events(ctx context.Context, start, end time.Time) ([]*models.Event, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	events, err := Parse(file, f.Name(), start, end, f.loc)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("Read events from calendar file", "path", f.path, "count", len(events))
	return events, nil
}

// Parse decodes every calendar in r and returns the events that intersect
// [start, end), with recurring events expanded.
func Parse(r io.Reader, source string, start, end time.Time, loc *time.Location) ([]*models.Event, error) {
	dec := ical.NewDecoder(r)
	var events []*models.Event
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}
		got, err := FromCalendar(cal, source, start, end, loc)
		if err != nil {
			return nil, err
		}
		events = append(events, got...)
	}
	return events, nil
}

// FromCalendar converts the VEVENTs of cal into events intersecting [start, end).
// A VEVENT carrying RECURRENCE-ID replaces the matching occurrence of its
// recurring master.
func FromCalendar(cal *ical.Calendar, source string, start, end time.Time, loc *time.Location) ([]*models.Event, error) {
	overrides := make(map[string]bool)
	for _, ev := range cal.Events() {
		prop := ev.Props.Get(ical.PropRecurrenceID)
		if prop == nil {
			continue
		}
		rid, err := prop.DateTime(loc)
		if err != nil {
			return nil, fmt.Errorf("invalid RECURRENCE-ID: %w", err)
		}
		overrides[occurrenceKey(uidOf(ev.Component), rid)] = true
	}

	var events []*models.Event
	for _, ev := range cal.Events() {
		base, err := toEvent(ev, source, loc)
		if err != nil {
			return nil, err
		}

		set, err := ev.RecurrenceSet(loc)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrence for event %q: %w", base.Title, err)
		}
		if set == nil || ev.Props.Get(ical.PropRecurrenceID) != nil {
			if intersects(base, start, end) {
				events = append(events, base)
			}
			continue
		}

		for _, occ := range Expand(set, base.EndTime.Sub(base.StartTime), start, end) {
			if overrides[occurrenceKey(base.UID, occ)] {
				continue
			}
			instance := *base
			instance.ID = base.UID + "-" + occ.Format(time.RFC3339)
			instance.EndTime = occ.Add(base.EndTime.Sub(base.StartTime))
			instance.StartTime = occ
			events = append(events, &instance)
		}
	}
	return events, nil
}

// Expand returns the occurrence starts of set whose span of length d
// intersects [start, end).
func Expand(set *rrule.Set, d time.Duration, start, end time.Time) []time.Time {
	var out []time.Time
	for _, occ := range set.Between(start.Add(-d), end, true) {
		if occ.Add(d).After(start) && occ.Before(end) {
			out = append(out, occ)
		}
	}
	return out
}

func toEvent(ev ical.Event, source string, loc *time.Location) (*models.Event, error) {
	e := &models.Event{
		UID:    uidOf(ev.Component),
		Source: source,
	}
	e.ID = e.UID
	if p := ev.Props.Get(ical.PropSummary); p != nil {
		e.Title = p.Value
	}
	if p := ev.Props.Get(ical.PropStatus); p != nil {
		e.Status = strings.ToUpper(p.Value)
	}
	if p := ev.Props.Get(propTransparency); p != nil {
		e.Transparent = strings.EqualFold(p.Value, transparent)
	}

	startProp := ev.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil, fmt.Errorf("event %q has no DTSTART", e.Title)
	}
	var err error
	e.AllDay = startProp.ValueType() == ical.ValueDate
	if e.StartTime, err = ev.DateTimeStart(loc); err != nil {
		return nil, fmt.Errorf("invalid DTSTART for event %q: %w", e.Title, err)
	}
	if e.EndTime, err = ev.DateTimeEnd(loc); err != nil {
		return nil, fmt.Errorf("invalid DTEND for event %q: %w", e.Title, err)
	}
	if e.EndTime.IsZero() || e.EndTime.Before(e.StartTime) {
		e.EndTime = e.StartTime
		if e.AllDay {
			e.EndTime = e.StartTime.AddDate(0, 0, 1)
		}
	}

	if p := ev.Props.Get(ical.PropOrganizer); p != nil {
		e.Organizer = address(p.Value)
	}
	for _, p := range ev.Props.Values(ical.PropAttendee) {
		if strings.EqualFold(p.Params.Get(paramPartStat), declined) {
			continue
		}
		e.Attendees = append(e.Attendees, address(p.Value))
	}
	return e, nil
}

func uidOf(comp *ical.Component) string {
	if p := comp.Props.Get(ical.PropUID); p != nil {
		return p.Value
	}
	return ""
}

func occurrenceKey(uid string, t time.Time) string {
	return uid + "|" + t.UTC().Format(time.RFC3339)
}

func intersects(e *models.Event, start, end time.Time) bool {
	return e.StartTime.Before(end) && e.EndTime.After(start)
}

// address strips a mailto: prefix and lowercases the address.
func address(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 7 && strings.EqualFold(v[:7], "mailto:") {
		v = v[7:]
	}
	return strings.ToLower(v)
}
