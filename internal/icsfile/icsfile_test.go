package icsfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendar(lines ...string) string {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//slotfinder//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

func day(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func TestParse_SingleEvent(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:planning-1",
		"DTSTAMP:20261001T000000Z",
		"SUMMARY:Planning",
		"DTSTART:20261019T090000Z",
		"DTEND:20261019T103000Z",
		"ORGANIZER:mailto:Lead@Example.com",
		"ATTENDEE;PARTSTAT=ACCEPTED:mailto:alice@example.com",
		"ATTENDEE;PARTSTAT=DECLINED:mailto:bob@example.com",
		"END:VEVENT",
	)
	start, end := day(t)

	events, err := Parse(strings.NewReader(data), "test", start, end, time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "Planning", e.Title)
	assert.Equal(t, "planning-1", e.UID)
	assert.Equal(t, "test", e.Source)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), e.StartTime.UTC())
	assert.Equal(t, time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC), e.EndTime.UTC())
	assert.Equal(t, "lead@example.com", e.Organizer)
	assert.Equal(t, []string{"alice@example.com"}, e.Attendees)
	assert.True(t, e.Blocks())
}

func TestParse_FiltersToWindow(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:yesterday",
		"DTSTAMP:20261001T000000Z",
		"DTSTART:20261018T090000Z",
		"DTEND:20261018T100000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:overnight",
		"DTSTAMP:20261001T000000Z",
		"DTSTART:20261018T230000Z",
		"DTEND:20261019T010000Z",
		"END:VEVENT",
	)
	start, end := day(t)

	events, err := Parse(strings.NewReader(data), "test", start, end, time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "overnight", events[0].UID)
}

func TestParse_AllDayEvent(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:holiday",
		"DTSTAMP:20261001T000000Z",
		"DTSTART;VALUE=DATE:20261019",
		"SUMMARY:Holiday",
		"END:VEVENT",
	)
	start, end := day(t)

	events, err := Parse(strings.NewReader(data), "test", start, end, time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].AllDay)
	assert.Equal(t, 24*time.Hour, events[0].EndTime.Sub(events[0].StartTime))
}

func TestParse_TransparentAndCancelled(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:free",
		"DTSTAMP:20261001T000000Z",
		"DTSTART:20261019T090000Z",
		"DTEND:20261019T100000Z",
		"TRANSP:TRANSPARENT",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:cancelled",
		"DTSTAMP:20261001T000000Z",
		"DTSTART:20261019T110000Z",
		"DTEND:20261019T120000Z",
		"STATUS:CANCELLED",
		"END:VEVENT",
	)
	start, end := day(t)

	events, err := Parse(strings.NewReader(data), "test", start, end, time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.False(t, e.Blocks(), e.UID)
	}
}

func TestParse_ExpandsRecurringEvent(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:standup",
		"DTSTAMP:20261001T000000Z",
		"SUMMARY:Standup",
		"DTSTART:20261012T091500Z",
		"DTEND:20261012T093000Z",
		"RRULE:FREQ=DAILY;COUNT=30",
		"END:VEVENT",
	)
	start, end := day(t)

	events, err := Parse(strings.NewReader(data), "test", start, end, time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 15, 0, 0, time.UTC), events[0].StartTime.UTC())
	assert.Equal(t, time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC), events[0].EndTime.UTC())
	assert.Equal(t, "Standup", events[0].Title)
}

func TestParse_OverrideReplacesOccurrence(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:standup",
		"DTSTAMP:20261001T000000Z",
		"DTSTART:20261012T091500Z",
		"DTEND:20261012T093000Z",
		"RRULE:FREQ=DAILY;COUNT=30",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:standup",
		"DTSTAMP:20261001T000000Z",
		"RECURRENCE-ID:20261019T091500Z",
		"DTSTART:20261019T140000Z",
		"DTEND:20261019T141500Z",
		"END:VEVENT",
	)
	start, end := day(t)

	events, err := Parse(strings.NewReader(data), "test", start, end, time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 14, events[0].StartTime.UTC().Hour())
}

func TestFile_Events(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.ics")
	data := calendar(
		"BEGIN:VEVENT",
		"UID:review",
		"DTSTAMP:20261001T000000Z",
		"DTSTART:20261019T130000Z",
		"DTEND:20261019T140000Z",
		"END:VEVENT",
	)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	f := NewFile(slog.New(slog.NewTextHandler(io.Discard, nil)), path, time.UTC)
	start, end := day(t)

	events, err := f.Events(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ics:"+path, events[0].Source)
}

func TestFile_MissingFile(t *testing.T) {
	f := NewFile(slog.New(slog.NewTextHandler(io.Discard, nil)), filepath.Join(t.TempDir(), "nope.ics"), time.UTC)
	start, end := day(t)

	_, err := f.Events(context.Background(), start, end)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "a@example.com", address("MAILTO:A@example.com"))
	assert.Equal(t, "room-1", address(" room-1 "))
}
