package finder

import (
	"time"

	"slotfinder/internal/models"
	"slotfinder/internal/scheduling"
)

// Project maps e onto the day [dayStart, dayEnd) as a busy range. Parts of the
// event outside the day are clipped. It reports false when e does not block
// anybody on that day.
func Project(e *models.Event, owner string, dayStart, dayEnd time.Time) (scheduling.Event, bool) {
	if !e.Blocks() || !e.StartTime.Before(dayEnd) || !e.EndTime.After(dayStart) {
		return scheduling.Event{}, false
	}

	start := minuteOf(e.StartTime, dayStart, dayEnd, false)
	end := minuteOf(e.EndTime, dayStart, dayEnd, true)
	when, err := scheduling.NewTimeRange(start, end)
	if err != nil || when.Duration() == 0 {
		return scheduling.Event{}, false
	}

	attendees := normalize(e.Participants())
	if owner != "" {
		attendees = append(attendees, normalize([]string{owner})...)
	}
	return scheduling.NewEvent(e.Title, when, attendees...), true
}

// minuteOf converts t to a minute of the day using the wall clock of the
// day's location. roundUp rounds partial minutes up rather than down.
func minuteOf(t, dayStart, dayEnd time.Time, roundUp bool) int {
	if !t.After(dayStart) {
		return scheduling.StartOfDay
	}
	if !t.Before(dayEnd) {
		return scheduling.EndOfDay
	}
	local := t.In(dayStart.Location())
	m := local.Hour()*60 + local.Minute()
	if roundUp && (local.Second() > 0 || local.Nanosecond() > 0) {
		m++
	}
	return min(m, scheduling.EndOfDay)
}

func wallClock(dayStart time.Time, minute int) time.Time {
	y, m, d := dayStart.Date()
	return time.Date(y, m, d, 0, minute, 0, 0, dayStart.Location())
}
