package scheduling

import "slices"

// FindMeetingTimes returns the free ranges of the day, sorted by start, in
// which request could be held given events.
//
// Mandatory and optional attendees are honoured together first. When that
// leaves nothing and at least one attendee is mandatory, the optional ones
// are dropped and the query is repeated.
func FindMeetingTimes(events []Event, request MeetingRequest) []TimeRange {
	everyone := attendeeSet(request.mandatory, request.optional)
	slots := freeFor(events, everyone, request.duration)
	if len(slots) > 0 || len(request.mandatory) == 0 {
		return slots
	}
	return freeFor(events, attendeeSet(request.mandatory), request.duration)
}

func freeFor(events []Event, attendees map[string]struct{}, duration int) []TimeRange {
	var busy []TimeRange
	for _, e := range events {
		if e.HasAnyAttendee(attendees) {
			busy = append(busy, e.when)
		}
	}
	return FreeRanges(Merge(busy), duration)
}

// Merge collapses overlapping and back-to-back ranges. The result is sorted,
// disjoint and non-adjacent. The input is not modified.
func Merge(ranges []TimeRange) []TimeRange {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, TimeRange.Compare)

	merged := make([]TimeRange, 0, len(sorted))
	for _, r := range sorted {
		if len(merged) == 0 {
			merged = append(merged, r)
			continue
		}
		last := &merged[len(merged)-1]
		switch {
		case last.Contains(r):
			// absorbed
		case r.start <= last.end:
			last.end = max(last.end, r.end)
		default:
			merged = append(merged, r)
		}
	}
	return merged
}

// FreeRanges returns the gaps of the day around busy that last at least
// duration minutes. busy must be the output of Merge. With a zero duration
// even empty gaps qualify.
func FreeRanges(busy []TimeRange, duration int) []TimeRange {
	free := []TimeRange{}
	start := StartOfDay
	for _, b := range busy {
		if fits(start, b.start, duration) {
			free = append(free, TimeRange{start: start, end: b.start})
		}
		start = b.end
	}
	if fits(start, EndOfDay, duration) {
		free = append(free, TimeRange{start: start, end: EndOfDay})
	}
	return free
}

func fits(start, end, duration int) bool {
	return end-start >= duration
}

func attendeeSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, l := range lists {
		for _, a := range l {
			set[a] = struct{}{}
		}
	}
	return set
}
