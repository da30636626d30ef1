package scheduling

import "slices"

// Event is an existing calendar entry that keeps its attendees busy.
type Event struct {
	name      string
	when      TimeRange
	attendees map[string]struct{}
}

// NewEvent builds an event. Duplicate attendees collapse into one.
func NewEvent(name string, when TimeRange, attendees ...string) Event {
	set := make(map[string]struct{}, len(attendees))
	for _, a := range attendees {
		set[a] = struct{}{}
	}
	return Event{name: name, when: when, attendees: set}
}

func (e Event) Name() string    { return e.name }
func (e Event) When() TimeRange { return e.when }

func (e Event) HasAttendee(a string) bool {
	_, ok := e.attendees[a]
	return ok
}

// Attendees returns the attendee identifiers in sorted order.
func (e Event) Attendees() []string {
	out := make([]string, 0, len(e.attendees))
	for a := range e.attendees {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// HasAnyAttendee reports whether at least one member of set attends e.
func (e Event) HasAnyAttendee(set map[string]struct{}) bool {
	small, large := e.attendees, set
	if len(large) < len(small) {
		small, large = large, small
	}
	for a := range small {
		if _, ok := large[a]; ok {
			return true
		}
	}
	return false
}
