package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Blocks(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{"confirmed", Event{StartTime: start, EndTime: start.Add(time.Hour), Status: "CONFIRMED"}, true},
		{"no status", Event{StartTime: start, EndTime: start.Add(time.Hour)}, true},
		{"cancelled", Event{StartTime: start, EndTime: start.Add(time.Hour), Status: StatusCancelled}, false},
		{"transparent", Event{StartTime: start, EndTime: start.Add(time.Hour), Transparent: true}, false},
		{"empty", Event{StartTime: start, EndTime: start}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Blocks())
		})
	}
}

func TestEvent_Participants(t *testing.T) {
	e := Event{Organizer: "boss@example.com", Attendees: []string{"a@example.com", "", "b@example.com"}}

	assert.Equal(t, []string{"boss@example.com", "a@example.com", "b@example.com"}, e.Participants())
}
