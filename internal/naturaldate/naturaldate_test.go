package naturaldate

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturday afternoon.
var now = time.Date(2026, 10, 17, 15, 4, 0, 0, time.UTC)

func TestParser_Day(t *testing.T) {
	p := NewParser(clockwork.NewFakeClockAt(now))

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)},
		{"2026-12-01", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.Day(tt.input, time.UTC)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParser_DayUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	p := NewParser(clockwork.NewFakeClockAt(now))

	got, err := p.Day("today", tokyo)
	require.NoError(t, err)

	// 15:04 UTC is already the next day in Tokyo.
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, tokyo), got)
}

func TestParser_DayUnrecognized(t *testing.T) {
	p := NewParser(clockwork.NewFakeClockAt(now))

	_, err := p.Day("banana", time.UTC)
	require.ErrorIs(t, err, ErrUnrecognized)
}
