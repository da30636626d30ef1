package caldav

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotfinder/internal/icsfile"
	"slotfinder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_RoundTrip(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	event := &models.Event{
		UID:       "b7a1c2e4-0000-4000-8000-000000000001",
		Title:     "Design review",
		StartTime: start,
		EndTime:   start.Add(45 * time.Minute),
		Attendees: []string{"alice@example.com", "bob@example.com"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, event))
	assert.Contains(t, buf.String(), "PRODID:"+productID)

	events, err := icsfile.Parse(&buf, "roundtrip", start.Add(-time.Hour), start.Add(time.Hour), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.Equal(t, event.UID, got.UID)
	assert.Equal(t, event.Title, got.Title)
	assert.True(t, start.Equal(got.StartTime))
	assert.True(t, event.EndTime.Equal(got.EndTime))
	assert.Equal(t, event.Attendees, got.Attendees)
}

func TestCustomTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "app-password", pass)
		assert.Equal(t, "slotfinder/1.0", r.Header.Get("User-Agent"))
	}))
	t.Cleanup(srv.Close)

	client := &http.Client{Transport: &customTransport{
		Username:  "me@example.com",
		Password:  "app-password",
		Transport: http.DefaultTransport,
	}}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
