package scheduling

import (
	"fmt"
	"slices"
)

// MeetingRequest describes the meeting to be placed.
type MeetingRequest struct {
	mandatory []string
	optional  []string
	duration  int
}

// NewMeetingRequest validates duration and copies both attendee lists.
// Optional attendees may repeat mandatory ones.
func NewMeetingRequest(mandatory, optional []string, duration int) (MeetingRequest, error) {
	if duration < 0 || duration > EndOfDay {
		return MeetingRequest{}, fmt.Errorf("%w: duration %d is outside [0, %d]", ErrInvalidArgument, duration, EndOfDay)
	}
	return MeetingRequest{
		mandatory: slices.Clone(mandatory),
		optional:  slices.Clone(optional),
		duration:  duration,
	}, nil
}

func (r MeetingRequest) Mandatory() []string { return slices.Clone(r.mandatory) }
func (r MeetingRequest) Optional() []string  { return slices.Clone(r.optional) }
func (r MeetingRequest) Duration() int       { return r.duration }
