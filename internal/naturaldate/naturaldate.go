// Package naturaldate turns user input such as "tomorrow" or "next friday"
// into the calendar day it refers to.
package naturaldate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const isoDate = "2006-01-02"

var ErrUnrecognized = errors.New("unrecognized date")

// Parser resolves dates relative to the current time of its clock.
type Parser struct {
	clock clockwork.Clock
	when  *when.Parser
}

func NewParser(clock clockwork.Clock) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{clock: clock, when: w}
}

// Day returns midnight, in loc, of the day text refers to. An empty text
// means today.
func (p *Parser) Day(text string, loc *time.Location) (time.Time, error) {
	now := p.clock.Now().In(loc)
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "today") {
		return StartOfDay(now), nil
	}
	if t, err := time.ParseInLocation(isoDate, text, loc); err == nil {
		return t, nil
	}

	r, err := p.when.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", text, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, text)
	}
	return StartOfDay(r.Time.In(loc)), nil
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
