// Package schedule partitions time-bound entries into upcoming and past
// listings and orders them for display.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	appLog "wildsl/internal/log"
	"wildsl/internal/model"
)

// ErrMalformedDate wraps every date string that none of the accepted
// layouts can parse.
var ErrMalformedDate = errors.New("malformed date")

// Direction is the sort direction of a listing by anchor date.
type Direction string

const (
	Descending Direction = "descending"
	Ascending  Direction = "ascending"
)

// ParseDirection accepts "descending"/"desc" and "ascending"/"asc".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "descending", "desc":
		return Descending, nil
	case "ascending", "asc":
		return Ascending, nil
	default:
		return "", fmt.Errorf("schedule: unknown sort direction %q", s)
	}
}

// Policy is the display order of one listing type.
type Policy struct {
	Upcoming Direction
	Past     Direction
}

var (
	// EventsPolicy lists upcoming entries furthest-future first.
	EventsPolicy = Policy{Upcoming: Descending, Past: Descending}
	// ProjectsPolicy lists upcoming entries soonest first.
	ProjectsPolicy = Policy{Upcoming: Ascending, Past: Descending}
)

// Partition is the output of Classify. Every input entry is in exactly one
// of the two slices.
type Partition struct {
	Upcoming []model.Entry
	Past     []model.Entry
}

// Classifier resolves entry dates in a fixed location, which defines what
// "today" means.
type Classifier struct {
	loc    *time.Location
	policy Policy
	now    func() time.Time
}

// New returns a Classifier. A nil loc means time.Local; zero policy
// directions default to EventsPolicy.
func New(loc *time.Location, policy Policy) *Classifier {
	if loc == nil {
		loc = time.Local
	}
	if policy.Upcoming == "" {
		policy.Upcoming = EventsPolicy.Upcoming
	}
	if policy.Past == "" {
		policy.Past = EventsPolicy.Past
	}
	return &Classifier{loc: loc, policy: policy, now: time.Now}
}

// WithClock returns a copy of c that reads the current time from now.
func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	cp := *c
	cp.now = now
	return &cp
}

// WithPolicy returns a copy of c ordering listings by p.
func (c *Classifier) WithPolicy(p Policy) *Classifier {
	return New(c.loc, p).WithClock(c.now)
}

func (c *Classifier) Location() *time.Location { return c.loc }

func (c *Classifier) Policy() Policy { return c.policy }

// Now reads the classifier's clock.
func (c *Classifier) Now() time.Time { return c.now() }

// Today is local midnight of the current day.
func (c *Classifier) Today() time.Time {
	return c.Midnight(c.now())
}

// Midnight truncates t to 00:00 of its calendar day in the classifier's
// location.
func (c *Classifier) Midnight(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// ParseDate parses an ISO calendar date ("2025-05-10") as midnight in the
// classifier's location. Timestamps in RFC 3339 or without a zone are
// accepted too.
func (c *Classifier) ParseDate(s string) (time.Time, error) {
	return ParseDate(s, c.loc)
}

// ParseDate is the location-explicit form of Classifier.ParseDate.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrMalformedDate)
	}
	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", v, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

// ResolveDates returns the parsed dates of e. Malformed strings are logged
// at error level and skipped. Classify and Order resolve through here, so a
// listing reports each bad date once; the per-entry predicates below log
// only at debug level.
func (c *Classifier) ResolveDates(e model.Entry) []time.Time {
	return c.resolve(e, true)
}

func (c *Classifier) resolve(e model.Entry, report bool) []time.Time {
	raw := e.DateStrings()
	if len(raw) == 0 {
		return nil
	}
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		t, err := c.ParseDate(s)
		if err != nil {
			if report {
				appLog.Error("schedule: skipping malformed date", err, "id", string(e.ID), "title", e.Title)
			} else {
				appLog.Debug("schedule: skipping malformed date", "id", string(e.ID), "value", s)
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

// Anchor returns the earliest resolvable date of e.
func (c *Classifier) Anchor(e model.Entry) (time.Time, bool) {
	return earliest(c.resolve(e, false))
}

// IsToday reports whether any of e's dates falls on the calendar day of ref.
// A zero ref means now.
func (c *Classifier) IsToday(e model.Entry, ref time.Time) bool {
	day := c.reference(ref)
	for _, d := range c.resolve(e, false) {
		if c.Midnight(d).Equal(day) {
			return true
		}
	}
	return false
}

// AnyToday reports whether at least one entry is active on ref's day.
func (c *Classifier) AnyToday(entries []model.Entry, ref time.Time) bool {
	for _, e := range entries {
		if c.IsToday(e, ref) {
			return true
		}
	}
	return false
}

// IsUpcoming reports whether any of e's dates is at or after ref's midnight.
func (c *Classifier) IsUpcoming(e model.Entry, ref time.Time) bool {
	return upcoming(c.resolve(e, false), c.reference(ref))
}

// Classify splits entries into upcoming and past and orders each side by
// the classifier's policy. A zero ref means today. The input slice is not
// modified.
func (c *Classifier) Classify(entries []model.Entry, ref time.Time) Partition {
	day := c.reference(ref)

	var up, past []record
	for _, e := range entries {
		dates := c.ResolveDates(e)
		r := newRecord(e, dates)
		if upcoming(dates, day) {
			up = append(up, r)
		} else {
			past = append(past, r)
		}
	}

	return Partition{
		Upcoming: entriesOf(sortRecords(up, c.policy.Upcoming)),
		Past:     entriesOf(sortRecords(past, c.policy.Past)),
	}
}

// Order returns entries sorted by anchor date in the given direction.
// Equal anchors keep their input order; entries without any resolvable date
// come last.
func (c *Classifier) Order(entries []model.Entry, dir Direction) []model.Entry {
	recs := make([]record, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, newRecord(e, c.ResolveDates(e)))
	}
	return entriesOf(sortRecords(recs, dir))
}

func (c *Classifier) reference(ref time.Time) time.Time {
	if ref.IsZero() {
		ref = c.now()
	}
	return c.Midnight(ref)
}

type record struct {
	entry     model.Entry
	anchor    time.Time
	hasAnchor bool
}

func newRecord(e model.Entry, dates []time.Time) record {
	a, ok := earliest(dates)
	return record{entry: e, anchor: a, hasAnchor: ok}
}

func sortRecords(recs []record, dir Direction) []record {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.hasAnchor || !b.hasAnchor {
			return a.hasAnchor && !b.hasAnchor
		}
		if dir == Ascending {
			return a.anchor.Before(b.anchor)
		}
		return a.anchor.After(b.anchor)
	})
	return recs
}

func entriesOf(recs []record) []model.Entry {
	out := make([]model.Entry, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.entry)
	}
	return out
}

func upcoming(dates []time.Time, day time.Time) bool {
	for _, d := range dates {
		if !d.Before(day) {
			return true
		}
	}
	return false
}

func earliest(dates []time.Time) (time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, false
	}
	first := dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
	}
	return first, true
}
