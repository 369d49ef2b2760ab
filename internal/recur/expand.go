// Package recur turns recurring entries into entries with concrete dates so
// the classifier only ever sees plain date lists.
package recur

import (
	"errors"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "wildsl/internal/log"
	"wildsl/internal/model"
	"wildsl/internal/schedule"
)

const (
	defaultHorizonDays    = 365
	defaultMaxOccurrences = 500
)

// Config controls how recurrence expansion is performed.
type Config struct {
	// Location is where calendar dates are interpreted. If nil, time.Local
	// is used.
	Location *time.Location

	// HorizonDays bounds expansion to [DTSTART, DTSTART+HorizonDays].
	HorizonDays int

	// MaxOccurrences caps the dates generated per entry.
	MaxOccurrences int
}

// Result wraps the expanded entries and the IDs that hit the cap.
type Result struct {
	Entries   []model.Entry
	Truncated []model.ID
}

// Expand returns a copy of entries in which every entry carrying a
// Recurrence rule has its occurrences appended to Dates. DTSTART is the
// entry's earliest date. Entries without a rule, without a resolvable
// start, or with an unparsable rule are returned unchanged.
func Expand(entries []model.Entry, cfg Config) Result {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = defaultHorizonDays
	}
	if cfg.MaxOccurrences <= 0 {
		cfg.MaxOccurrences = defaultMaxOccurrences
	}

	res := Result{Entries: make([]model.Entry, 0, len(entries))}
	for _, e := range entries {
		if strings.TrimSpace(e.Recurrence) == "" {
			res.Entries = append(res.Entries, e)
			continue
		}
		expanded, hitCap, err := expandEntry(e, cfg)
		if err != nil {
			appLog.Error("recur: leaving entry unexpanded", err, "id", string(e.ID), "rule", e.Recurrence)
			res.Entries = append(res.Entries, e)
			continue
		}
		if hitCap {
			res.Truncated = append(res.Truncated, e.ID)
			appLog.Error("recur: truncated occurrences due to cap",
				errors.New("max occurrences reached"),
				"id", string(e.ID),
				"cap", cfg.MaxOccurrences,
			)
		}
		res.Entries = append(res.Entries, expanded)
	}
	return res
}

func expandEntry(e model.Entry, cfg Config) (model.Entry, bool, error) {
	start, ok := earliestDate(e, cfg.Location)
	if !ok {
		return e, false, errors.New("recurrence needs at least one valid date as DTSTART")
	}

	rule := strings.TrimSpace(e.Recurrence)
	rule = strings.TrimPrefix(rule, "RRULE:")
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return e, false, err
	}
	r.DTStart(start)

	end := start.AddDate(0, 0, cfg.HorizonDays)
	occ := r.Between(start, end, true)

	hitCap := false
	if len(occ) > cfg.MaxOccurrences {
		occ = occ[:cfg.MaxOccurrences]
		hitCap = true
	}

	existing := e.DateStrings()
	seen := make(map[string]struct{}, len(existing)+len(occ))
	dates := make([]string, 0, len(existing)+len(occ))
	for _, d := range existing {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	for _, t := range occ {
		d := t.In(cfg.Location).Format(time.DateOnly)
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}

	e.Dates = dates
	return e, hitCap, nil
}

func earliestDate(e model.Entry, loc *time.Location) (time.Time, bool) {
	var first time.Time
	found := false
	for _, s := range e.DateStrings() {
		t, err := schedule.ParseDate(s, loc)
		if err != nil {
			continue
		}
		if !found || t.Before(first) {
			first = t
			found = true
		}
	}
	return first, found
}
