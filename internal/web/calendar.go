package web

import (
	"fmt"
	"net/http"

	ical "github.com/arran4/golang-ical"
)

const calendarProductID = "-//Wild Sri Lanka//wildsl events//EN"

// renderCalendar serves GET /events.ics: one all-day VEVENT for every
// remaining day of every upcoming event.
func (s *Server) renderCalendar(r *http.Request) response {
	entries, fallback := s.docs.Events(r.Context())
	ref := s.events.Now()
	today := s.events.Midnight(ref)
	part := s.events.Classify(entries, ref)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Wild Sri Lanka events")
	cal.SetXWRTimezone(s.events.Location().String())

	stamp := ref.UTC()
	seen := make(map[string]struct{})
	for _, e := range part.Upcoming {
		for _, d := range s.events.ResolveDates(e) {
			if d.Before(today) {
				continue
			}
			uid := fmt.Sprintf("%s-%s@wildsl", e.ID, d.Format("20060102"))
			if _, dup := seen[uid]; dup {
				continue
			}
			seen[uid] = struct{}{}

			ev := cal.AddEvent(uid)
			ev.SetDtStampTime(stamp)
			ev.SetSummary(e.Title)
			ev.SetAllDayStartAt(d)
			ev.SetAllDayEndAt(d.AddDate(0, 0, 1))
			if e.Description != "" {
				ev.SetDescription(e.Description)
			}
			if e.Location != "" {
				ev.SetLocation(e.Location)
			}
			if e.Category != "" {
				ev.AddCategory(e.Category)
			}
		}
	}

	resp := response{
		status:      http.StatusOK,
		contentType: "text/calendar; charset=utf-8",
		body:        []byte(cal.Serialize()),
	}
	if fallback {
		// Feeds built from the fallback payload are not authoritative.
		resp.status = http.StatusServiceUnavailable
	}
	return resp
}
