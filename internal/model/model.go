package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque identifier. Documents use both JSON numbers (events,
// news) and strings (team members); both decode into the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integral IDs back as numbers so documents round-trip.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Entry is a time-bound listing item (event or project).
//
// Dates holds ISO calendar dates; Date is the legacy single-date field and
// is only consulted when Dates is empty. Everything besides the dates is
// display payload.
type Entry struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Dates       []string `json:"dates,omitempty"`
	Date        string   `json:"date,omitempty"`
	Location    string   `json:"location,omitempty"`
	Category    string   `json:"category,omitempty"`

	// Recurrence is an optional RRULE (e.g. "FREQ=MONTHLY;COUNT=6"),
	// anchored at the entry's earliest date.
	Recurrence string `json:"recurrence,omitempty"`

	Spots        *int     `json:"spots,omitempty"`
	Price        string   `json:"price,omitempty"`
	Participants *int     `json:"participants,omitempty"`
	Winners      *int     `json:"winners,omitempty"`
	Reach        *int     `json:"reach,omitempty"`
	Schools      *int     `json:"schools,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Animals      *int     `json:"animals,omitempty"`
	Publications *int     `json:"publications,omitempty"`
	Traps        *int     `json:"traps,omitempty"`
	Species      *int     `json:"species,omitempty"`
	Students     *int     `json:"students,omitempty"`
	Equipment    *int     `json:"equipment,omitempty"`
	Recipients   *int     `json:"recipients,omitempty"`
	Flights      *int     `json:"flights,omitempty"`
	Coverage     string   `json:"coverage,omitempty"`
	Villages     *int     `json:"villages,omitempty"`
	Funding      string   `json:"funding,omitempty"`
	Status       string   `json:"status,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Team         []string `json:"team,omitempty"`
	Partners     []string `json:"partners,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Gallery      []string `json:"gallery,omitempty"`
}

// DateStrings returns the entry's date list: Dates when non-empty, else the
// legacy Date, else nil.
func (e Entry) DateStrings() []string {
	if len(e.Dates) > 0 {
		return e.Dates
	}
	if e.Date != "" {
		return []string{e.Date}
	}
	return nil
}

// EventsDocument is the shape of events.json and projects.json.
//
// Older projects documents use "projects" or the pre-split
// "upcomingEvents"/"pastEvents" keys; All merges every variant.
type EventsDocument struct {
	Events         []Entry `json:"events"`
	Projects       []Entry `json:"projects,omitempty"`
	UpcomingEvents []Entry `json:"upcomingEvents,omitempty"`
	PastEvents     []Entry `json:"pastEvents,omitempty"`
}

// All returns every entry of the document in key order
// (events, projects, upcomingEvents, pastEvents).
func (d EventsDocument) All() []Entry {
	n := len(d.Events) + len(d.Projects) + len(d.UpcomingEvents) + len(d.PastEvents)
	out := make([]Entry, 0, n)
	out = append(out, d.Events...)
	out = append(out, d.Projects...)
	out = append(out, d.UpcomingEvents...)
	out = append(out, d.PastEvents...)
	return out
}

// Winner is one awarded photograph.
type Winner struct {
	Name                string `json:"name"`
	Category            string `json:"category"`
	Image               string `json:"image"`
	CompetitionCategory string `json:"competitionCategory,omitempty"`
}

// WinnersDocument maps year -> competition category -> ordered winners.
type WinnersDocument map[string]map[string][]Winner

// NewsItem is one entry of news.json.
type NewsItem struct {
	ID          ID       `json:"id"`
	NewsID      string   `json:"newsId,omitempty"`
	Image       string   `json:"image"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Author      string   `json:"author,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Content     string   `json:"content,omitempty"`
}

// CompetitionConfig is wpoty-config.json.
type CompetitionConfig struct {
	IsAnnounced        bool   `json:"isAnnounced"`
	CurrentYear        int    `json:"currentYear"`
	SubmissionLink     string `json:"googleSheetLink"`
	AnnouncementDate   string `json:"announcementDate"`
	SubmissionDeadline string `json:"submissionDeadline"`
	ResultsDate        string `json:"resultsDate"`
}

// TeamMember is one person listed on the team page.
type TeamMember struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Email    string `json:"email"`
	Image    string `json:"image"`
}

// TeamDocument is team.json.
type TeamDocument struct {
	BoardOfficials []TeamMember `json:"boardOfficials"`
	ModerationTeam []TeamMember `json:"moderaTeam"`
}
