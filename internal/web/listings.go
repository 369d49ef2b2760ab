package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"wildsl/internal/model"
	"wildsl/internal/schedule"
)

const (
	filterUpcoming = "upcoming"
	filterPast     = "past"
)

// entryDTO is an entry plus the classifier's view of it.
type entryDTO struct {
	model.Entry
	IsToday    bool   `json:"is_today"`
	AnchorDate string `json:"anchor_date,omitempty"`
}

// listingResponse is the JSON response shape for /api/events and
// /api/projects. Counts are taken after the category filter; categories
// are taken before it so the filter bar stays stable.
type listingResponse struct {
	Filter         string     `json:"filter,omitempty"`
	Category       string     `json:"category"`
	Categories     []string   `json:"categories"`
	UpcomingCount  int        `json:"upcoming_count"`
	PastCount      int        `json:"past_count"`
	HasEventsToday bool       `json:"has_events_today"`
	Upcoming       []entryDTO `json:"upcoming"`
	Past           []entryDTO `json:"past"`
	Fallback       bool       `json:"fallback"`
}

type projectResponse struct {
	entryDTO
	Upcoming bool `json:"upcoming"`
	Fallback bool `json:"fallback"`
}

// listing renders a classified listing.
//
// GET /api/events?filter=upcoming|past&category=Workshop
//   - filter:   omit for both sets
//   - category: case-insensitive, "All" or empty keeps everything
func (s *Server) listing(load func(context.Context) ([]model.Entry, bool), c *schedule.Classifier) func(*http.Request) response {
	return func(r *http.Request) response {
		q := r.URL.Query()
		filter := strings.ToLower(strings.TrimSpace(q.Get("filter")))
		switch filter {
		case "", filterUpcoming, filterPast:
		default:
			return errorResponse(http.StatusBadRequest, "filter must be upcoming or past")
		}
		category := strings.TrimSpace(q.Get("category"))
		if category == "" {
			category = schedule.AllCategories
		}

		entries, fallback := load(r.Context())
		ref := c.Now()
		part := c.Classify(entries, ref)
		upcoming := schedule.FilterCategory(part.Upcoming, category)
		past := schedule.FilterCategory(part.Past, category)

		resp := listingResponse{
			Filter:         filter,
			Category:       category,
			Categories:     schedule.Categories(entries),
			UpcomingCount:  len(upcoming),
			PastCount:      len(past),
			HasEventsToday: c.AnyToday(entries, ref),
			Fallback:       fallback,
		}
		if filter != filterPast {
			resp.Upcoming = toDTOs(c, upcoming, ref)
		}
		if filter != filterUpcoming {
			resp.Past = toDTOs(c, past, ref)
		}
		return jsonResponse(http.StatusOK, resp)
	}
}

// renderProject serves GET /api/projects/{id}.
func (s *Server) renderProject(r *http.Request) response {
	id := model.ID(r.PathValue("id"))
	projects, fallback := s.docs.Projects(r.Context())
	ref := s.projects.Now()
	for _, p := range projects {
		if p.ID != id {
			continue
		}
		return jsonResponse(http.StatusOK, projectResponse{
			entryDTO: toDTO(s.projects, p, ref),
			Upcoming: s.projects.IsUpcoming(p, ref),
			Fallback: fallback,
		})
	}
	return errorResponse(http.StatusNotFound, "project not found")
}

func toDTOs(c *schedule.Classifier, entries []model.Entry, ref time.Time) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDTO(c, e, ref))
	}
	return out
}

func toDTO(c *schedule.Classifier, e model.Entry, ref time.Time) entryDTO {
	dto := entryDTO{Entry: e, IsToday: c.IsToday(e, ref)}
	if anchor, ok := c.Anchor(e); ok {
		dto.AnchorDate = anchor.Format(time.DateOnly)
	}
	return dto
}
