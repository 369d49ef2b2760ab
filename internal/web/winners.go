package web

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"wildsl/internal/model"
)

// winnersResponse is the JSON response shape for /api/winners.
type winnersResponse struct {
	Years      []string       `json:"years"`
	Year       string         `json:"year"`
	Categories []string       `json:"categories"`
	Category   string         `json:"category"`
	Winners    []model.Winner `json:"winners"`
	Fallback   bool           `json:"fallback"`
}

// renderWinners serves GET /api/winners?year=2024&category=Open.
//
// Without year the most recent year is selected. Without category the
// configured default is used unless it has no winners that year, in which
// case the first non-empty category by name wins.
func (s *Server) renderWinners(r *http.Request) response {
	q := r.URL.Query()
	doc, fallback := s.docs.Winners(r.Context())

	resp := winnersResponse{
		Years:      sortedYears(doc),
		Categories: []string{},
		Winners:    []model.Winner{},
		Fallback:   fallback,
	}
	if len(resp.Years) == 0 {
		return jsonResponse(http.StatusOK, resp)
	}

	year := strings.TrimSpace(q.Get("year"))
	if year == "" {
		year = resp.Years[0]
	}
	byCategory, ok := doc[year]
	if !ok {
		return errorResponse(http.StatusNotFound, "no winners for year "+year)
	}
	resp.Year = year

	for c := range byCategory {
		resp.Categories = append(resp.Categories, c)
	}
	sort.Strings(resp.Categories)

	category := strings.TrimSpace(q.Get("category"))
	if category == "" {
		category = pickCategory(byCategory, resp.Categories, s.cfg.Winners.DefaultCategory)
	} else if _, ok := byCategory[category]; !ok {
		return errorResponse(http.StatusNotFound, "no category "+category+" in "+year)
	}
	resp.Category = category
	if w := byCategory[category]; w != nil {
		resp.Winners = w
	}
	return jsonResponse(http.StatusOK, resp)
}

// sortedYears returns the document's years, most recent first. Numeric
// years compare numerically; anything else sorts after them.
func sortedYears(doc model.WinnersDocument) []string {
	years := make([]string, 0, len(doc))
	for y := range doc {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool {
		a, aerr := strconv.Atoi(years[i])
		b, berr := strconv.Atoi(years[j])
		switch {
		case aerr == nil && berr == nil:
			return a > b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return years[i] > years[j]
		}
	})
	return years
}

func pickCategory(byCategory map[string][]model.Winner, sorted []string, preferred string) string {
	if len(byCategory[preferred]) > 0 {
		return preferred
	}
	for _, c := range sorted {
		if len(byCategory[c]) > 0 {
			return c
		}
	}
	if len(sorted) > 0 {
		return sorted[0]
	}
	return preferred
}
