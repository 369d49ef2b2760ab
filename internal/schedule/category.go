package schedule

import (
	"strings"

	"golang.org/x/text/cases"

	"wildsl/internal/model"
)

// AllCategories selects every entry in FilterCategory.
const AllCategories = "All"

// Categories returns AllCategories followed by the distinct categories of
// entries in first-seen order. Spelling variants that differ only in case
// collapse onto the first one seen.
func Categories(entries []model.Entry) []string {
	folder := cases.Fold()
	seen := make(map[string]struct{}, len(entries))
	out := []string{AllCategories}
	for _, e := range entries {
		if e.Category == "" {
			continue
		}
		key := folder.String(strings.TrimSpace(e.Category))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// FilterCategory keeps the entries whose category matches category,
// ignoring case. Empty or AllCategories keeps everything. Relative order is
// preserved.
func FilterCategory(entries []model.Entry, category string) []model.Entry {
	folder := cases.Fold()
	want := folder.String(strings.TrimSpace(category))
	if want == "" || want == folder.String(AllCategories) {
		return append([]model.Entry(nil), entries...)
	}
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if folder.String(strings.TrimSpace(e.Category)) == want {
			out = append(out, e)
		}
	}
	return out
}
