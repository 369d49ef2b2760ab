package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildsl/internal/config"
	"wildsl/internal/content"
	"wildsl/internal/model"
	"wildsl/internal/recur"
	"wildsl/internal/schedule"
	"wildsl/internal/status"
)

var colombo = time.FixedZone("Asia/Colombo", 5*3600+30*60)

const testEvents = `{"events": [
	{"id": 1, "title": "Workshop Today", "dates": ["2025-05-10"], "category": "Workshop", "location": "Yala"},
	{"id": 2, "title": "Walk Later", "dates": ["2025-06-01"], "category": "Walk"},
	{"id": 3, "title": "Old Workshop", "dates": ["2025-04-01"], "category": "workshop"},
	{"id": 4, "title": "Undated"},
	{"id": 5, "title": "Weekend Camp", "dates": ["2025-05-09", "2025-05-10", "2025-05-11"], "category": "Camp"}
]}`

const testNews = `[
	{"id": 1, "newsId": "older", "title": "Older", "date": "2025-04-01", "image": "a.jpg", "description": "d"},
	{"id": 2, "newsId": "newest", "title": "Newest", "date": "2025-05-01", "image": "b.jpg", "description": "d",
	 "content": "Some **bold** text"},
	{"id": 3, "newsId": "same-day", "title": "Same Day", "date": "2025-05-01", "image": "c.jpg", "description": "d"},
	{"id": 4, "title": "No Date", "date": "someday", "image": "d.jpg", "description": "d"}
]`

const testWinners = `{
	"2023": {"Open": [{"name": "A", "category": "Winner", "image": "a.jpg"}]},
	"2024": {"Open": [], "Junior": [{"name": "B", "category": "Winner", "image": "b.jpg"}]}
}`

const testTeam = `{
	"boardOfficials": [{"id": "niro", "name": "Niro", "position": "President", "email": "n@x", "image": "n.jpg"}],
	"moderaTeam": [{"id": 7, "name": "Mod", "email": "m@x", "image": "m.jpg"}]
}`

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		content.EventsDoc:   {Data: []byte(testEvents)},
		content.ProjectsDoc: {Data: []byte(testEvents)},
		content.NewsDoc:     {Data: []byte(testNews)},
		content.WinnersDoc:  {Data: []byte(testWinners)},
		content.TeamDoc:     {Data: []byte(testTeam)},
	}
}

// countingSource counts fetches of the underlying source.
type countingSource struct {
	content.Source
	fetches atomic.Int32
}

func (c *countingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	c.fetches.Add(1)
	return c.Source.Fetch(ctx, name)
}

func newTestServer(t *testing.T, src content.Source, ttl int) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.CacheTTLSeconds = ttl
	cfg.Data.CacheDir = t.TempDir()

	now := time.Date(2025, 5, 10, 9, 30, 0, 0, colombo)
	c := schedule.New(colombo, schedule.EventsPolicy).WithClock(func() time.Time { return now })
	loader := content.NewLoader(src, recur.Config{Location: colombo})
	refresher := status.NewRefresher(loader, c)
	refresher.Refresh(context.Background())
	return NewServer(cfg, loader, c, refresher)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func titles(entries []entryDTO) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)
	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestEventsListing(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	rec := get(t, s, "/api/events")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInto[listingResponse](t, rec)

	if diff := cmp.Diff([]string{"Walk Later", "Workshop Today", "Weekend Camp"}, titles(resp.Upcoming)); diff != "" {
		t.Errorf("upcoming mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Old Workshop", "Undated"}, titles(resp.Past)); diff != "" {
		t.Errorf("past mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"All", "Workshop", "Walk", "Camp"}, resp.Categories)
	assert.Equal(t, "All", resp.Category)
	assert.Equal(t, 3, resp.UpcomingCount)
	assert.Equal(t, 2, resp.PastCount)
	assert.True(t, resp.HasEventsToday)
	assert.False(t, resp.Fallback)

	byTitle := map[string]entryDTO{}
	for _, e := range append(resp.Upcoming, resp.Past...) {
		byTitle[e.Title] = e
	}
	assert.True(t, byTitle["Workshop Today"].IsToday)
	assert.True(t, byTitle["Weekend Camp"].IsToday)
	assert.False(t, byTitle["Walk Later"].IsToday)
	assert.Equal(t, "2025-05-09", byTitle["Weekend Camp"].AnchorDate)
	assert.Empty(t, byTitle["Undated"].AnchorDate)
}

func TestEventsListing_FilterAndCategory(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	resp := decodeInto[listingResponse](t, get(t, s, "/api/events?filter=upcoming&category=WORKSHOP"))
	assert.Equal(t, "upcoming", resp.Filter)
	assert.Equal(t, []string{"Workshop Today"}, titles(resp.Upcoming))
	assert.Nil(t, resp.Past)
	assert.Equal(t, 1, resp.UpcomingCount)
	assert.Equal(t, 1, resp.PastCount)

	resp = decodeInto[listingResponse](t, get(t, s, "/api/events?filter=past"))
	assert.Nil(t, resp.Upcoming)
	assert.Equal(t, []string{"Old Workshop", "Undated"}, titles(resp.Past))

	rec := get(t, s, "/api/events?filter=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "filter")
}

func TestProjectsListing_SoonestFirst(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	resp := decodeInto[listingResponse](t, get(t, s, "/api/projects?filter=upcoming"))
	assert.Equal(t, []string{"Weekend Camp", "Workshop Today", "Walk Later"}, titles(resp.Upcoming))
}

func TestProjectDetail(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	rec := get(t, s, "/api/projects/2")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInto[projectResponse](t, rec)
	assert.Equal(t, "Walk Later", resp.Title)
	assert.True(t, resp.Upcoming)
	assert.Equal(t, "2025-06-01", resp.AnchorDate)

	resp = decodeInto[projectResponse](t, get(t, s, "/api/projects/3"))
	assert.False(t, resp.Upcoming)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/projects/99").Code)
}

func TestNews(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	resp := decodeInto[newsResponse](t, get(t, s, "/api/news"))
	require.Len(t, resp.News, 4)
	latest := make([]bool, 0, len(resp.News))
	for _, n := range resp.News {
		latest = append(latest, n.Latest)
	}
	assert.Equal(t, []bool{false, true, true, false}, latest)
	assert.Equal(t, "Older", resp.News[0].Title)
}

func TestNewsItem(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	bySlug := decodeInto[newsItemResponse](t, get(t, s, "/api/news/newest"))
	assert.Equal(t, "Newest", bySlug.Title)
	assert.True(t, bySlug.Latest)
	assert.Contains(t, bySlug.ContentHTML, "<strong>bold</strong>")

	byID := decodeInto[newsItemResponse](t, get(t, s, "/api/news/1"))
	assert.Equal(t, "Older", byID.Title)
	assert.Empty(t, byID.ContentHTML)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/news/missing").Code)
}

func TestWinners(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	resp := decodeInto[winnersResponse](t, get(t, s, "/api/winners"))
	assert.Equal(t, []string{"2024", "2023"}, resp.Years)
	assert.Equal(t, "2024", resp.Year)
	assert.Equal(t, []string{"Junior", "Open"}, resp.Categories)
	// Open is the configured default but has no 2024 winners.
	assert.Equal(t, "Junior", resp.Category)
	require.Len(t, resp.Winners, 1)
	assert.Equal(t, "B", resp.Winners[0].Name)

	resp = decodeInto[winnersResponse](t, get(t, s, "/api/winners?year=2023"))
	assert.Equal(t, "Open", resp.Category)
	assert.Equal(t, "A", resp.Winners[0].Name)

	resp = decodeInto[winnersResponse](t, get(t, s, "/api/winners?year=2024&category=Open"))
	assert.Equal(t, "Open", resp.Category)
	assert.Empty(t, resp.Winners)
	assert.NotNil(t, resp.Winners)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/winners?year=1999").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/winners?year=2023&category=Junior").Code)
}

func TestSortedYears(t *testing.T) {
	years := sortedYears(model.WinnersDocument{
		"2019": nil, "2025": nil, "archive": nil, "2101": nil,
	})
	assert.Equal(t, []string{"2101", "2025", "2019", "archive"}, years)
}

func TestTeam(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	resp := decodeInto[teamResponse](t, get(t, s, "/api/team"))
	require.Len(t, resp.BoardOfficials, 1)
	require.Len(t, resp.ModerationTeam, 1)

	member := decodeInto[teamMemberResponse](t, get(t, s, "/api/team/7"))
	assert.Equal(t, "Mod", member.Name)
	assert.Equal(t, groupModeration, member.Group)

	member = decodeInto[teamMemberResponse](t, get(t, s, "/api/team/niro"))
	assert.Equal(t, groupBoard, member.Group)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/team/nobody").Code)
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	snap := decodeInto[status.Snapshot](t, get(t, s, "/api/status"))
	assert.True(t, snap.HasEventsToday)
	// No wpoty-config.json in the test files.
	assert.Equal(t, []string{"competition"}, snap.Fallback)
	assert.False(t, snap.Competition.Announced)
}

func TestCalendarFeed(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	rec := get(t, s, "/events.ics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))

	cal, err := ical.ParseCalendar(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)

	starts := map[string]string{}
	for _, ev := range cal.Events() {
		starts[ev.Id()] = ev.GetProperty(ical.ComponentPropertyDtStart).Value
	}
	assert.Equal(t, map[string]string{
		"2-20250601@wildsl": "20250601",
		"1-20250510@wildsl": "20250510",
		"5-20250510@wildsl": "20250510",
		"5-20250511@wildsl": "20250511",
	}, starts)
}

func TestCalendarFeed_FallbackIsUnavailable(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(fstest.MapFS{}, "empty"), 0)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/events.ics").Code)
}

func TestFallbackDocuments(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(fstest.MapFS{}, "empty"), 0)

	news := decodeInto[newsResponse](t, get(t, s, "/api/news"))
	assert.True(t, news.Fallback)
	assert.Len(t, news.News, 3)

	events := decodeInto[listingResponse](t, get(t, s, "/api/events"))
	assert.True(t, events.Fallback)
	assert.Empty(t, events.Upcoming)
	assert.Equal(t, []string{"All"}, events.Categories)
}

func TestResponseCache(t *testing.T) {
	src := &countingSource{Source: content.NewFSSource(testFiles(), "test")}
	s := newTestServer(t, src, 60)
	base := src.fetches.Load()

	first := get(t, s, "/api/events")
	second := get(t, s, "/api/events")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, base+1, src.fetches.Load())

	// A different query is a different entry.
	get(t, s, "/api/events?filter=past")
	assert.Equal(t, base+2, src.fetches.Load())

	// Errors are never cached.
	get(t, s, "/api/projects/99")
	get(t, s, "/api/projects/99")
	assert.Equal(t, base+4, src.fetches.Load())

	s.InvalidateCache()
	get(t, s, "/api/events")
	assert.Equal(t, base+5, src.fetches.Load())
}

func TestResponseCache_DisabledWithZeroTTL(t *testing.T) {
	src := &countingSource{Source: content.NewFSSource(testFiles(), "test")}
	s := newTestServer(t, src, 0)
	base := src.fetches.Load()

	get(t, s, "/api/news")
	get(t, s, "/api/news")
	assert.Equal(t, base+2, src.fetches.Load())
}

func TestRawDocuments(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	rec := get(t, s, "/events.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, testEvents, rec.Body.String())

	rec = get(t, s, "/wpoty-config.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticSite(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wild Sri Lanka")

	rec = get(t, s, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestStaticFS_CarriesDefaultDocuments(t *testing.T) {
	src, err := content.OpenSource("", "", StaticFS())
	require.NoError(t, err)
	loader := content.NewLoader(src, recur.Config{Location: colombo})

	for _, name := range []string{content.EventsDoc, content.ProjectsDoc, content.NewsDoc, content.WinnersDoc, content.CompetitionDoc, content.TeamDoc} {
		_, err := src.Fetch(context.Background(), name)
		assert.NoError(t, err, name)
	}
	_, fallback := loader.Events(context.Background())
	assert.False(t, fallback)
	_, fallback = loader.Projects(context.Background())
	assert.False(t, fallback)
	_, fallback = loader.News(context.Background())
	assert.False(t, fallback)
	_, fallback = loader.Winners(context.Background())
	assert.False(t, fallback)
	cfg, fallback := loader.Competition(context.Background())
	assert.False(t, fallback)
	assert.True(t, cfg.IsAnnounced)
	_, fallback = loader.Team(context.Background())
	assert.False(t, fallback)
}

func TestPreviewMissing(t *testing.T) {
	s := newTestServer(t, content.NewFSSource(testFiles(), "test"), 0)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/preview.png").Code)
}
