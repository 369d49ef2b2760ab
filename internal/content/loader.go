package content

import (
	"context"
	"encoding/json"
	"fmt"

	appLog "wildsl/internal/log"
	"wildsl/internal/model"
	"wildsl/internal/recur"
)

// Loader decodes documents from a Source. Any fetch or decode failure is
// logged and replaced by the document's fallback payload; the second
// return value of every method reports that substitution.
type Loader struct {
	src   Source
	recur recur.Config
}

// NewLoader returns a Loader reading from src. Entries with a recurrence
// rule are expanded using rc.
func NewLoader(src Source, rc recur.Config) *Loader {
	return &Loader{src: src, recur: rc}
}

func (l *Loader) Source() Source { return l.src }

// Events loads events.json.
func (l *Loader) Events(ctx context.Context) ([]model.Entry, bool) {
	doc, fallback := load(ctx, l, EventsDoc, FallbackEvents)
	return l.expand(doc.All()), fallback
}

// Projects loads projects.json, merging the legacy key layouts.
func (l *Loader) Projects(ctx context.Context) ([]model.Entry, bool) {
	doc, fallback := load(ctx, l, ProjectsDoc, FallbackProjects)
	return l.expand(doc.All()), fallback
}

// News loads news.json.
func (l *Loader) News(ctx context.Context) ([]model.NewsItem, bool) {
	return load(ctx, l, NewsDoc, FallbackNews)
}

// Winners loads winners.json.
func (l *Loader) Winners(ctx context.Context) (model.WinnersDocument, bool) {
	return load(ctx, l, WinnersDoc, FallbackWinners)
}

// Competition loads wpoty-config.json. The fallback is nil: no round is
// considered announced.
func (l *Loader) Competition(ctx context.Context) (*model.CompetitionConfig, bool) {
	return load(ctx, l, CompetitionDoc, func() *model.CompetitionConfig { return nil })
}

// Team loads team.json.
func (l *Loader) Team(ctx context.Context) (model.TeamDocument, bool) {
	return load(ctx, l, TeamDoc, FallbackTeam)
}

func (l *Loader) expand(entries []model.Entry) []model.Entry {
	return recur.Expand(entries, l.recur).Entries
}

func load[T any](ctx context.Context, l *Loader, name string, fallback func() T) (T, bool) {
	v, err := decode[T](ctx, l.src, name)
	if err != nil {
		appLog.Error("content: using fallback payload", err, "doc", name, "source", l.src.String())
		return fallback(), true
	}
	return v, false
}

func decode[T any](ctx context.Context, src Source, name string) (T, error) {
	var v T
	body, err := src.Fetch(ctx, name)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("content: decode %s: %w", name, err)
	}
	return v, nil
}
