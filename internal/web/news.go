package web

import (
	"bytes"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	appLog "wildsl/internal/log"
	"wildsl/internal/model"
	"wildsl/internal/schedule"
)

// newMarkdown renders news bodies. Raw HTML in the source is dropped.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
}

type newsDTO struct {
	model.NewsItem
	Latest bool `json:"latest"`
}

type newsResponse struct {
	News     []newsDTO `json:"news"`
	Fallback bool      `json:"fallback"`
}

type newsItemResponse struct {
	newsDTO
	ContentHTML string `json:"content_html,omitempty"`
	Fallback    bool   `json:"fallback"`
}

// renderNews serves GET /api/news in document order.
func (s *Server) renderNews(r *http.Request) response {
	items, fallback := s.docs.News(r.Context())
	latest := latestFlags(items, s.events.Location())

	out := make([]newsDTO, 0, len(items))
	for i, n := range items {
		out = append(out, newsDTO{NewsItem: n, Latest: latest[i]})
	}
	return jsonResponse(http.StatusOK, newsResponse{News: out, Fallback: fallback})
}

// renderNewsItem serves GET /api/news/{id}; id matches the numeric id or
// the newsId slug.
func (s *Server) renderNewsItem(r *http.Request) response {
	id := r.PathValue("id")
	items, fallback := s.docs.News(r.Context())
	latest := latestFlags(items, s.events.Location())

	for i, n := range items {
		if string(n.ID) != id && (n.NewsID == "" || n.NewsID != id) {
			continue
		}
		resp := newsItemResponse{
			newsDTO:  newsDTO{NewsItem: n, Latest: latest[i]},
			Fallback: fallback,
		}
		if n.Content != "" {
			var buf bytes.Buffer
			if err := s.markdown.Convert([]byte(n.Content), &buf); err != nil {
				appLog.Error("news markdown render failed", err, "id", string(n.ID))
			} else {
				resp.ContentHTML = buf.String()
			}
		}
		return jsonResponse(http.StatusOK, resp)
	}
	return errorResponse(http.StatusNotFound, "news item not found")
}

// latestFlags marks the items dated on the most recent valid date.
func latestFlags(items []model.NewsItem, loc *time.Location) []bool {
	flags := make([]bool, len(items))
	dates := make([]time.Time, len(items))
	var newest time.Time
	for i, n := range items {
		t, err := schedule.ParseDate(n.Date, loc)
		if err != nil {
			appLog.Debug("news item has no usable date", "id", string(n.ID), "date", n.Date)
			continue
		}
		dates[i] = t
		if t.After(newest) {
			newest = t
		}
	}
	if newest.IsZero() {
		return flags
	}
	for i := range items {
		flags[i] = !dates[i].IsZero() && dates[i].Equal(newest)
	}
	return flags
}
