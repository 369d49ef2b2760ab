package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"wildsl/internal/config"
	"wildsl/internal/content"
	appLog "wildsl/internal/log"
	"wildsl/internal/model"
	"wildsl/internal/schedule"
	"wildsl/internal/status"
)

// PreviewFile is the name of the captured page preview inside the cache dir.
const PreviewFile = "preview.png"

// maxCachedResponses bounds the response cache; query strings are client
// controlled.
const maxCachedResponses = 256

// Documents is the subset of content.Loader the server reads from.
type Documents interface {
	Events(ctx context.Context) ([]model.Entry, bool)
	Projects(ctx context.Context) ([]model.Entry, bool)
	News(ctx context.Context) ([]model.NewsItem, bool)
	Winners(ctx context.Context) (model.WinnersDocument, bool)
	Team(ctx context.Context) (model.TeamDocument, bool)
	Source() content.Source
}

// Snapshotter provides the current site snapshot.
type Snapshotter interface {
	Snapshot() status.Snapshot
}

// Server provides the site's static pages, raw documents and JSON API.
type Server struct {
	cfg   *config.Config
	docs  Documents
	snaps Snapshotter
	mux   *http.ServeMux

	events   *schedule.Classifier
	projects *schedule.Classifier
	markdown goldmark.Markdown

	// In-memory cache of rendered API responses keyed by path and query,
	// so bursts of page loads don't reload and reclassify the documents.
	cacheMu sync.RWMutex
	cache   map[string]response
}

// embeddedStatic contains the site pages and the default JSON documents.
//
//go:embed all:static
var embeddedStatic embed.FS

// StaticFS returns the embedded site root. It doubles as the document
// source when no data base is configured.
func StaticFS() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return nil
	}
	return sub
}

// NewServer constructs a new Server. c supplies the location and clock;
// listing policies come from cfg.
func NewServer(cfg *config.Config, docs Documents, c *schedule.Classifier, snaps Snapshotter) *Server {
	s := &Server{
		cfg:      cfg,
		docs:     docs,
		snaps:    snaps,
		mux:      http.NewServeMux(),
		events:   c.WithPolicy(cfg.EventsPolicy()),
		projects: c.WithPolicy(cfg.ProjectsPolicy()),
		markdown: newMarkdown(),
		cache:    make(map[string]response),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// InvalidateCache drops every cached API response. Called after a data
// reload.
func (s *Server) InvalidateCache() {
	s.cacheMu.Lock()
	n := len(s.cache)
	s.cache = make(map[string]response)
	s.cacheMu.Unlock()
	appLog.Debug("api cache purged", "entries", n)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/events", s.cached(s.listing(s.docs.Events, s.events)))
	s.mux.HandleFunc("GET /api/projects", s.cached(s.listing(s.docs.Projects, s.projects)))
	s.mux.HandleFunc("GET /api/projects/{id}", s.cached(s.renderProject))
	s.mux.HandleFunc("GET /api/news", s.cached(s.renderNews))
	s.mux.HandleFunc("GET /api/news/{id}", s.cached(s.renderNewsItem))
	s.mux.HandleFunc("GET /api/winners", s.cached(s.renderWinners))
	s.mux.HandleFunc("GET /api/team", s.cached(s.renderTeam))
	s.mux.HandleFunc("GET /api/team/{id}", s.cached(s.renderTeamMember))
	s.mux.HandleFunc("GET /events.ics", s.cached(s.renderCalendar))
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)

	// Raw documents come from the configured source, which may differ from
	// the embedded copies under static/.
	for _, name := range []string{
		content.EventsDoc,
		content.ProjectsDoc,
		content.NewsDoc,
		content.WinnersDoc,
		content.CompetitionDoc,
		content.TeamDoc,
	} {
		s.mux.HandleFunc("GET /"+name, s.handleDocument(name))
	}

	// All other paths fall back to the embedded site.
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleStatus exposes the snapshot maintained by the refresher. It is
// already a cached value, so it bypasses the response cache.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snaps.Snapshot())
}

func (s *Server) handleDocument(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := s.docs.Source().Fetch(r.Context(), name)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				writeError(w, http.StatusNotFound, "document not found")
				return
			}
			appLog.Error("document fetch failed", err, "doc", name, "source", s.docs.Source().String())
			writeError(w, http.StatusBadGateway, "document unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

// handlePreview serves the last page preview written by `wildsl capture`.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.Data.CacheDir, PreviewFile))
}

// staticFileServer returns an http.Handler that serves the embedded site
// from internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub := StaticFS()
	if sub == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static site not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Unknown /api/* paths must 404 as JSON, never fall through to HTML.
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// response is a fully rendered reply, kept in the cache as-is.
type response struct {
	status      int
	contentType string
	body        []byte
	updatedAt   time.Time
}

func (resp response) write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", resp.contentType)
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

func jsonResponse(status int, v any) response {
	body, err := json.Marshal(v)
	if err != nil {
		appLog.Error("failed to encode JSON response", err)
		return response{
			status:      http.StatusInternalServerError,
			contentType: "application/json; charset=utf-8",
			body:        []byte(`{"error":"internal error"}`),
		}
	}
	return response{status: status, contentType: "application/json; charset=utf-8", body: append(body, '\n')}
}

func errorResponse(status int, msg string) response {
	return jsonResponse(status, errResp{Error: msg})
}

// cached serves successful renders from memory for cfg.CacheTTL.
func (s *Server) cached(render func(*http.Request) response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ttl := s.cfg.CacheTTL()
		key := r.URL.Path + "?" + r.URL.RawQuery
		now := time.Now()

		if ttl > 0 {
			s.cacheMu.RLock()
			hit, ok := s.cache[key]
			s.cacheMu.RUnlock()
			if ok && now.Sub(hit.updatedAt) < ttl {
				hit.write(w)
				return
			}
		}

		resp := render(r)
		if ttl > 0 && resp.status == http.StatusOK {
			resp.updatedAt = now
			s.cacheMu.Lock()
			if len(s.cache) >= maxCachedResponses {
				for k, v := range s.cache {
					if now.Sub(v.updatedAt) >= ttl {
						delete(s.cache, k)
					}
				}
			}
			if len(s.cache) < maxCachedResponses {
				s.cache[key] = resp
			}
			s.cacheMu.Unlock()
		}
		resp.write(w)
	}
}

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
