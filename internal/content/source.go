// Package content loads the site's JSON documents from a directory, an
// HTTP base URL, or the embedded copies, substituting a fixed fallback
// payload whenever a document cannot be loaded.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Document names, relative to the data base.
const (
	EventsDoc      = "events.json"
	ProjectsDoc    = "projects.json"
	NewsDoc        = "news.json"
	WinnersDoc     = "winners.json"
	CompetitionDoc = "wpoty-config.json"
	TeamDoc        = "team.json"
)

// ErrNotFound is returned when a source has no document with the
// requested name.
var ErrNotFound = errors.New("content: document not found")

// Source returns the raw bytes of a named document.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	String() string
}

// FSSource reads documents from an fs.FS (a directory or the embedded
// site).
type FSSource struct {
	fsys  fs.FS
	label string
}

// NewFSSource wraps fsys; label is used in logs.
func NewFSSource(fsys fs.FS, label string) *FSSource {
	return &FSSource{fsys: fsys, label: label}
}

// NewDirSource reads documents from dir on disk.
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir), label: dir}
}

func (s *FSSource) String() string { return s.label }

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.label)
		}
		return nil, err
	}
	return data, nil
}

// OpenSource picks the source for base: embedded when base is empty, an
// HTTP fetcher for http(s) URLs, otherwise a directory.
func OpenSource(base, cacheDir string, embedded fs.FS) (Source, error) {
	switch {
	case base == "":
		if embedded == nil {
			return nil, errors.New("content: no data base configured and no embedded documents")
		}
		return NewFSSource(embedded, "embedded"), nil
	case strings.HasPrefix(base, "http://"), strings.HasPrefix(base, "https://"):
		return NewFetcher(base, cacheDir), nil
	default:
		info, err := os.Stat(base)
		if err != nil {
			return nil, fmt.Errorf("content: data dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("content: data base %s is not a directory", base)
		}
		return NewDirSource(base), nil
	}
}

// IsDir reports whether base names a local directory source.
func IsDir(base string) bool {
	if base == "" || strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return false
	}
	info, err := os.Stat(base)
	return err == nil && info.IsDir()
}
