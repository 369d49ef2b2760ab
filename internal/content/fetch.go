package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	appLog "wildsl/internal/log"
)

// FetchResult contains the outcome of fetching a single document URL.
type FetchResult struct {
	URL       string
	Body      []byte // payload, either freshly fetched or from cache
	FromCache bool   // true if we reused the cached body
}

// cacheEntry holds HTTP cache metadata for a single document URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher is a Source that fetches documents below an http(s) base URL
// with HTTP caching (ETag / Last-Modified) and a disk-backed cache.
type Fetcher struct {
	client   *http.Client
	base     string
	cacheDir string
}

// NewFetcher creates a Fetcher for documents under base.
//
// cacheDir is the directory where per-URL cache subdirectories and
// metadata are stored.
func NewFetcher(base, cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./var/cache"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		base:     base,
		cacheDir: cacheDir,
	}
}

func (f *Fetcher) String() string { return redactURL(f.base) }

// Fetch implements Source.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := url.JoinPath(f.base, name)
	if err != nil {
		return nil, fmt.Errorf("content: join %q: %w", name, err)
	}
	res, err := f.FetchOne(ctx, u)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// FetchOne fetches a single URL, honoring ETag and Last-Modified. A
// network error or non-OK status falls back to the cached body when one
// exists.
func (f *Fetcher) FetchOne(ctx context.Context, rawURL string) (FetchResult, error) {
	if rawURL == "" {
		return FetchResult{}, errors.New("content: URL is empty")
	}

	cachePath := f.cachePathForURL(rawURL)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return FetchResult{}, err
	}

	meta, _ := f.loadCacheMeta(cachePath)
	cachedBody, _ := f.loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	// Conditional headers from cache metadata.
	if meta.ETag != "" && len(cachedBody) > 0 {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" && len(cachedBody) > 0 {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Debug("content fetch start", "url", redactURL(rawURL))

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("content fetch network error, using cached body", err, "url", redactURL(rawURL))
			return FetchResult{URL: rawURL, Body: cachedBody, FromCache: true}, nil
		}
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return FetchResult{}, readErr
		}

		newMeta := cacheEntry{
			URL:          rawURL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := f.saveCache(cachePath, newMeta, body); err != nil {
			appLog.Error("content cache save failed", err, "url", redactURL(rawURL))
		}

		appLog.Info("content fetch success", "url", redactURL(rawURL), "status", resp.StatusCode, "bytes", len(body))
		return FetchResult{URL: rawURL, Body: body}, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return FetchResult{}, errors.New("content: received 304 Not Modified but no cached body available")
		}
		appLog.Debug("content fetch not modified; using cache", "url", redactURL(rawURL))
		return FetchResult{URL: rawURL, Body: cachedBody, FromCache: true}, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("content fetch non-OK, using cached body", errors.New(resp.Status), "url", redactURL(rawURL), "status", resp.StatusCode)
			return FetchResult{URL: rawURL, Body: cachedBody, FromCache: true}, nil
		}
		if resp.StatusCode == http.StatusNotFound {
			return FetchResult{}, fmt.Errorf("%w: %s", ErrNotFound, redactURL(rawURL))
		}
		return FetchResult{}, fmt.Errorf("content: fetch %s: %s", redactURL(rawURL), resp.Status)
	}
}

func (f *Fetcher) cachePathForURL(u string) string {
	sum := sha256.Sum256([]byte(u))
	// First 16 hex chars as directory name.
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func (f *Fetcher) loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func (f *Fetcher) loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "body.json"))
}

func (f *Fetcher) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.json"), body, 0o600); err != nil {
		return err
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL keeps scheme and host only, so tokens in paths or query
// strings never reach the logs.
func redactURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return "(redacted)"
	}
	return parsed.Scheme + "://" + parsed.Host + "/...(redacted)"
}
