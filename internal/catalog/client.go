package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"belgames.org/showcase-web/internal/i18n"
)

// ErrNotFound reports a document that does not exist at the source.
var ErrNotFound = errors.New("catalog: not found")

// FetchError reports a non-success response from the remote source. It
// carries the requested path and the status code, per the loader contract.
type FetchError struct {
	Path   string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog: fetch %s: status %d", e.Path, e.Status)
}

// Client fetches localized documents either from a remote base URL or from a
// local assets directory. Remote responses are requested with caching
// disabled so every bootstrap observes fresh content.
type Client struct {
	baseURL string
	dir     string
	http    *http.Client
}

const defaultAssetsDir = "assets"

// NewClient builds a loader. When baseURL is empty the client reads from the
// local directory (defaulting to "assets").
func NewClient(baseURL, dir string) *Client {
	if strings.TrimSpace(dir) == "" {
		dir = defaultAssetsDir
	}
	return &Client{baseURL: strings.TrimSpace(baseURL), dir: dir, http: &http.Client{}}
}

// SetHTTPClient overrides the underlying HTTP client (primarily for tests).
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// UIPath returns the document name for a language's UI dictionary.
func UIPath(lang string) string { return "ui." + lang + ".json" }

// GamesPath returns the document name for a language's game catalog.
func GamesPath(lang string) string { return "games." + lang + ".json" }

// FetchUI loads and parses the UI dictionary for lang.
func (c *Client) FetchUI(ctx context.Context, lang string) (i18n.Dict, error) {
	raw, err := c.fetch(ctx, UIPath(lang))
	if err != nil {
		return nil, err
	}
	d, err := i18n.ParseDict(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", UIPath(lang), err)
	}
	return d, nil
}

// FetchGames loads and parses the game catalog for lang.
func (c *Client) FetchGames(ctx context.Context, lang string) ([]Game, error) {
	raw, err := c.fetch(ctx, GamesPath(lang))
	if err != nil {
		return nil, err
	}
	var games []Game
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", GamesPath(lang), err)
	}
	return games, nil
}

func (c *Client) fetch(ctx context.Context, name string) ([]byte, error) {
	if c.baseURL != "" {
		return c.fetchRemote(ctx, name)
	}
	return c.fetchLocal(name)
}

func (c *Client) fetchRemote(ctx context.Context, name string) ([]byte, error) {
	endpoint, err := url.JoinPath(strings.TrimRight(c.baseURL, "/"), name)
	if err != nil {
		return nil, fmt.Errorf("catalog: join %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	// always bypass intermediary caches
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Path: name, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) fetchLocal(name string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	return raw, nil
}
