// Package openlibrary searches the OpenLibrary API and conforms work
// records to the catalog's Book shape.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lepinkainen/bookwyrm/internal/book"
	"github.com/lepinkainen/bookwyrm/internal/cache"
	"github.com/lepinkainen/bookwyrm/internal/ratelimit"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org/b"
)

const cacheTable = "openlibrary_cache"

// ErrNoResults reports a search that completed but matched nothing.
var ErrNoResults = fmt.Errorf("no results from OpenLibrary")

// Client queries the OpenLibrary search and books APIs. OpenLibrary asks
// for at most one request per second, enforced by the limiter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	coversURL  string
	limiter    *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithCoversURL overrides the covers endpoint, for tests.
func WithCoversURL(u string) Option {
	return func(c *Client) { c.coversURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an OpenLibrary client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		coversURL:  defaultCoversURL,
		limiter:    ratelimit.New("OpenLibrary", 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries works by free text and conforms each result.
func (c *Client) Search(ctx context.Context, query string) ([]book.Book, error) {
	resp, err := c.search(ctx, url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}
	books := make([]book.Book, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		books = append(books, c.conformSearchResult(doc, ""))
	}
	return books, nil
}

// SearchISBN looks up the work for an ISBN, cached. The given ISBN is
// kept in the result even when OpenLibrary lists others.
func (c *Client) SearchISBN(ctx context.Context, isbn string) (book.Book, error) {
	if isbn == "" {
		return book.Book{}, fmt.Errorf("ISBN is required")
	}
	doc, _, err := cache.GetOrFetch(cacheTable, isbn, func() (*SearchResult, error) {
		resp, err := c.search(ctx, url.Values{"isbn": {isbn}})
		if err != nil {
			return nil, err
		}
		if resp.NumFound == 0 || len(resp.Docs) == 0 {
			return nil, fmt.Errorf("%w for ISBN %s", ErrNoResults, isbn)
		}
		return &resp.Docs[0], nil
	})
	if err != nil {
		return book.Book{}, err
	}

	b := c.conformSearchResult(*doc, isbn)

	// Search docs carry no description; the work record does.
	if b.Description == "" && doc.Key != "" {
		if w, err := c.Work(ctx, doc.Key); err != nil {
			slog.Warn("OpenLibrary work fetch failed", "key", doc.Key, "error", err)
		} else {
			b.Description = w.DescriptionText()
		}
	}
	return b, nil
}

// Work fetches a work record by its key ("/works/OL893415W"), cached.
func (c *Client) Work(ctx context.Context, key string) (*Work, error) {
	if key == "" {
		return nil, fmt.Errorf("work key is required")
	}
	w, _, err := cache.GetOrFetch(cacheTable, "work:"+key, func() (*Work, error) {
		var w Work
		endpoint := fmt.Sprintf("%s%s.json", c.baseURL, key)
		if err := c.getJSON(ctx, endpoint, &w); err != nil {
			return nil, fmt.Errorf("openLibrary work fetch failed for %s: %w", key, err)
		}
		return &w, nil
	})
	return w, err
}

func (c *Client) search(ctx context.Context, params url.Values) (*SearchResponse, error) {
	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	var resp SearchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("openLibrary search failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
