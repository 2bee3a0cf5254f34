// Package googlebooks looks up volumes in the Google Books API and
// conforms them to the catalog's Book shape.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lepinkainen/bookwyrm/internal/book"
	"github.com/lepinkainen/bookwyrm/internal/cache"
	"github.com/lepinkainen/bookwyrm/internal/ratelimit"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

const cacheTable = "googlebooks_cache"

// Client queries the Google Books volumes API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Google Books client. The API key is optional; the
// volumes endpoints work without one at lower quota.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		limiter:    ratelimit.New("GoogleBooks", 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeISBN strips hyphens and spaces from an ISBN.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// Search queries the volumes endpoint and conforms each result.
func (c *Client) Search(ctx context.Context, query string) ([]book.Book, error) {
	result, err := c.searchVolumes(ctx, query)
	if err != nil {
		return nil, err
	}
	books := make([]book.Book, 0, len(result.Items))
	for _, v := range result.Items {
		books = append(books, conformVolume(v))
	}
	return books, nil
}

// SearchISBN searches volumes by ISBN, cached.
func (c *Client) SearchISBN(ctx context.Context, isbn string) ([]book.Book, error) {
	isbn = NormalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("ISBN is required")
	}
	result, _, err := cache.GetOrFetch(cacheTable, "isbn:"+isbn, func() (*VolumeSearch, error) {
		return c.searchVolumes(ctx, "isbn:"+isbn)
	})
	if err != nil {
		return nil, err
	}
	books := make([]book.Book, 0, len(result.Items))
	for _, v := range result.Items {
		books = append(books, conformVolume(v))
	}
	return books, nil
}

// Volume fetches one volume by id and conforms it, cached.
func (c *Client) Volume(ctx context.Context, id string) (book.Book, error) {
	if id == "" {
		return book.Book{}, fmt.Errorf("volume id is required")
	}
	v, fromCache, err := cache.GetOrFetch(cacheTable, "volume:"+id, func() (*Volume, error) {
		return c.getVolume(ctx, id)
	})
	if err != nil {
		return book.Book{}, err
	}
	slog.Debug("Fetched Google Books volume", "id", id, "from_cache", fromCache)
	return conformVolume(*v), nil
}

func (c *Client) searchVolumes(ctx context.Context, query string) (*VolumeSearch, error) {
	endpoint := fmt.Sprintf("%s/volumes?q=%s", c.baseURL, url.QueryEscape(query))
	if c.apiKey != "" {
		endpoint += "&key=" + url.QueryEscape(c.apiKey)
	}

	var result VolumeSearch
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("google Books search failed for %q: %w", query, err)
	}
	return &result, nil
}

func (c *Client) getVolume(ctx context.Context, id string) (*Volume, error) {
	endpoint := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(id))
	if c.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(c.apiKey)
	}

	var v Volume
	if err := c.getJSON(ctx, endpoint, &v); err != nil {
		return nil, fmt.Errorf("google Books volume fetch failed for %s: %w", id, err)
	}
	return &v, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
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
