// Package cache provides a SQLite-backed response cache for metadata
// provider lookups, so repeated searches for the same ISBN or volume id
// do not hit the network.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTTL is the time-to-live for cached provider responses (30 days).
const DefaultTTL = 720 * time.Hour

// FetchFunc fetches data from an external source on cache miss.
type FetchFunc[T any] func() (T, error)

// DB manages the SQLite connection backing the cache.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
	ttl  time.Duration
}

var (
	global     *DB
	globalOnce sync.Once
)

// Init opens the global cache at dbPath with the given TTL and creates
// the provider tables. Safe to call once per process; commands call it
// before touching the provider clients.
func Init(dbPath string, ttl time.Duration) error {
	var initErr error
	globalOnce.Do(func() {
		global, initErr = NewDB(dbPath, ttl)
		if initErr != nil {
			return
		}
		initErr = global.InitSchema()
	})
	return initErr
}

// Reset closes and clears the global cache so the next Init creates a new
// instance. Primarily for tests.
func Reset() error {
	var err error
	if global != nil {
		err = global.Close()
	}
	global = nil
	globalOnce = sync.Once{}
	return err
}

// NewDB opens a cache database at dbPath.
func NewDB(dbPath string, ttl time.Duration) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("connecting to cache database: %w", err), closeErr)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DB{db: db, path: dbPath, ttl: ttl}, nil
}

// InitSchema creates the provider cache tables if they do not exist.
func (c *DB) InitSchema() error {
	for _, schema := range allSchemas {
		if err := c.createTable(schema); err != nil {
			return fmt.Errorf("creating cache table: %w", err)
		}
	}
	return nil
}

func (c *DB) createTable(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the cached payload for key if present and not expired.
func (c *DB) Get(table, key string) (string, bool, error) {
	if err := validateTableName(table); err != nil {
		return "", false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var data, cachedAt string
	query := fmt.Sprintf("SELECT data, cached_at FROM %s WHERE cache_key = ?", table)
	err := c.db.QueryRow(query, key).Scan(&data, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}
	// SQLite stores CURRENT_TIMESTAMP as UTC "YYYY-MM-DD HH:MM:SS".
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", cachedAt, time.UTC)
	if err != nil {
		return "", false, nil
	}
	if time.Since(ts) > c.ttl {
		return "", false, nil
	}
	return data, true, nil
}

// Set stores a payload for key, replacing any existing entry.
func (c *DB) Set(table, key, data string) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (cache_key, data, cached_at) VALUES (?, ?, CURRENT_TIMESTAMP)", table)
	if _, err := c.db.Exec(query, key, data); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Invalidate deletes all entries from the given cache table and returns
// the number of rows removed.
func (c *DB) Invalidate(table string) (int64, error) {
	if err := validateTableName(table); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("clearing cache table: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	slog.Debug("Cache table cleared", "table", table, "rows_deleted", rows)
	return rows, nil
}

// GetOrFetch retrieves JSON-encoded data from the cache or fetches it via
// fetchFunc on a miss. When the global cache is unavailable it degrades
// to a direct fetch. The bool reports whether the value came from cache.
func GetOrFetch[T any](table, key string, fetchFunc FetchFunc[T]) (T, bool, error) {
	var zero T

	if global == nil {
		return fetchDirect(table, key, fetchFunc)
	}

	cached, hit, err := global.Get(table, key)
	if err == nil && hit {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			slog.Debug("Cache hit", "table", table, "key", key)
			return result, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, refetching", "table", table, "key", key)
	}

	slog.Debug("Cache miss, fetching", "table", table, "key", key)
	data, err := fetchFunc()
	if err != nil {
		return zero, false, err
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "table", table, "key", key, "error", err)
		return data, false, nil
	}
	if err := global.Set(table, key, string(encoded)); err != nil {
		slog.Warn("Failed to write cache entry", "table", table, "key", key, "error", err)
	}
	return data, false, nil
}

func fetchDirect[T any](table, key string, fetchFunc FetchFunc[T]) (T, bool, error) {
	slog.Debug("Cache not initialized, fetching directly", "table", table, "key", key)
	data, err := fetchFunc()
	return data, false, err
}
