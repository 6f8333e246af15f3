// Package cache maps generation request fingerprints to previously produced
// artifacts on durable storage, with a size-bounded LRU index in SQLite.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	_ "modernc.org/sqlite"
)

// ErrCacheCorrupt marks a stored artifact that could not be read back. The
// entry is evicted and the lookup treated as a miss.
var ErrCacheCorrupt = errors.New("cache entry corrupt")

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS entries (
	fingerprint TEXT PRIMARY KEY,
	location    TEXT NOT NULL,
	byte_size   INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	last_access INTEGER NOT NULL
);
`

// Artifact is a cached generation result.
type Artifact struct {
	Fingerprint string
	Location    string
	Data        []byte
}

// Stats summarizes cache occupancy.
type Stats struct {
	Entries   int
	TotalSize int64
}

// Cache enforces a maximum aggregate artifact size via least-recently-used
// eviction and guarantees at most one concurrent production per fingerprint.
type Cache struct {
	db       *sql.DB
	store    Store
	maxBytes int64
	log      zerolog.Logger

	group singleflight.Group
	mu    sync.Mutex // guards index mutation and size accounting
}

// Open opens (or creates) the cache index at dbPath. maxBytes <= 0 disables
// eviction.
func Open(dbPath string, store Store, maxBytes int64, log zerolog.Logger) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache index: %w", err)
	}
	if _, err := db.Exec(createEntriesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache index: %w", err)
	}
	return &Cache{db: db, store: store, maxBytes: maxBytes, log: log}, nil
}

// Close closes the index database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetOrCreate returns the cached artifact for fingerprint, or runs produce
// to create it. Concurrent callers with the same fingerprint share a single
// produce invocation; if it fails, the failure propagates to every waiter
// and no entry is created.
func (c *Cache) GetOrCreate(ctx context.Context, fingerprint string, produce func(ctx context.Context) ([]byte, error)) (*Artifact, error) {
	v, err, _ := c.group.Do(fingerprint, func() (interface{}, error) {
		if art, ok := c.lookup(fingerprint); ok {
			c.log.Debug().Str("fingerprint", fingerprint).Msg("cache hit")
			return art, nil
		}

		c.log.Debug().Str("fingerprint", fingerprint).Msg("cache miss, producing")
		data, err := produce(ctx)
		if err != nil {
			return nil, err
		}
		return c.insert(fingerprint, data)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

// lookup returns the stored artifact, refreshing its last-access time. An
// unreadable artifact evicts the entry and reads as a miss, so the caller
// regenerates it once.
func (c *Cache) lookup(fingerprint string) (*Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var location string
	err := c.db.QueryRow(
		`SELECT location FROM entries WHERE fingerprint = ?`, fingerprint,
	).Scan(&location)
	if err != nil {
		return nil, false
	}

	data, err := c.store.Load(location)
	if err != nil {
		c.log.Warn().
			Str("fingerprint", fingerprint).
			Str("location", location).
			Err(fmt.Errorf("%w: %v", ErrCacheCorrupt, err)).
			Msg("evicting unreadable cache entry")
		c.deleteEntry(fingerprint, location)
		return nil, false
	}

	_, err = c.db.Exec(
		`UPDATE entries SET last_access = ? WHERE fingerprint = ?`,
		time.Now().UnixNano(), fingerprint,
	)
	if err != nil {
		c.log.Warn().Err(err).Msg("refreshing last-access failed")
	}

	return &Artifact{Fingerprint: fingerprint, Location: location, Data: data}, true
}

// insert persists the artifact, records the entry, and evicts until the
// aggregate size is back under the ceiling.
func (c *Cache) insert(fingerprint string, data []byte) (*Artifact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	location, err := c.store.Save(fingerprint, data)
	if err != nil {
		return nil, fmt.Errorf("persisting artifact: %w", err)
	}

	now := time.Now().UnixNano()
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO entries (fingerprint, location, byte_size, created_at, last_access)
		 VALUES (?, ?, ?, ?, ?)`,
		fingerprint, location, int64(len(data)), now, now,
	)
	if err != nil {
		// Keep accounting consistent: no index row, no artifact.
		_ = c.store.Delete(location)
		return nil, fmt.Errorf("recording cache entry: %w", err)
	}

	if err := c.evict(); err != nil {
		return nil, err
	}

	return &Artifact{Fingerprint: fingerprint, Location: location, Data: data}, nil
}

// evict removes least-recently-used entries (ties broken by oldest
// creation) until the aggregate size fits the ceiling. Callers hold c.mu.
func (c *Cache) evict() error {
	if c.maxBytes <= 0 {
		return nil
	}

	for {
		var total int64
		err := c.db.QueryRow(`SELECT COALESCE(SUM(byte_size), 0) FROM entries`).Scan(&total)
		if err != nil {
			return fmt.Errorf("summing cache size: %w", err)
		}
		if total <= c.maxBytes {
			return nil
		}

		var fingerprint, location string
		err = c.db.QueryRow(
			`SELECT fingerprint, location FROM entries
			 ORDER BY last_access ASC, created_at ASC LIMIT 1`,
		).Scan(&fingerprint, &location)
		if err != nil {
			return fmt.Errorf("selecting eviction victim: %w", err)
		}

		c.log.Debug().
			Str("fingerprint", fingerprint).
			Int64("total_bytes", total).
			Int64("max_bytes", c.maxBytes).
			Msg("evicting cache entry")
		c.deleteEntry(fingerprint, location)
	}
}

// deleteEntry drops the index row and the stored artifact. Callers hold c.mu.
func (c *Cache) deleteEntry(fingerprint, location string) {
	if _, err := c.db.Exec(`DELETE FROM entries WHERE fingerprint = ?`, fingerprint); err != nil {
		c.log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("deleting cache entry failed")
	}
	if err := c.store.Delete(location); err != nil {
		c.log.Warn().Err(err).Str("location", location).Msg("deleting artifact failed")
	}
}

// Invalidate removes a single entry, if present.
func (c *Cache) Invalidate(fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var location string
	err := c.db.QueryRow(
		`SELECT location FROM entries WHERE fingerprint = ?`, fingerprint,
	).Scan(&location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up cache entry: %w", err)
	}

	c.deleteEntry(fingerprint, location)
	return nil
}

// Clear removes every entry and its artifact.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`SELECT fingerprint, location FROM entries`)
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}
	type entry struct{ fingerprint, location string }
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.fingerprint, &e.location); err != nil {
			rows.Close()
			return fmt.Errorf("scanning cache entry: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}

	for _, e := range entries {
		c.deleteEntry(e.fingerprint, e.location)
	}
	return nil
}

// Stats returns entry count and aggregate byte size.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	err := c.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(byte_size), 0) FROM entries`,
	).Scan(&s.Entries, &s.TotalSize)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return s, nil
}
