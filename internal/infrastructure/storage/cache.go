package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"

	"wdireport/internal/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	url        TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	fetched_at TEXT NOT NULL
);`

// ResponseCache keeps raw API response bodies in a local SQLite database so
// repeated runs stay off the network. Entries older than the TTL count as
// misses and are pruned on access.
type ResponseCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ ports.ResponseCache = (*ResponseCache)(nil)

// Open opens or creates the cache database at path, creating the parent
// directory if needed. A non-positive ttl means entries never expire.
func Open(path string, ttl time.Duration) (*ResponseCache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &ResponseCache{db: db, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Get returns the cached body for key, or ok=false on a miss. Expired
// entries are deleted and reported as misses.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := sq.Select("body", "fetched_at").
		From("responses").
		Where(sq.Eq{"url": key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build select: %w", err)
	}

	var body []byte
	var fetchedAt string
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	if c.expired(fetchedAt) {
		if err := c.delete(ctx, key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	return body, true, nil
}

// Put upserts the body for key, stamping it with the current time.
func (c *ResponseCache) Put(ctx context.Context, key string, body []byte) error {
	query, args, err := sq.Insert("responses").
		Columns("url", "body", "fetched_at").
		Values(key, body, c.now().Format(time.RFC3339)).
		Suffix("ON CONFLICT(url) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *ResponseCache) Close() error {
	return c.db.Close()
}

func (c *ResponseCache) expired(fetchedAt string) bool {
	if c.ttl <= 0 {
		return false
	}
	stamp, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return true
	}
	return c.now().Sub(stamp) > c.ttl
}

func (c *ResponseCache) delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete("responses").Where(sq.Eq{"url": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune cache entry: %w", err)
	}
	return nil
}
