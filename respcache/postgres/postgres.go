// Package postgres backs respcache with a shared PostgreSQL table so several
// client processes can reuse one response cache. The contract matches the
// in-memory store: lookups are best-effort, and any database error degrades
// to a miss rather than failing the request.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mietwerk/mietwerk-go/respcache"
)

var ErrMissingDSN = errors.New("respcache/postgres: DSN is required")

// SharedStore implements respcache.Store on top of *sql.DB.
type SharedStore struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

var _ respcache.Store = (*SharedStore)(nil)

// Open connects to PostgreSQL, applies pool settings, and wraps the
// connection in a SharedStore. The cache table is not created here; run
// Migrate once at startup.
func Open(opts ...Option) (*SharedStore, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.DSN == "" {
		return nil, ErrMissingDSN
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("respcache/postgres: open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("respcache/postgres: ping: %w", err)
	}

	return NewSharedStore(db, opts...), nil
}

// NewSharedStore wraps an existing connection.
func NewSharedStore(db *sql.DB, opts ...Option) *SharedStore {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &SharedStore{db: db, opts: cfg, now: time.Now}
}

// WithClock overrides the time source (useful for tests).
func (s *SharedStore) WithClock(fn func() time.Time) *SharedStore {
	if fn != nil {
		s.now = fn
	}
	return s
}

// Migrate creates the cache table and its path index if they do not exist.
func (s *SharedStore) Migrate(ctx context.Context) error {
	table := pq.QuoteIdentifier(s.opts.Table)
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			cache_key  TEXT PRIMARY KEY,
			path       TEXT NOT NULL,
			body       JSONB NOT NULL,
			stored_at  TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (path)`,
			pq.QuoteIdentifier(s.opts.Table+"_path_idx"), table),
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("respcache/postgres: migrate: %w", err)
		}
	}
	return nil
}

func (s *SharedStore) Get(path string, params map[string]string) (json.RawMessage, bool) {
	ctx, cancel := s.opCtx()
	defer cancel()

	key := respcache.Key(path, params)
	query := fmt.Sprintf(`SELECT body, expires_at FROM %s WHERE cache_key = $1`, pq.QuoteIdentifier(s.opts.Table))

	var body []byte
	var expiresAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, key).Scan(&body, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false
	case err != nil:
		s.opts.Logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}

	if expiresAt.Valid && !s.now().Before(expiresAt.Time) {
		s.evict(key)
		return nil, false
	}
	return body, true
}

func (s *SharedStore) Set(path string, params map[string]string, value json.RawMessage, ttl time.Duration) {
	ctx, cancel := s.opCtx()
	defer cancel()

	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: s.now().Add(ttl), Valid: true}
	}

	query := fmt.Sprintf(`INSERT INTO %s (cache_key, path, body, stored_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cache_key) DO UPDATE
		SET path = EXCLUDED.path, body = EXCLUDED.body,
		    stored_at = EXCLUDED.stored_at, expires_at = EXCLUDED.expires_at`,
		pq.QuoteIdentifier(s.opts.Table))

	if _, err := s.db.ExecContext(ctx, query, respcache.Key(path, params), path, []byte(value), s.now(), expiresAt); err != nil {
		s.opts.Logger.Warn().Err(err).Str("path", path).Msg("cache write failed")
	}
}

func (s *SharedStore) Invalidate(pathSubstring string) int {
	ctx, cancel := s.opCtx()
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE path LIKE '%%' || $1 || '%%'`, pq.QuoteIdentifier(s.opts.Table))
	res, err := s.db.ExecContext(ctx, query, pathSubstring)
	if err != nil {
		s.opts.Logger.Warn().Err(err).Str("pattern", pathSubstring).Msg("cache invalidation failed")
		return 0
	}
	removed, _ := res.RowsAffected()
	return int(removed)
}

func (s *SharedStore) Clear() {
	ctx, cancel := s.opCtx()
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s`, pq.QuoteIdentifier(s.opts.Table))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		s.opts.Logger.Warn().Err(err).Msg("cache clear failed")
	}
}

// Sweep eagerly removes expired rows; shared deployments typically run this
// from a periodic job on one process.
func (s *SharedStore) Sweep(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at <= $1`, pq.QuoteIdentifier(s.opts.Table))
	res, err := s.db.ExecContext(ctx, query, s.now())
	if err != nil {
		return 0, fmt.Errorf("respcache/postgres: sweep: %w", err)
	}
	removed, _ := res.RowsAffected()
	return int(removed), nil
}

// Close releases the underlying connection pool.
func (s *SharedStore) Close() error {
	return s.db.Close()
}

func (s *SharedStore) evict(key string) {
	ctx, cancel := s.opCtx()
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE cache_key = $1 AND expires_at IS NOT NULL AND expires_at <= $2`,
		pq.QuoteIdentifier(s.opts.Table))
	if _, err := s.db.ExecContext(ctx, query, key, s.now()); err != nil {
		s.opts.Logger.Warn().Err(err).Str("key", key).Msg("cache eviction failed")
	}
}

func (s *SharedStore) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opts.OpTimeout)
}
