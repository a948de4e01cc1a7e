package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repo is the source-payload cache backed by the api_cache table.
// Entries are keyed by "<source>:<identifier>" and carry an absolute
// expiry; Get never serves an expired row.
type Repo struct {
	DB  *sql.DB
	Now func() time.Time // injectable for tests; defaults to time.Now
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db, Now: time.Now}
}

// Key builds the canonical cache key for one source + identifier pair.
func Key(source, scientificName string) string {
	return source + ":" + scientificName
}

// Get returns the cached payload for key, or ok=false when the key is
// absent or its expiry has passed.
func (r *Repo) Get(ctx context.Context, key string) (payload string, ok bool, err error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT data, expires_at
		FROM api_cache
		WHERE cache_key = ?
	`, key)

	var (
		data      string
		expiresAt time.Time
	)
	if err := row.Scan(&data, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get scan: %w", err)
	}

	if !r.Now().Before(expiresAt) {
		return "", false, nil
	}
	return data, true, nil
}

// Put stores payload under key with the given freshness window,
// replacing any prior entry and resetting its expiry.
func (r *Repo) Put(ctx context.Context, key, source, payload string, ttl time.Duration) error {
	now := r.Now()
	_, err := r.DB.ExecContext(ctx, `
		INSERT OR REPLACE INTO api_cache (cache_key, data, source, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, payload, source, now.Add(ttl), now)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// PurgeExpired deletes every entry whose expiry has passed. Safe to call
// at any time; rows still fresh are untouched.
func (r *Repo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM api_cache WHERE expires_at <= ?`, r.Now())
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
