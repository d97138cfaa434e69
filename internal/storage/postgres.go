package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL, tuned for CloudNativePG clusters
func NewPostgresStore(connString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute) // recycle across failovers
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Kubernetes DNS can lag behind the pod coming up
	if err := pingWithRetry(db, 5, 5*time.Second); err != nil {
		db.Close()
		return nil, err
	}

	p := &PostgresStore{db: db}
	if err := p.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func pingWithRetry(db *sql.DB, attempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("failed to ping postgres after %d retries: %w", attempts, lastErr)
}

func (p *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS local_storage (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (session_id, key)
	);
	CREATE INDEX IF NOT EXISTS idx_local_storage_updated_at ON local_storage (updated_at);
	`
	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create local_storage table: %w", err)
	}
	return nil
}

func (p *PostgresStore) GetItem(ctx context.Context, session, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE session_id = $1 AND key = $2`,
		session, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (p *PostgresStore) SetItem(ctx context.Context, session, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO local_storage (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, session, key, value)
	return err
}

func (p *PostgresStore) RemoveItem(ctx context.Context, session, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM local_storage WHERE session_id = $1 AND key = $2`, session, key)
	return err
}

func (p *PostgresStore) Clear(ctx context.Context, session string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM local_storage WHERE session_id = $1`, session)
	return err
}

// PurgeOlderThan removes items not written for the given age and returns
// how many rows went away.
func (p *PostgresStore) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM local_storage WHERE updated_at < NOW() - $1::interval`,
		fmt.Sprintf("%d seconds", int64(age.Seconds())),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
