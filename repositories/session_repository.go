package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrSessionCorrupted = errors.New("stored session value cannot be decrypted")

const nonceSize = 24

// SessionRepository is a key-value store for portal sessions.
type SessionRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type postgresSessionRepository struct {
	db  *sql.DB
	key *[32]byte
}

// NewPostgresSessionRepository stores values in portal_sessions. When key is not nil,
// values are sealed with secretbox before they reach the database.
func NewPostgresSessionRepository(db *sql.DB, key *[32]byte) SessionRepository {
	return &postgresSessionRepository{db: db, key: key}
}

// EnsureSessionSchema создаёт таблицу сессий, если её ещё нет.
func EnsureSessionSchema(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS portal_sessions (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create portal_sessions table: %w", err)
	}
	return nil
}

func (r *postgresSessionRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM portal_sessions WHERE key = $1`

	var stored []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read session %s: %w", key, err)
	}

	value, err := r.open(stored)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *postgresSessionRepository) Put(ctx context.Context, key string, value []byte) error {
	sealed, err := r.seal(value)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO portal_sessions (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, sealed); err != nil {
		return fmt.Errorf("failed to write session %s: %w", key, err)
	}
	return nil
}

func (r *postgresSessionRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM portal_sessions WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", key, err)
	}
	return nil
}

func (r *postgresSessionRepository) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM portal_sessions WHERE updated_at < $1`
	result, err := r.db.ExecContext(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func (r *postgresSessionRepository) seal(value []byte) ([]byte, error) {
	if r.key == nil {
		return value, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], value, &nonce, r.key), nil
}

func (r *postgresSessionRepository) open(stored []byte) ([]byte, error) {
	if r.key == nil {
		return stored, nil
	}
	if len(stored) < nonceSize+secretbox.Overhead {
		return nil, ErrSessionCorrupted
	}
	var nonce [nonceSize]byte
	copy(nonce[:], stored[:nonceSize])
	value, ok := secretbox.Open(nil, stored[nonceSize:], &nonce, r.key)
	if !ok {
		return nil, ErrSessionCorrupted
	}
	return value, nil
}
