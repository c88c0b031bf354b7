// Package storage is the client's durable local state: a SQLite-backed
// key-value store standing in for the browser's origin-scoped storage.
// It holds the session record (token marker + user identity) and the
// liked-posts fallback set.
//
// Individual reads and writes are atomic, but a read-modify-write cycle is
// not; Update serializes such cycles per key so that two concurrent toggles
// never clobber each other's persisted state.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/merimaa/feedclient/internal/dbx"
)

// Well-known keys.
const (
	KeyAuthToken  = "auth_token"
	KeyUser       = "user"
	KeyLikedPosts = "liked_posts"
)

type Store struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// keyLock returns the mutex serializing read-modify-write cycles for key.
func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM localstate WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get localstate[%s]: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO localstate (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set localstate[%s]: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM localstate WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete localstate[%s]: %w", key, err)
	}
	return nil
}

// Clear wipes all local state.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM localstate`)
	if err != nil {
		return fmt.Errorf("failed to clear localstate: %w", err)
	}
	return nil
}

// Update runs a serialized read-modify-write on key: fn receives the current
// value (nil when absent) and returns the replacement. The cycle holds the
// per-key lock and runs inside a transaction, so concurrent updates to the
// same key are applied one after another, never interleaved.
func (s *Store) Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var old []byte
		err := tx.QueryRowContext(ctx, `SELECT value FROM localstate WHERE key = ?`, key).Scan(&old)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to read localstate[%s]: %w", key, err)
		}

		next, err := fn(old)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO localstate (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, next); err != nil {
			return fmt.Errorf("failed to write localstate[%s]: %w", key, err)
		}
		return nil
	})
}
