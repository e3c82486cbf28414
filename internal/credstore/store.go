// Package credstore is the durable identity cache: the bearer token and
// username written once at login completion, plus a stable client id generated
// on first run. Values live in a small sqlite key-value table and are held in
// memory after Open, so reads never touch the database.
package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	keyToken    = "auth_token"
	keyUsername = "username"
	keyClientID = "client_id"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type Store struct {
	db *sqlx.DB

	mu       sync.RWMutex
	token    string
	username string
	clientID string
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	// One writer at a time keeps the sqlite driver happy.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init credential store: %w", err)
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	ctx := context.Background()

	var err error
	if s.token, err = s.get(ctx, keyToken); err != nil {
		return err
	}
	if s.username, err = s.get(ctx, keyUsername); err != nil {
		return err
	}
	if s.clientID, err = s.get(ctx, keyClientID); err != nil {
		return err
	}

	if s.clientID == "" {
		s.clientID = uuid.NewString()
		if err := s.set(ctx, keyClientID, s.clientID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM credentials WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// ClientID survives logout; it identifies the installation, not the user.
func (s *Store) ClientID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientID
}

// SetIdentity persists the bearer token and username. The login flow's OTP
// completion step is the only caller.
func (s *Store) SetIdentity(ctx context.Context, token, username string) error {
	if err := s.set(ctx, keyToken, token); err != nil {
		return err
	}
	if err := s.set(ctx, keyUsername, username); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.username = username
	s.mu.Unlock()
	return nil
}

// Clear drops the stored identity (logout) but keeps the client id.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE key IN (?, ?)`, keyToken, keyUsername)
	if err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}

	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
