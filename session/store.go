// Package session keeps the authenticated identity and backend token of one browser.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/chess-portal/models"
)

var (
	ErrEmptyToken       = errors.New("session token must not be empty")
	ErrNoIdentity       = errors.New("session identity must not be nil")
	ErrNotAuthenticated = errors.New("session is not authenticated")
)

// KeyValue is the storage underneath a Store.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store holds one browser's session. Token and identity are stored as a single
// record, so they are written and cleared together.
type Store struct {
	kv     KeyValue
	key    string
	logger *slog.Logger
}

func NewStore(kv KeyValue, sessionID string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, key: sessionID + "/session", logger: logger}
}

func (s *Store) Set(ctx context.Context, identity models.Identity, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if identity == nil {
		return ErrNoIdentity
	}
	return s.write(ctx, models.Session{Token: token, Identity: identity})
}

// Get returns the stored session or the empty session. It never fails; read
// errors are logged and reported as the empty state.
func (s *Store) Get(ctx context.Context) models.Session {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("session read failed", slog.String("key", s.key), slog.Any("error", err))
		return models.Session{}
	}
	if !ok {
		return models.Session{}
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.Warn("session decode failed", slog.String("key", s.key), slog.Any("error", err))
		return models.Session{}
	}
	return sess
}

func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.Get(ctx).Token != ""
}

// Clear is idempotent.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ReplaceIdentity swaps the identity wholesale and keeps the token.
func (s *Store) ReplaceIdentity(ctx context.Context, identity models.Identity) error {
	if identity == nil {
		return ErrNoIdentity
	}
	current := s.Get(ctx)
	if current.Token == "" {
		return ErrNotAuthenticated
	}
	return s.write(ctx, models.Session{Token: current.Token, Identity: identity})
}

func (s *Store) write(ctx context.Context, sess models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

type contextKey string

const storeContextKey contextKey = "session_store"

// WithStore returns a context carrying the request's session store.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeContextKey).(*Store)
	return s, ok
}
