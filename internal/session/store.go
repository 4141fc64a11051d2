// Package session holds the client-side authentication state: who is logged
// in, the bearer token they hold, and the one-time startup verification of a
// previously persisted token.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrIncompleteSession  = errors.New("session requires both a token and an identified user")
	ErrInvalidCredentials = errors.New("email and password are required")
)

// TokenStore persists the bearer token between process runs.
// Load returns an empty string and no error when nothing is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// Session is a point-in-time snapshot of the authentication state
type Session struct {
	Token     string
	User      *User
	IsLoading bool
}

// IsAuthenticated is true only when both token and user are present and the
// startup verification has finished.
func (s Session) IsAuthenticated() bool {
	return !s.IsLoading && s.Token != "" && s.User != nil
}

// Store is the single source of truth for the current session.
// Every transition is pushed to subscribers.
type Store struct {
	mu      sync.Mutex
	current Session
	tokens  TokenStore
	log     zerolog.Logger

	subMu  sync.Mutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(Session)
}

// NewStore creates an empty store in the loading state
func NewStore(tokens TokenStore, log zerolog.Logger) *Store {
	return &Store{
		current: Session{IsLoading: true},
		tokens:  tokens,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// Session returns the current snapshot
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() Session {
	out := s.current
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// PersistedToken reads the token slot without touching in-memory state
func (s *Store) PersistedToken() (string, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return "", fmt.Errorf("failed to read persisted token: %w", err)
	}
	return token, nil
}

// SetAuthenticated replaces token and user together. Nothing is applied if
// the token cannot be persisted.
func (s *Store) SetAuthenticated(token string, user *User) error {
	if token == "" || user == nil || user.ID == "" {
		return ErrIncompleteSession
	}

	s.mu.Lock()
	if err := s.tokens.Save(token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist token: %w", err)
	}
	u := *user
	s.current = Session{Token: token, User: &u}
	snap := s.snapshot()
	s.mu.Unlock()

	s.log.Debug().Str("user_id", u.ID).Msg("Session authenticated")
	s.notify(snap)
	return nil
}

// Clear drops token and user and removes the persisted token.
// Clearing an already empty session changes nothing and notifies nobody.
func (s *Store) Clear() error {
	s.mu.Lock()
	err := s.tokens.Delete()
	changed := s.current.Token != "" || s.current.User != nil
	s.current.Token = ""
	s.current.User = nil
	snap := s.snapshot()
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to remove persisted token")
	}
	if changed {
		s.log.Debug().Msg("Session cleared")
		s.notify(snap)
	}
	if err != nil {
		return fmt.Errorf("failed to remove persisted token: %w", err)
	}
	return nil
}

// Resolve marks the startup verification as finished
func (s *Store) Resolve() {
	s.mu.Lock()
	if !s.current.IsLoading {
		s.mu.Unlock()
		return
	}
	s.current.IsLoading = false
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
}

// Subscribe registers fn to receive every new snapshot. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(snap Session) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}
