package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Credentials are the login inputs. They are never stored.
type Credentials struct {
	Email  string `validate:"required,email"`
	Secret string `validate:"required"`
}

// Service performs login and logout against a Store and a Gateway
type Service struct {
	store    *Store
	gateway  Gateway
	validate *validator.Validate
	log      zerolog.Logger

	// mu serializes login/logout so a login never interleaves with a logout
	mu sync.Mutex

	redirectMu sync.RWMutex
	redirect   func()
}

// NewService creates a session service
func NewService(store *Store, gateway Gateway, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		validate: validator.New(),
		log:      log.With().Str("component", "auth").Logger(),
	}
}

// OnExpire sets the callback run after an expired session is cleared
func (s *Service) OnExpire(fn func()) {
	s.redirectMu.Lock()
	defer s.redirectMu.Unlock()
	s.redirect = fn
}

// Login authenticates and, on success, replaces the current session.
// A rejected login leaves the session as it was.
func (s *Service) Login(ctx context.Context, creds Credentials) (*User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := s.validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	grant, err := s.gateway.Login(ctx, creds.Email, creds.Secret)
	if err != nil {
		s.log.Info().Err(err).Msg("Login rejected")
		return nil, err
	}
	if grant == nil || grant.Token == "" {
		return nil, fmt.Errorf("login response did not include a token")
	}

	previous := s.store.Session().Token
	s.gateway.SetToken(grant.Token)

	user := grant.User
	if user == nil {
		user, err = s.gateway.GetProfile(WithoutExpiry(ctx))
		if err != nil {
			s.log.Warn().Err(err).Msg("Profile fetch after login failed, clearing session")
			s.gateway.SetToken("")
			if err := s.store.Clear(); err != nil {
				s.log.Warn().Err(err).Msg("Failed to clear session")
			}
			return nil, err
		}
	}

	if err := s.store.SetAuthenticated(grant.Token, user); err != nil {
		s.gateway.SetToken(previous)
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("Logged in")
	return user, nil
}

// Logout ends the session locally. The backend is not contacted.
func (s *Service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gateway.SetToken("")
	return s.store.Clear()
}

// Expire handles a session the backend no longer accepts: it clears local
// state and sends the user back to the login entry point.
func (s *Service) Expire() {
	s.gateway.SetToken("")
	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear expired session")
	}

	s.redirectMu.RLock()
	redirect := s.redirect
	s.redirectMu.RUnlock()

	s.log.Info().Msg("Session expired")
	if redirect != nil {
		redirect()
	}
}

// ReplaceUser swaps the stored user for a fresh copy from the backend, for
// example after a profile edit. The token is kept.
func (s *Service) ReplaceUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.store.Session()
	if current.Token == "" {
		return ErrIncompleteSession
	}
	return s.store.SetAuthenticated(current.Token, user)
}
