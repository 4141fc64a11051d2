package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Grant is what the backend hands back after a successful login.
// User is nil when the backend only returns the token.
type Grant struct {
	Token string
	User  *User
}

// Gateway is the backend surface the session layer needs
type Gateway interface {
	Login(ctx context.Context, email, secret string) (*Grant, error)
	GetProfile(ctx context.Context) (*User, error)
	SetToken(token string)
}

type ctxKey struct{}

// WithoutExpiry marks a gateway call whose 401 the caller handles itself.
// The global expiry policy does not run for it.
func WithoutExpiry(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, true)
}

// ExpiryExempt reports whether ctx was marked by WithoutExpiry
func ExpiryExempt(ctx context.Context) bool {
	exempt, _ := ctx.Value(ctxKey{}).(bool)
	return exempt
}

// State is a step of the startup verification
type State int

const (
	StateIdle State = iota
	StateVerifying
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateVerifying:
		return "verifying"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Bootstrap restores a persisted token at startup and checks it against the
// backend before anything reads the session. It runs at most once.
type Bootstrap struct {
	store   *Store
	gateway Gateway
	log     zerolog.Logger

	once  sync.Once
	mu    sync.Mutex
	state State
}

// NewBootstrap creates a bootstrap in the idle state
func NewBootstrap(store *Store, gateway Gateway, log zerolog.Logger) *Bootstrap {
	return &Bootstrap{
		store:   store,
		gateway: gateway,
		log:     log.With().Str("component", "bootstrap").Logger(),
	}
}

// State returns the current step
func (b *Bootstrap) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bootstrap) transition(to State) {
	b.mu.Lock()
	from := b.state
	b.state = to
	b.mu.Unlock()

	b.log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("Bootstrap transition")
}

// Run resolves the session. Later calls return the resolved session without
// contacting the backend again.
func (b *Bootstrap) Run(ctx context.Context) Session {
	b.once.Do(func() {
		b.run(ctx)
	})
	return b.store.Session()
}

func (b *Bootstrap) run(ctx context.Context) {
	defer func() {
		b.store.Resolve()
		b.transition(StateResolved)
	}()

	token, err := b.store.PersistedToken()
	if err != nil {
		b.log.Warn().Err(err).Msg("Could not read persisted token, starting unauthenticated")
		return
	}
	if token == "" {
		b.log.Debug().Msg("No persisted token")
		return
	}

	b.transition(StateVerifying)
	b.gateway.SetToken(token)

	user, err := b.gateway.GetProfile(WithoutExpiry(ctx))
	if err != nil {
		b.log.Info().Err(err).Msg("Persisted token rejected, clearing session")
		b.gateway.SetToken("")
		if err := b.store.Clear(); err != nil {
			b.log.Warn().Err(err).Msg("Failed to clear session")
		}
		return
	}

	if err := b.store.SetAuthenticated(token, user); err != nil {
		b.log.Warn().Err(err).Msg("Failed to restore session")
		b.gateway.SetToken("")
		if err := b.store.Clear(); err != nil {
			b.log.Warn().Err(err).Msg("Failed to clear session")
		}
	}
}
