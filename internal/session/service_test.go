package session

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedStore(t *testing.T) (*Store, *memTokens) {
	t.Helper()
	store, tokens := newTestStore("")
	store.Resolve()
	return store, tokens
}

func TestService_LoginFetchesProfileWhenGrantHasNoUser(t *testing.T) {
	store, tokens := resolvedStore(t)
	u := &User{ID: "1", Name: "Ana", Email: "a@b.com", Role: RoleSeller}
	gw := &fakeGateway{grant: &Grant{Token: "T"}, profile: u}
	svc := NewService(store, gw, zerolog.Nop())

	gw.onProfile = func() {
		assert.Equal(t, "T", gw.token, "profile must be fetched with the new token")
	}

	user, err := svc.Login(context.Background(), Credentials{Email: "a@b.com", Secret: "secret"})
	require.NoError(t, err)
	assert.Equal(t, *u, *user)

	s := store.Session()
	assert.Equal(t, "T", s.Token)
	assert.Equal(t, *u, *s.User)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "T", tokens.get())
	assert.Equal(t, 1, gw.profileCalls)
	assert.True(t, gw.profileExempt, "login handles its own profile failure")
}

func TestService_LoginRejectsUnidentifiedUser(t *testing.T) {
	store, tokens := resolvedStore(t)
	gw := &fakeGateway{grant: &Grant{Token: "T", User: &User{Name: "Ana"}}}
	svc := NewService(store, gw, zerolog.Nop())

	_, err := svc.Login(context.Background(), Credentials{Email: "a@b.com", Secret: "secret"})
	assert.ErrorIs(t, err, ErrIncompleteSession)

	assert.False(t, store.Session().IsAuthenticated())
	assert.Empty(t, tokens.get())
	assert.Empty(t, gw.currentToken())
}

func TestService_LoginUsesUserFromGrant(t *testing.T) {
	store, _ := resolvedStore(t)
	gw := &fakeGateway{grant: &Grant{Token: "T", User: &User{ID: "1"}}}
	svc := NewService(store, gw, zerolog.Nop())

	_, err := svc.Login(context.Background(), Credentials{Email: "a@b.com", Secret: "secret"})
	require.NoError(t, err)

	assert.Zero(t, gw.profileCalls)
	assert.True(t, store.Session().IsAuthenticated())
}

func TestService_LoginRejectedLeavesSessionUntouched(t *testing.T) {
	store, tokens := resolvedStore(t)
	require.NoError(t, store.SetAuthenticated("PREV", &User{ID: "0"}))
	gw := &fakeGateway{loginErr: errRejected, token: "PREV"}
	svc := NewService(store, gw, zerolog.Nop())

	before := store.Session()
	_, err := svc.Login(context.Background(), Credentials{Email: "a@b.com", Secret: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", err.Error())

	assert.Equal(t, before, store.Session())
	assert.Equal(t, "PREV", tokens.get())
	assert.Equal(t, "PREV", gw.currentToken())
}

func TestService_LoginProfileFailureClearsSession(t *testing.T) {
	store, tokens := resolvedStore(t)
	gw := &fakeGateway{grant: &Grant{Token: "T"}, profileErr: errRejected}
	svc := NewService(store, gw, zerolog.Nop())

	_, err := svc.Login(context.Background(), Credentials{Email: "a@b.com", Secret: "secret"})
	require.Error(t, err)

	s := store.Session()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token)
	assert.Empty(t, tokens.get())
	assert.Empty(t, gw.currentToken())
}

func TestService_LoginValidatesCredentials(t *testing.T) {
	store, _ := resolvedStore(t)
	gw := &fakeGateway{}
	svc := NewService(store, gw, zerolog.Nop())

	tests := []struct {
		name  string
		creds Credentials
	}{
		{name: "empty email", creds: Credentials{Secret: "secret"}},
		{name: "empty secret", creds: Credentials{Email: "a@b.com"}},
		{name: "malformed email", creds: Credentials{Email: "not-an-email", Secret: "secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.creds)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
	assert.Zero(t, gw.calls())
}

func TestService_LogoutFromAnyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
	}{
		{name: "authenticated", setup: func(s *Store) { _ = s.SetAuthenticated("T", &User{ID: "1"}) }},
		{name: "already logged out", setup: func(*Store) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, tokens := resolvedStore(t)
			tt.setup(store)
			gw := &fakeGateway{token: "T"}
			svc := NewService(store, gw, zerolog.Nop())

			require.NoError(t, svc.Logout())
			once := store.Session()
			require.NoError(t, svc.Logout())
			twice := store.Session()

			assert.Equal(t, once, twice)
			assert.Empty(t, twice.Token)
			assert.Nil(t, twice.User)
			assert.False(t, twice.IsAuthenticated())
			assert.Empty(t, tokens.get())
			assert.Empty(t, gw.currentToken())
			assert.Zero(t, gw.calls(), "logout must not call the backend")
		})
	}
}

func TestService_ExpireClearsAndRedirects(t *testing.T) {
	store, tokens := resolvedStore(t)
	require.NoError(t, store.SetAuthenticated("T", &User{ID: "1"}))
	gw := &fakeGateway{token: "T"}
	svc := NewService(store, gw, zerolog.Nop())

	var redirects int
	svc.OnExpire(func() {
		redirects++
		assert.False(t, store.Session().IsAuthenticated(), "session must be cleared before redirect")
	})

	svc.Expire()

	assert.Equal(t, 1, redirects)
	assert.Empty(t, tokens.get())
	assert.Empty(t, gw.currentToken())
}

func TestService_ReplaceUserKeepsToken(t *testing.T) {
	store, _ := resolvedStore(t)
	require.NoError(t, store.SetAuthenticated("T", &User{ID: "1", Name: "Ana"}))
	svc := NewService(store, &fakeGateway{}, zerolog.Nop())

	require.NoError(t, svc.ReplaceUser(&User{ID: "1", Name: "Ana Maria"}))

	s := store.Session()
	assert.Equal(t, "T", s.Token)
	assert.Equal(t, "Ana Maria", s.User.Name)
}

func TestService_ReplaceUserRequiresSession(t *testing.T) {
	store, _ := resolvedStore(t)
	svc := NewService(store, &fakeGateway{}, zerolog.Nop())

	assert.ErrorIs(t, svc.ReplaceUser(&User{ID: "1"}), ErrIncompleteSession)
}

func TestService_LoginLogsFailedClear(t *testing.T) {
	store, tokens := resolvedStore(t)
	tokens.deleteErr = errors.New("keyring locked")
	gw := &fakeGateway{grant: &Grant{Token: "T"}, profileErr: errors.New("unauthorized")}

	var buf bytes.Buffer
	svc := NewService(store, gw, zerolog.New(&buf))

	_, err := svc.Login(context.Background(), Credentials{Email: "a@b.com", Secret: "secret"})
	require.Error(t, err)

	assert.False(t, store.Session().IsAuthenticated())
	assert.Empty(t, gw.currentToken())
	assert.Contains(t, buf.String(), "Failed to clear session")
	assert.Contains(t, buf.String(), "keyring locked")
}
