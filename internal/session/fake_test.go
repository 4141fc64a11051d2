package session

import (
	"context"
	"errors"
	"sync"
)

type memTokens struct {
	mu      sync.Mutex
	token   string
	saveErr   error
	deleteErr error
	deletes   int
}

func (m *memTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memTokens) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.token = ""
	return nil
}

func (m *memTokens) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// fakeGateway records calls and returns canned results
type fakeGateway struct {
	mu sync.Mutex

	grant      *Grant
	loginErr   error
	profile    *User
	profileErr error

	token        string
	loginCalls   int
	profileCalls int
	// profileExempt is whether the last GetProfile ctx skipped the expiry policy
	profileExempt bool
	// onProfile runs inside GetProfile, before the result is returned
	onProfile func()
}

var errRejected = errors.New("Credenciais inválidas")

func (g *fakeGateway) Login(ctx context.Context, email, secret string) (*Grant, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loginCalls++
	if g.loginErr != nil {
		return nil, g.loginErr
	}
	return g.grant, nil
}

func (g *fakeGateway) GetProfile(ctx context.Context) (*User, error) {
	g.mu.Lock()
	g.profileCalls++
	g.profileExempt = ExpiryExempt(ctx)
	hook := g.onProfile
	profile, err := g.profile, g.profileErr
	g.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (g *fakeGateway) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

func (g *fakeGateway) currentToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loginCalls + g.profileCalls
}
