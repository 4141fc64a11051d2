package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/inventario-app/inventario/internal/session"
)

const (
	loginPath   = "/usuarios/login"
	profilePath = "/usuarios/perfil"
)

var _ session.Gateway = (*Client)(nil)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"senha"`
}

// LoginResponse represents the login response. User is absent on backends
// that only return the token.
type LoginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// Login authenticates the user and returns the issued token. Every failure
// is an *AuthError carrying a message that can be shown to the user.
func (c *Client) Login(ctx context.Context, email, secret string) (grant *session.Grant, err error) {
	defer recoverAuthError(&err, loginFallback)

	var resp LoginResponse
	body := LoginRequest{Email: email, Secret: secret}
	if err := c.do(withoutUnauthorizedPolicy(ctx), http.MethodPost, loginPath, body, &resp, loginFallback); err != nil {
		return nil, asAuthError(err, loginFallback)
	}

	if resp.Token == "" {
		return nil, &AuthError{Message: loginFallback, Err: fmt.Errorf("login response did not include a token")}
	}

	grant = &session.Grant{Token: resp.Token}
	if user, ok := decodeUser(resp.User); ok {
		grant.User = user
	}
	return grant, nil
}

// GetProfile fetches the user owning the configured bearer token
func (c *Client) GetProfile(ctx context.Context) (user *session.User, err error) {
	defer recoverAuthError(&err, profileFallback)

	if c.Token() == "" {
		return nil, &AuthError{Message: profileFallback, Err: ErrNoToken}
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, profilePath, nil, &raw, profileFallback); err != nil {
		return nil, asAuthError(err, profileFallback)
	}

	u, ok := decodeUser(raw)
	if !ok {
		return nil, &AuthError{Message: profileFallback, Err: ErrEmptyProfile}
	}
	return u, nil
}

// decodeUser treats a missing, null or unidentified user object as absent
func decodeUser(raw json.RawMessage) (*session.User, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	var u session.User
	if err := json.Unmarshal(raw, &u); err != nil || u.ID == "" {
		return nil, false
	}
	return &u, true
}

func recoverAuthError(err *error, fallback string) {
	if r := recover(); r != nil {
		*err = &AuthError{Message: fallback, Err: fmt.Errorf("panic: %v", r)}
	}
}
