package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNoToken      = errors.New("no bearer token configured")
	ErrEmptyProfile = errors.New("profile response did not include a user")
)

const (
	loginFallback   = "unable to sign in, please try again"
	profileFallback = "unable to load profile"
)

// AuthError is the only failure shape returned by Login and GetProfile.
// Message is safe to show to the user.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError is returned by resource calls
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the backend rejected the bearer token
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// messageFrom pulls the human-readable message out of an error payload.
// "erro" is what the backend sends; "error" and "message" are accepted too.
func messageFrom(body []byte, fallback string) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	for _, key := range []string{"erro", "error", "message"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return fallback
}

func asAuthError(err error, fallback string) *AuthError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &AuthError{Status: apiErr.Status, Message: apiErr.Message, Err: apiErr.Err}
	}
	return &AuthError{Message: fallback, Err: err}
}
