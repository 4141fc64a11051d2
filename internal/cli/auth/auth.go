// Package auth persists the bearer token between CLI runs.
package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "inventario"

	// TokenKey is the name of the single slot holding the bearer token
	TokenKey = "token"
)

// KeyringStore keeps the token in the OS keychain/credential manager
type KeyringStore struct {
	service string
	key     string
}

// NewKeyringStore returns a store using the default service name and key
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: service, key: TokenKey}
}

// Save persists the token securely in the OS keychain/credential manager
func (k *KeyringStore) Save(token string) error {
	if err := keyring.Set(k.service, k.key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load retrieves the token; an empty string means nothing is stored
func (k *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(k.service, k.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// Delete removes the token from the OS keychain/credential manager
func (k *KeyringStore) Delete() error {
	if err := keyring.Delete(k.service, k.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
