package auth

import (
	"fmt"
	"strings"

	"github.com/inventario-app/inventario/internal/session"
)

const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
)

var (
	_ session.TokenStore = (*KeyringStore)(nil)
	_ session.TokenStore = (*FileStore)(nil)
	_ session.TokenStore = (*MemoryStore)(nil)
)

// Open returns the token store for the named backend. filePath is only used
// by the file backend.
func Open(backend, filePath string) (session.TokenStore, error) {
	switch strings.ToLower(backend) {
	case "", BackendKeyring:
		return NewKeyringStore(), nil
	case BackendFile:
		if filePath == "" {
			return nil, fmt.Errorf("file token store requires a path")
		}
		return NewFileStore(filePath), nil
	default:
		return nil, fmt.Errorf("unknown token store %q, must be one of: %s, %s", backend, BackendKeyring, BackendFile)
	}
}
