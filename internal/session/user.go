package session

import (
	"encoding/json"
	"strings"
)

// Role is the access level the backend assigns to a user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "gerente"
	RoleSeller  Role = "vendedor"
)

// legacyAdmin is how older backend builds spell the administrator role
const legacyAdmin = "administrador"

// ParseRole normalizes a role value coming from the backend.
// Unknown values are kept as-is so that a newer backend does not break the client.
func ParseRole(s string) Role {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == legacyAdmin {
		return RoleAdmin
	}
	return Role(v)
}

// Valid reports whether r belongs to the closed set of known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSeller:
		return true
	}
	return false
}

// User is the authenticated user as returned by the backend.
// It is replaced wholesale, never mutated field by field.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user holds the administrator role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UnmarshalJSON accepts the deprecated "papel" field as an alias for "role".
// When both are present "role" wins.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Name  string          `json:"nome"`
		Email string          `json:"email"`
		Role  string          `json:"role"`
		Papel string          `json:"papel"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	role := raw.Role
	if role == "" {
		role = raw.Papel
	}

	*u = User{
		ID:    decodeID(raw.ID),
		Name:  raw.Name,
		Email: raw.Email,
		Role:  ParseRole(role),
	}
	return nil
}

// decodeID accepts both string and numeric identifiers
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
