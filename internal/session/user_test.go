package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalRoleAliases(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected Role
	}{
		{
			name:     "canonical role",
			payload:  `{"id":"1","nome":"Ana","email":"ana@x.com","role":"admin"}`,
			expected: RoleAdmin,
		},
		{
			name:     "legacy papel only",
			payload:  `{"id":"1","papel":"vendedor"}`,
			expected: RoleSeller,
		},
		{
			name:     "role wins over papel",
			payload:  `{"id":"1","role":"gerente","papel":"admin"}`,
			expected: RoleManager,
		},
		{
			name:     "legacy administrator spelling",
			payload:  `{"id":"1","papel":"Administrador"}`,
			expected: RoleAdmin,
		},
		{
			name:     "no role",
			payload:  `{"id":"1"}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u User
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &u))
			assert.Equal(t, tt.expected, u.Role)
		})
	}
}

func TestUser_NumericID(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"nome":"Ana"}`), &u))
	assert.Equal(t, "42", u.ID)
	assert.Equal(t, "Ana", u.Name)
}

func TestUser_MarshalWritesOnlyRole(t *testing.T) {
	data, err := json.Marshal(User{ID: "1", Role: RoleAdmin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","nome":"","email":"","role":"admin"}`, string(data))
}

func TestUser_IsAdmin(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.False(t, (&User{Role: RoleSeller}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, ParseRole(" ADMIN ").Valid())
	assert.True(t, ParseRole("gerente").Valid())
	assert.False(t, ParseRole("root").Valid())
	assert.False(t, ParseRole("").Valid())
}
