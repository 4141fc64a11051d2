package client

import (
	"context"
	"net/http"

	"github.com/inventario-app/inventario/internal/session"
)

// ProfileUpdate is the body for editing one's own profile
type ProfileUpdate struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// PasswordChange is the body for changing one's own password
type PasswordChange struct {
	Current string `json:"senhaAtual"`
	New     string `json:"novaSenha"`
}

// UpdateProfile edits the current user and returns the stored result
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodPut, profilePath, in, &user, "failed to update profile"); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the current user's password
func (c *Client) ChangePassword(ctx context.Context, in PasswordChange) error {
	return c.do(ctx, http.MethodPut, "/usuarios/senha", in, nil, "failed to change password")
}
