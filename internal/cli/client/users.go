package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/inventario-app/inventario/internal/session"
)

// UserInput is the body for creating or updating a user. Password is only
// sent when non-empty.
type UserInput struct {
	Name     string       `json:"nome"`
	Email    string       `json:"email"`
	Password string       `json:"senha,omitempty"`
	Role     session.Role `json:"role"`
}

// ListUsers returns all users (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]session.User, error) {
	var users []session.User
	if err := c.do(ctx, http.MethodGet, "/usuarios", nil, &users, "failed to list users"); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers a new user (admin only)
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodPost, "/usuarios", in, &user, "failed to create user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces a user's fields (admin only)
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(id), in, &user, "failed to update user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user by ID (admin only)
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/usuarios/"+url.PathEscape(id), nil, nil, "failed to delete user")
}
