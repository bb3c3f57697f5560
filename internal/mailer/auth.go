package mailer

import (
	"context"

	"github.com/ignite/mailerctl/internal/session"
)

// Login authenticates with email and password. A 401 here is a credential
// error and passes through to the caller; it never clears the session.
// The caller records the result with session.Store.SetAuth.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.Post(ctx, LoginPath, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterInput is the account signup payload.
type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates an account and returns the same payload as Login.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.Post(ctx, "/api/v1/auth/register", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout revokes the bearer token server-side. Callers clear the local
// session regardless of the result; a dead token is not worth keeping.
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/auth/logout", nil, nil)
}

// Me fetches the authenticated user's profile. The session store only holds
// the profile in memory, so this repopulates it after a process restart.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.Get(ctx, "/api/v1/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
