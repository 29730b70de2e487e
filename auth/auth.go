// Package auth implements the account operations of the InterU platform:
// login, registration, activation, password resets, and the authenticated
// user lookup. Token issuance and validation are the remote auth service's
// job; this package only moves credentials between it and the session store.
package auth

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/interu-app/interu-cli/api"
	"github.com/interu-app/interu-cli/session"
)

// Account is the server-owned user record. Read-only from the client's
// perspective; wire names follow the backend.
type Account struct {
	Email            string `json:"email"`
	AcceptedPolicies bool   `json:"acepta_politicas"`
	IsStudent        bool   `json:"is_estudiante"`
	IsAdmin          bool   `json:"is_admin_interu"`
}

// Client performs account operations against the auth service.
type Client struct {
	api      *api.Client
	store    *session.Store
	validate *validator.Validate
}

// NewClient creates an auth client. The session store receives the token
// pair on login and is cleared on logout.
func NewClient(apiClient *api.Client, store *session.Store) *Client {
	return &Client{
		api:      apiClient,
		store:    store,
		validate: validator.New(),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a token pair and stores it wholesale,
// replacing any prior session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req := loginRequest{Email: email, Password: password}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid login input: %w", err)
	}

	var tokens session.Session
	if err := c.api.Post(ctx, "/auth/jwt/create/", req, &tokens); err != nil {
		return err
	}
	if err := c.store.Save(tokens); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Logout clears the stored session. Purely client-side, as the auth
// service keeps no session state beyond the tokens themselves.
func (c *Client) Logout() error {
	return c.store.Clear()
}

type registerRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	AcceptedPolicies bool   `json:"acepta_politicas" validate:"eq=true"`
}

// Register creates a new account. The server responds 201 and sends an
// activation email; the account stays unusable until activated.
func (c *Client) Register(ctx context.Context, email, password string, acceptPolicies bool) error {
	req := registerRequest{Email: email, Password: password, AcceptedPolicies: acceptPolicies}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid registration input: %w", err)
	}
	return c.api.Post(ctx, "/auth/users/", req, nil)
}

type activateRequest struct {
	UID   string `json:"uid" validate:"required"`
	Token string `json:"token" validate:"required"`
}

// Activate confirms a new account with the uid/token pair from the
// activation email.
func (c *Client) Activate(ctx context.Context, uid, token string) error {
	req := activateRequest{UID: uid, Token: token}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid activation input: %w", err)
	}
	return c.api.Post(ctx, "/auth/users/activation/", req, nil)
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordReset asks the auth service to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := resetRequest{Email: email}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid reset input: %w", err)
	}
	return c.api.Post(ctx, "/auth/users/reset_password/", req, nil)
}

type resetConfirmRequest struct {
	UID           string `json:"uid" validate:"required"`
	Token         string `json:"token" validate:"required"`
	NewPassword   string `json:"new_password" validate:"required,min=8"`
	ReNewPassword string `json:"re_new_password" validate:"required,eqfield=NewPassword"`
}

// ConfirmPasswordReset sets a new password using the uid/token pair from
// the reset email. Both password fields must match; the server re-checks.
func (c *Client) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword, reNewPassword string) error {
	req := resetConfirmRequest{
		UID:           uid,
		Token:         token,
		NewPassword:   newPassword,
		ReNewPassword: reNewPassword,
	}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid reset confirmation input: %w", err)
	}
	return c.api.Post(ctx, "/auth/users/reset_password_confirm/", req, nil)
}

// Me fetches the authenticated user's account record.
func (c *Client) Me(ctx context.Context) (Account, error) {
	var account Account
	if err := c.api.GetAuthed(ctx, "/auth/users/me/", &account); err != nil {
		return Account{}, err
	}
	return account, nil
}
