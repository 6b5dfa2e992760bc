package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jobgenie-engine/internal/domain"
)

// AuthError is a rejected login or signup. Message is safe to show.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return e.Message }

const (
	msgLoginFailed  = "Login failed"
	msgSignupFailed = "Signup failed"
)

type Credentials struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"` // digits, optional leading "+"
}

// authResponse covers every auth endpoint. The user sits either under
// "user" or at the top level.
type authResponse struct {
	OK      *bool        `json:"ok"`
	Success *bool        `json:"success"`
	User    *domain.User `json:"user"`
	errorBody
}

func (r authResponse) rejected() bool {
	return (r.OK != nil && !*r.OK) || (r.Success != nil && !*r.Success)
}

func (r authResponse) user(raw json.RawMessage) domain.User {
	var u domain.User
	if r.User != nil {
		u = *r.User
	} else if len(raw) > 0 {
		_ = json.Unmarshal(raw, &u)
	}
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.GivenName
	}
	return u
}

func (c *Client) authPost(ctx context.Context, path string, body any, fallback string) (domain.User, error) {
	var raw json.RawMessage
	status, err := c.do(ctx, c.hc, http.MethodPost, path, nil, body, &raw)
	if err != nil {
		return domain.User{}, &AuthError{Status: status, Message: fallback}
	}

	var resp authResponse
	_ = json.Unmarshal(raw, &resp)
	if !ok(status) || resp.rejected() {
		msg := resp.text()
		if msg == "" {
			msg = fallback
		}
		return domain.User{}, &AuthError{Status: status, Message: msg}
	}
	return resp.user(raw), nil
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, cred Credentials) (domain.User, error) {
	return c.authPost(ctx, "/auth/login", cred, msgLoginFailed)
}

// LoginGoogle exchanges an identity provider token for a backend session.
func (c *Client) LoginGoogle(ctx context.Context, token string) (domain.User, error) {
	return c.authPost(ctx, "/auth/google", map[string]string{"token": token}, msgLoginFailed)
}

// Signup registers an account. Only a non-2xx status counts as failure.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	var resp errorBody
	status, err := c.do(ctx, c.hc, http.MethodPost, "/auth/signup", nil, req, &resp)
	if err != nil && status == 0 {
		return &AuthError{Message: msgSignupFailed}
	}
	if !ok(status) {
		msg := resp.text()
		if msg == "" {
			msg = msgSignupFailed
		}
		return &AuthError{Status: status, Message: msg}
	}
	return nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	status, err := c.do(ctx, c.hc, http.MethodPost, "/auth/logout", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: logout: %v", ErrRequestFailed, err)
	}
	if !ok(status) {
		return fmt.Errorf("%w: logout: status %d", ErrRequestFailed, status)
	}
	return nil
}

// ErrNotAuthenticated is returned by Me when the backend has no session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Me returns the signed-in user. Authenticated means 2xx and success:true.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var raw json.RawMessage
	status, err := c.do(ctx, c.hc, http.MethodGet, "/auth/me", nil, nil, &raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	var resp authResponse
	_ = json.Unmarshal(raw, &resp)
	if !ok(status) || resp.Success == nil || !*resp.Success {
		return domain.User{}, ErrNotAuthenticated
	}
	return resp.user(raw), nil
}
