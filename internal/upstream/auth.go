package upstream

import (
	"context"
	"net/http"
)

type profileEnvelope struct {
	User *User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginEnvelope struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	var payload loginEnvelope
	body := loginRequest{Email: email, Password: password}
	if err := c.call(ctx, "", http.MethodPost, "/api/login", body, &payload, "Unable to sign in"); err != nil {
		return "", nil, err
	}
	return payload.Token, payload.User, nil
}

// Logout invalidates the backend session for the token. Best effort:
// callers clear local session state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, token, http.MethodPost, "/api/logout", nil, nil, "Unable to sign out")
}

// Profile fetches the authenticated user's profile snapshot.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var payload profileEnvelope
	if err := c.call(ctx, token, http.MethodGet, "/api/auth/profile", nil, &payload, "Unable to load profile"); err != nil {
		return nil, err
	}
	return payload.User, nil
}

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// Signup registers a new customer account.
func (c *Client) Signup(ctx context.Context, firstName, lastName, email, password, phone, address string) error {
	body := signupRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		Phone:     phone,
		Address:   address,
	}
	return c.call(ctx, "", http.MethodPost, "/api/customers/post", body, nil, "Unable to create account")
}
