package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/papertrade/portal/internal/models"
)

// Register creates a new account. POST /auth/register is credential-exempt.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisteredUser, error) {
	body, err := c.postJSON(ctx, "/auth/register", req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var user models.RegisteredUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &user, nil
}

// ExchangeToken trades a username and password for a bearer token.
// POST /auth/token takes a form-encoded body and is credential-exempt.
func (c *Client) ExchangeToken(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/token", nil, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, status, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var token models.TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &token, nil
}

// FetchProfile fetches the profile of the user the current credential belongs
// to. A rejection here is the signal that the credential is invalid or
// expired; the session controller reacts by clearing it.
func (c *Client) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.getJSON(ctx, "/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
