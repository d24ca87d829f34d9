// Package panelsdk is the typed client for the sheetrate service. The
// task-pane panel and the end-to-end tests both talk to the server through
// it, so the request and response types here are the single wire contract.
package panelsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client is an unauthenticated sheetrate client. Register and Login return
// an authenticated Session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns a signed-in session.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (*Session, error) {
	var tok TokenResponse
	err := c.postJSON(ctx, "/v1/auth/register", RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &tok, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok), nil
}

// Login signs in to an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var tok TokenResponse
	err := c.postJSON(ctx, "/v1/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	}, &tok, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok), nil
}

// Bootstrap creates the first admin account using the deployment's
// bootstrap token. Only works while the directory is empty.
func (c *Client) Bootstrap(ctx context.Context, token, email, password, displayName string) (string, error) {
	var resp BootstrapResponse
	err := c.postJSON(ctx, "/v1/bootstrap", BootstrapRequest{
		Token:       token,
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &resp, http.StatusCreated)
	if err != nil {
		return "", err
	}
	return resp.AdminID, nil
}

// NewSessionFromToken wraps an existing access token in a Session, for
// panels that persist the token across reloads.
func (c *Client) NewSessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}
