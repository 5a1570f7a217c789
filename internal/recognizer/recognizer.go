// Package recognizer is the HTTP client for the remote face recognition
// service. It never retries; retry cadence belongs to the capture throttle.
package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the remote recognizer with a bearer token.
type Client struct {
	baseURL   *url.URL
	token     string
	email     string
	timeout   time.Duration
	transport *http.Client
}

// New creates an unauthenticated client. Recognize short-circuits until a
// token is set via Login or SetSession.
func New(rawURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid recognizer URL: %w", err)
	}
	return &Client{
		baseURL:   parsed,
		timeout:   timeout,
		transport: http.DefaultClient,
	}, nil
}

// NewFromSession creates a client from a previously persisted session.
func NewFromSession(rawURL, token, email string, timeout time.Duration) (*Client, error) {
	c, err := New(rawURL, timeout)
	if err != nil {
		return nil, err
	}
	c.token = token
	c.email = email
	return c, nil
}

// resolveURL builds a full URL from the base URL and path segments.
func (c *Client) resolveURL(pathSegments ...string) string {
	return c.baseURL.JoinPath(pathSegments...).String()
}

// Token returns the current bearer token, empty when unauthenticated.
func (c *Client) Token() string { return c.token }

// Email returns the session owner's resolved email.
func (c *Client) Email() string { return c.email }

// SetSession installs a bearer token and owner email directly.
func (c *Client) SetSession(token, email string) {
	c.token = token
	c.email = email
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	Error       string `json:"error"`
}

// Login authenticates against the recognizer's auth endpoint and keeps the
// returned token and resolved email on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	inputBody, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("could not marshal input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL("api", "auth", "login"), bytes.NewReader(inputBody))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.transport.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	var result loginResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("could not unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != "" {
			return fmt.Errorf("login failed: %s", result.Error)
		}
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, readErrorBody(bytes.NewReader(body)))
	}

	c.token = result.AccessToken
	c.email = result.UserEmail
	return nil
}

// readErrorBody reads a response body for error messages.
// Returns a placeholder if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}
