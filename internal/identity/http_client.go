package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultVerifyTimeout = 5 * time.Second
	updateRetryDelay     = 300 * time.Millisecond
)

// HTTPClient talks to a GoTrue-style identity provider over REST.
// It implements Verifier and CredentialUpdater.
type HTTPClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewHTTPClient builds a provider client. serviceKey authorizes admin
// endpoints (credential updates); token verification uses the caller's
// bearer credential only.
func NewHTTPClient(baseURL, serviceKey string) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("identity provider url is required")
	}
	return &HTTPClient{
		baseURL:    baseURL,
		serviceKey: strings.TrimSpace(serviceKey),
		httpClient: &http.Client{Timeout: defaultVerifyTimeout},
	}, nil
}

type providerUser struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// VerifyToken resolves a bearer credential to an Identity. The provider is
// consulted on every call; no credential is cached across requests.
func (c *HTTPClient) VerifyToken(ctx context.Context, bearer string) (Identity, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return Identity{}, ErrMissingCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if c.serviceKey != "" {
		req.Header.Set("apikey", c.serviceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrInvalidCredential
	case resp.StatusCode >= 500:
		return Identity{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	default:
		return Identity{}, ErrInvalidCredential
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Identity{}, fmt.Errorf("%w: decode user: %v", ErrUpstream, err)
	}
	if user.ID == "" {
		return Identity{}, ErrInvalidCredential
	}

	return Identity{
		ID:       ID(user.ID),
		Email:    user.Email,
		Metadata: user.Metadata,
	}, nil
}

// UpdateCredential sets a new password for the identity via the provider's
// admin endpoint. Transient failures are retried once.
func (c *HTTPClient) UpdateCredential(ctx context.Context, id ID, newPassword string) error {
	if c.serviceKey == "" {
		return fmt.Errorf("%w: service key not configured", ErrUpstream)
	}
	if id == "" || newPassword == "" {
		return errors.New("identity id and password are required")
	}

	err := c.putCredential(ctx, id, newPassword)
	if err == nil || !isTransient(err) {
		return err
	}

	select {
	case <-time.After(updateRetryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return c.putCredential(ctx, id, newPassword)
}

func (c *HTTPClient) putCredential(ctx context.Context, id ID, newPassword string) error {
	body, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: identity %s not found", ErrUpstream, id)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "status 5") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}

var (
	_ Verifier          = (*HTTPClient)(nil)
	_ CredentialUpdater = (*HTTPClient)(nil)
)
