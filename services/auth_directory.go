// services/auth_directory.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"camo-tracker/logger"
)

// ErrAccountNotFound is returned when the auth provider has no such user.
var ErrAccountNotFound = errors.New("account not found")

// AuthAccount is the subset of an auth provider user the tracker needs.
type AuthAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

type accountChangesResponse struct {
	Users []AuthAccount `json:"users"`
}

// AuthDirectoryClient reads user accounts from the auth service.
type AuthDirectoryClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewAuthDirectoryClient(baseURL, token string) *AuthDirectoryClient {
	return &AuthDirectoryClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LookupEmail returns the email the auth provider holds for userID.
func (c *AuthDirectoryClient) LookupEmail(ctx context.Context, userID string) (string, error) {
	endpoint, err := url.JoinPath(c.BaseURL, "auth", "users", userID)
	if err != nil {
		return "", fmt.Errorf("invalid auth service URL %q: %w", c.BaseURL, err)
	}
	var account AuthAccount
	if err := c.get(ctx, endpoint, &account); err != nil {
		return "", err
	}
	if account.Email == "" {
		return "", ErrAccountNotFound
	}
	return account.Email, nil
}

// Changes lists accounts updated after since.
func (c *AuthDirectoryClient) Changes(ctx context.Context, since time.Time) ([]AuthAccount, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth service URL %q: %w", c.BaseURL, err)
	}
	endpoint := base.JoinPath("auth", "users", "changes")
	q := endpoint.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpoint.RawQuery = q.Encode()

	var out accountChangesResponse
	if err := c.get(ctx, endpoint.String(), &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *AuthDirectoryClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("auth service request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAccountNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Warn().Int("status", resp.StatusCode).Str("url", endpoint).Str("body", string(body)).Msg("[AUTH] unexpected response")
		return fmt.Errorf("auth service returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode auth service response: %w", err)
	}
	return nil
}
