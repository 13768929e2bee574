package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"server/internal/domain"
)

// maxAvatarBytes caps avatar downloads pushed to the provider.
const maxAvatarBytes = 5 << 20

// Client talks to the identity provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a provider client for the given API base URL and
// server-side API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CurrentIdentity resolves the identity behind a provider session
// token. An invalid or expired token maps to ErrUnauthorized; provider
// outages map to ErrIdentityProvider so callers may retry.
func (c *Client) CurrentIdentity(ctx context.Context, sessionToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/identities/me", nil)
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sessionToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: current identity: %w", domain.ErrIdentityProvider)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity: current identity: status %d: %w", resp.StatusCode, domain.ErrIdentityProvider)
	}

	var payload struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Handle    string `json:"handle"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("identity: decode identity: %w", domain.ErrIdentityProvider)
	}
	if payload.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &Identity{
		ExternalID: payload.ID,
		Email:      payload.Email,
		Handle:     payload.Handle,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
	}, nil
}

// SetMetadata mirrors onboarding state onto the provider.
func (c *Client) SetMetadata(ctx context.Context, externalID string, md Metadata) error {
	body := struct {
		PublicMetadata Metadata `json:"public_metadata"`
	}{PublicMetadata: md}
	return c.patch(ctx, "/v1/identities/"+externalID+"/metadata", body)
}

// UpdateAccount pushes optional account fields onto the provider.
func (c *Client) UpdateAccount(ctx context.Context, externalID string, up Update) error {
	if up == (Update{}) {
		return nil
	}
	return c.patch(ctx, "/v1/identities/"+externalID, up)
}

// SetProfileImage uploads a new provider-side profile image.
func (c *Client) SetProfileImage(ctx context.Context, externalID string, image []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/identities/"+externalID+"/profile-image", bytes.NewReader(image))
	if err != nil {
		return fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	return c.do(req)
}

func (c *Client) patch(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identity: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity: %s %s: %w", req.Method, req.URL.Path, domain.ErrIdentityProvider)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("identity: %s %s: status %d: %w", req.Method, req.URL.Path, resp.StatusCode, domain.ErrIdentityProvider)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// FetchAvatar downloads a caller-supplied avatar URL so it can be
// pushed to the provider. The download is bounded in size and time.
func FetchAvatar(ctx context.Context, avatarURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, fmt.Errorf("identity: build avatar request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: fetch avatar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: fetch avatar: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("identity: read avatar: %w", err)
	}
	return data, nil
}
