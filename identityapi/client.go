package identityapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-condo-console/credentials"
	"github.com/jrsteele09/go-condo-console/identity"
	"github.com/jrsteele09/go-condo-console/internal/utils"
	"github.com/pkg/errors"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/token/refresh"
	logoutPath  = "/auth/logout"
	profilePath = "/auth/profile"

	defaultTimeout = 15 * time.Second

	contentTypeJSON = "application/json; charset=utf-8"
)

// Client talks to the platform's Identity API: login, token refresh,
// logout and profile lookup. Tokens pass through it untouched.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option modifies a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for
// tests and for shells that need custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates an Identity API client for the given base URL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// userPayload is the wire shape of the user object. DisplayName and
// CondominiumID are nullable server-side.
type userPayload struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	DisplayName   *string `json:"display_name"`
	Role          string  `json:"role"`
	IsStaff       bool    `json:"is_staff"`
	CondominiumID *string `json:"condominium_id"`
}

func (u userPayload) toIdentity() identity.Identity {
	return identity.Identity{
		ID:            u.ID,
		Username:      u.Username,
		DisplayName:   utils.Value(u.DisplayName),
		RoleName:      u.Role,
		IsPrivileged:  u.IsStaff,
		CondominiumID: utils.Value(u.CondominiumID),
	}
}

// Login exchanges a username (or email) and password for a credential
// pair and the authenticated identity. Rejected logins return
// ErrInvalidCredentials wrapped with the server's detail message.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (credentials.Credential, identity.Identity, error) {
	body := map[string]string{"username": usernameOrEmail, "password": password}

	var response struct {
		Access  string      `json:"access"`
		Refresh string      `json:"refresh"`
		User    userPayload `json:"user"`
	}
	resp, err := c.post(ctx, loginPath, body)
	if err != nil {
		return credentials.Credential{}, identity.Identity{}, errors.Wrap(err, "[Client.Login] post")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return credentials.Credential{}, identity.Identity{}, errors.Wrap(ErrInvalidCredentials, serverDetail(resp.Body))
	}
	if resp.StatusCode != http.StatusOK {
		return credentials.Credential{}, identity.Identity{}, errors.Errorf("[Client.Login] unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return credentials.Credential{}, identity.Identity{}, errors.Wrap(err, "[Client.Login] decode response")
	}

	cred := credentials.Credential{AccessToken: response.Access, RefreshToken: response.Refresh}
	return cred, response.User.toIdentity(), nil
}

// Refresh exchanges a refresh token for a new access token. A 401 means
// the refresh token is dead and the session cannot be saved.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.post(ctx, refreshPath, map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", errors.Wrap(err, "[Client.Refresh] post")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrRefreshRejected
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("[Client.Refresh] unexpected status %d", resp.StatusCode)
	}

	var response struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", errors.Wrap(err, "[Client.Refresh] decode response")
	}
	if response.Access == "" {
		return "", errors.New("[Client.Refresh] empty access token in response")
	}
	return response.Access, nil
}

// Logout tells the server to revoke the refresh token. Best effort: the
// caller ignores failures, the local session is torn down regardless.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.post(ctx, logoutPath, map[string]string{"refresh": refreshToken})
	if err != nil {
		return errors.Wrap(err, "[Client.Logout] post")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.Errorf("[Client.Logout] unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Profile fetches the identity behind an access token. A 401 reports the
// token invalid via ErrUnauthorized.
func (c *Client) Profile(ctx context.Context, accessToken string) (identity.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+profilePath, nil)
	if err != nil {
		return identity.Identity{}, errors.Wrap(err, "[Client.Profile] new request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Identity{}, errors.Wrap(err, "[Client.Profile] do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return identity.Identity{}, ErrUnauthorized
	}
	if resp.StatusCode == http.StatusForbidden {
		return identity.Identity{}, ErrForbidden
	}
	if resp.StatusCode != http.StatusOK {
		return identity.Identity{}, errors.Errorf("[Client.Profile] unexpected status %d", resp.StatusCode)
	}

	var user userPayload
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return identity.Identity{}, errors.Wrap(err, "[Client.Profile] decode response")
	}
	return user.toIdentity(), nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	return c.httpClient.Do(req)
}

// serverDetail extracts the "detail" message commonly present in error
// bodies, falling back to a generic message.
func serverDetail(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return "login rejected"
}
