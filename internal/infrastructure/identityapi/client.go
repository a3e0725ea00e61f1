// Package identityapi is the portal's HTTP client for the external identity API.
//
// Every response is decoded exactly once into the {data} / {message}
// envelope. Callers only see typed results or a *domain.AuthError:
//
//	non-2xx with a body        → KindRejected, server message
//	no response / bad 2xx body → KindConnection, generic message
package identityapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
	"github.com/99minutos/user-portal/internal/infrastructure/metrics"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings needed to reach the identity API.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client implements ports.IdentityAPI.
type Client struct {
	base string
	http *http.Client
}

var _ ports.IdentityAPI = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("identityapi: invalid base url %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), http: hc}, nil
}

// BaseURL returns the configured API root without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.CredentialBundle, error) {
	var bundle domain.CredentialBundle
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &bundle); err != nil {
		return nil, err
	}
	if bundle.Token == "" {
		return nil, domain.ConnectionFailed(fmt.Errorf("login response carries no token"))
	}
	return &bundle, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error) {
	var bundle domain.CredentialBundle
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", "", registerRequest{Name: name, Email: email, Password: password}, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.Identity, error) {
	var users []domain.Identity
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, in ports.CreateUserInput) (*domain.Identity, error) {
	var user domain.Identity
	if err := c.do(ctx, "create_user", http.MethodPost, "/users", token, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.Identity, error) {
	var user domain.Identity
	if err := c.do(ctx, "update_user", http.MethodPatch, "/users/"+url.PathEscape(id), token, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, "delete_user", http.MethodDelete, "/users/"+url.PathEscape(id), token, nil, nil)
}

// do sends one request and decodes the envelope into out (which may be nil).
func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveAPICall(op, err, time.Since(start)) }()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("identityapi: encode %s: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("identityapi: build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ConnectionFailed(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ConnectionFailed(err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return domain.Rejected(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return domain.ConnectionFailed(fmt.Errorf("decode %s envelope: %w", op, decodeErr))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return domain.ConnectionFailed(fmt.Errorf("%s response has no data", op))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return domain.ConnectionFailed(fmt.Errorf("decode %s data: %w", op, err))
	}
	return nil
}
