// Package client is a thin JSON-over-HTTP client for the pulsecheck API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/pulsecheck/internal/client/models"
	"github.com/dmitrijs2005/pulsecheck/internal/common"
)

// HTTPDoer is the part of *http.Client the API client relies on.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	http    HTTPDoer
	token   string
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) { c.http = d }
}

// WithToken sets the token sent with authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do sends body (when non-nil) as JSON and decodes a 200 response into out
// (when non-nil). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.TokenHeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			apiErr.Code = eb.Code
			apiErr.Message = eb.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) requireToken() error {
	if c.token == "" {
		return errors.New("no token: run login first or pass --token")
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "ping", nil, nil, nil)
}

// users

func (c *Client) CreateUser(ctx context.Context, u models.NewUser) error {
	return c.do(ctx, http.MethodPost, "users", nil, u, nil)
}

func (c *Client) GetUser(ctx context.Context, phone string) (*models.User, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var u models.User
	if err := c.do(ctx, http.MethodGet, "users", url.Values{"phone": {phone}}, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, p models.UserPatch) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "users", nil, p, nil)
}

func (c *Client) DeleteUser(ctx context.Context, phone string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "users", url.Values{"phone": {phone}}, nil, nil)
}

// tokens

// Login issues a token for phone/password and keeps it on the client for
// subsequent calls.
func (c *Client) Login(ctx context.Context, phone, password string) (*models.Token, error) {
	var t models.Token
	body := map[string]string{"phone": phone, "password": password}
	if err := c.do(ctx, http.MethodPost, "tokens", nil, body, &t); err != nil {
		return nil, err
	}
	c.token = t.ID
	return &t, nil
}

func (c *Client) GetToken(ctx context.Context, id string) (*models.Token, error) {
	var t models.Token
	if err := c.do(ctx, http.MethodGet, "tokens", url.Values{"id": {id}}, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) RenewToken(ctx context.Context, id string) error {
	body := map[string]any{"id": id, "extend": true}
	return c.do(ctx, http.MethodPut, "tokens", nil, body, nil)
}

func (c *Client) RevokeToken(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "tokens", url.Values{"id": {id}}, nil, nil)
}

// checks

func (c *Client) CreateCheck(ctx context.Context, in models.NewCheck) (*models.Check, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var ch models.Check
	if err := c.do(ctx, http.MethodPost, "checks", nil, in, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) GetCheck(ctx context.Context, id string) (*models.Check, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var ch models.Check
	if err := c.do(ctx, http.MethodGet, "checks", url.Values{"id": {id}}, nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) UpdateCheck(ctx context.Context, p models.CheckPatch) (*models.Check, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var ch models.Check
	if err := c.do(ctx, http.MethodPut, "checks", nil, p, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *Client) DeleteCheck(ctx context.Context, id string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "checks", url.Values{"id": {id}}, nil, nil)
}
