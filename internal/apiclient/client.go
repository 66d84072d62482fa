// Package apiclient talks to the staybook REST API with a bearer token.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"staybook/internal/domain"
	"staybook/internal/editor"

	"github.com/gofiber/fiber/v2"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Is lets callers test API failures against the editor's sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case editor.ErrNotFound:
		return e.Status == fiber.StatusNotFound
	case editor.ErrAlreadyPublished:
		return e.Status == fiber.StatusConflict
	case ErrUnauthorized:
		return e.Status == fiber.StatusUnauthorized
	}
	return false
}

var ErrUnauthorized = errors.New("not logged in or token expired")

type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	http *fiber.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: 10 * time.Second,
		http:    &fiber.Client{UserAgent: "staybookctl"},
	}
}

// WithToken returns a copy of c that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

func (c *Client) agent(method, u string) *fiber.Agent {
	switch method {
	case fiber.MethodPost:
		return c.http.Post(u)
	case fiber.MethodPut:
		return c.http.Put(u)
	case fiber.MethodPatch:
		return c.http.Patch(u)
	case fiber.MethodDelete:
		return c.http.Delete(u)
	}
	return c.http.Get(u)
}

// do sends one request. The agent has no context support, so ctx only
// bounds the timeout and is checked before sending.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := c.agent(method, c.BaseURL+"/api/v1"+path)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	}
	if in != nil {
		a.JSON(in)
	}
	timeout := c.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if code >= 400 {
		return decodeError(code, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

func decodeError(code int, body []byte) error {
	var payload struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{Status: code, Message: payload.Error, Details: payload.Details}
}

func esc(s string) string { return url.PathEscape(s) }

type LoginResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, fiber.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewProperty carries the general fields of a property to create.
type NewProperty struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	ZipCode     string `json:"zipCode,omitempty"`
}

func (c *Client) CreateProperty(ctx context.Context, in NewProperty) (*domain.Property, error) {
	var out domain.Property
	if err := c.do(ctx, fiber.MethodPost, "/properties", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProperty fetches by id or slug. Without a token only published
// properties are visible.
func (c *Client) GetProperty(ctx context.Context, idOrSlug string) (*domain.Property, error) {
	var out domain.Property
	if err := c.do(ctx, fiber.MethodGet, "/properties/"+esc(idOrSlug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id string, patch editor.Patch) (*domain.Property, error) {
	var out domain.Property
	if err := c.do(ctx, fiber.MethodPatch, "/properties/"+esc(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PublishProperty(ctx context.Context, id string) (*domain.Property, error) {
	var out domain.Property
	if err := c.do(ctx, fiber.MethodPost, "/properties/"+esc(id)+"/publish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.do(ctx, fiber.MethodDelete, "/properties/"+esc(id), nil, nil)
}

func (c *Client) ListProperties(ctx context.Context, userID string) ([]domain.Property, error) {
	var out []domain.Property
	err := c.do(ctx, fiber.MethodGet, "/properties/user/"+esc(userID), nil, &out)
	return out, err
}

// UserInput is the body of register, update and profile calls.
type UserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RoleID    string `json:"roleId,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, fiber.MethodGet, "/users", nil, &out)
	return out, err
}

func (c *Client) RegisterUser(ctx context.Context, in UserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, fiber.MethodPost, "/users/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, fiber.MethodPut, "/users/"+esc(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, fiber.MethodDelete, "/users/"+esc(id), nil, nil)
}

func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var out []domain.Role
	err := c.do(ctx, fiber.MethodGet, "/roles", nil, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, fiber.MethodGet, "/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in UserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, fiber.MethodPut, "/users/profile", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, fiber.MethodDelete, "/users/profile", nil, nil)
}

var _ editor.PropertyAPI = (*Client)(nil)
