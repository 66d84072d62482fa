// Package session keeps the signed-in user and bearer token of a client.
// A session starts with Begin (login) and ends with End (logout); nothing
// else reads or writes the token.
package session

import (
	"context"
	"errors"
	"fmt"

	"staybook/internal/apiclient"
	"staybook/internal/domain"
)

var ErrNoSession = errors.New("not logged in")

type Session struct {
	BaseURL string      `json:"baseUrl"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

// Client returns an API client that authenticates as this session.
func (s *Session) Client() *apiclient.Client {
	return apiclient.New(s.BaseURL).WithToken(s.Token)
}

// Store persists at most one session.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// Begin logs in and stores the resulting session.
func Begin(ctx context.Context, c *apiclient.Client, store Store, email, password string) (*Session, error) {
	res, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s := &Session{BaseURL: c.BaseURL, Token: res.Token, User: res.User}
	if err := store.Save(s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

// Current loads the stored session or reports ErrNoSession.
func Current(store Store) (*Session, error) {
	return store.Load()
}

// End forgets the stored session. Ending twice is not an error.
func End(store Store) error {
	return store.Clear()
}
