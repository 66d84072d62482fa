package services

import (
	"errors"

	"staybook/internal/domain"
	"staybook/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *TokenIssuer
}

// Authenticate checks credentials without touching any session state.
func (s *AuthService) Authenticate(email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}

// Login binds the browser session sid to the user.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Authenticate(email, password)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// LoginToken is the API flavour of Login: it returns a bearer token.
func (s *AuthService) LoginToken(email, password string) (*domain.User, string, error) {
	u, err := s.Authenticate(email, password)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// TokenUser resolves a bearer token to a live user; deleted users fail.
func (s *AuthService) TokenUser(raw string) (*domain.User, error) {
	claims, err := s.Tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(claims.UserID)
	if err != nil {
		return nil, ErrBadToken
	}
	return u, nil
}
