package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"staybook/internal/domain"
	"staybook/internal/repos"
	"staybook/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=64"`
	FirstName string `json:"firstName" validate:"required,max=60"`
	LastName  string `json:"lastName" validate:"required,max=60"`
	RoleID    string `json:"roleId" validate:"required"`
}

// UpdateUserRequest is used by admins; Password is optional.
type UpdateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=8,max=64"`
	FirstName string `json:"firstName" validate:"required,max=60"`
	LastName  string `json:"lastName" validate:"required,max=60"`
	RoleID    string `json:"roleId" validate:"required"`
}

type ProfileRequest struct {
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=8,max=64"`
	FirstName string `json:"firstName" validate:"required,max=60"`
	LastName  string `json:"lastName" validate:"required,max=60"`
}

// RoleCount is one row of the admin dashboard.
type RoleCount struct {
	Role  domain.Role
	Users int
}

type UserService struct {
	Users *repos.UserRepo
	Roles *repos.RoleRepo
	Cache *PublicCache
}

func NewUserService(users *repos.UserRepo, roles *repos.RoleRepo, cache *PublicCache) *UserService {
	return &UserService{Users: users, Roles: roles, Cache: cache}
}

func (s *UserService) List() ([]domain.User, error) { return s.Users.List() }

func (s *UserService) ListRoles() ([]domain.Role, error) { return s.Roles.List() }

func (s *UserService) Get(id string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// Stats counts users per role, in role-name order.
func (s *UserService) Stats() ([]RoleCount, int, error) {
	roles, err := s.Roles.List()
	if err != nil {
		return nil, 0, err
	}
	users, err := s.Users.List()
	if err != nil {
		return nil, 0, err
	}
	by := map[string]int{}
	for _, u := range users {
		by[u.RoleID]++
	}
	out := make([]RoleCount, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleCount{Role: r, Users: by[r.ID]})
	}
	return out, len(users), nil
}

func checkPassword(pw string) error {
	if pw != "" && !validate.Password(pw) {
		return invalid("password", "weak")
	}
	return nil
}

func (s *UserService) checkRole(roleID string) error {
	if _, err := s.Roles.ByID(roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownRole
		}
		return err
	}
	return nil
}

func (s *UserService) checkEmail(email, selfID string) error {
	other, err := s.Users.ByEmail(email)
	if err == nil && other.ID != selfID {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func hash(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *UserService) Register(req RegisterRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validate.Fields(err)}
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.checkRole(req.RoleID); err != nil {
		return nil, err
	}
	if err := s.checkEmail(req.Email, ""); err != nil {
		return nil, err
	}
	h, err := hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Hash:      h,
		RoleID:    req.RoleID,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.Users.ByID(u.ID)
}

func (s *UserService) Update(id string, req UpdateUserRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validate.Fields(err)}
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRole(req.RoleID); err != nil {
		return nil, err
	}
	if err := s.checkEmail(req.Email, id); err != nil {
		return nil, err
	}
	u.Email, u.FirstName, u.LastName, u.RoleID = req.Email, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), req.RoleID
	u.Hash = ""
	if req.Password != "" {
		if u.Hash, err = hash(req.Password); err != nil {
			return nil, err
		}
	}
	if err := s.Users.Update(u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.Users.ByID(id)
}

// UpdateProfile lets a user edit their own names, email and password. The
// role is never taken from the request.
func (s *UserService) UpdateProfile(id string, req ProfileRequest) (*domain.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.Update(id, UpdateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    u.RoleID,
	})
}

// Delete removes the user with their sessions and properties and evicts
// their public pages from the cache.
func (s *UserService) Delete(id string) error {
	keys, err := s.Users.DeleteUserCascade(id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Cache.Forget(keys...)
	return nil
}
