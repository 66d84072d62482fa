package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"staybook/internal/domain"
	"staybook/internal/repos"
	"staybook/internal/validate"

	"github.com/google/uuid"
)

type CreatePropertyRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=4000"`
	Address     string `json:"address" validate:"required,max=200"`
	City        string `json:"city" validate:"required,max=100"`
	Country     string `json:"country" validate:"required,max=100"`
	ZipCode     string `json:"zipCode" validate:"max=20"`
}

type PropertyService struct {
	Props *repos.PropertyRepo
	Cache *PublicCache
	Now   func() time.Time
}

func NewPropertyService(props *repos.PropertyRepo, cache *PublicCache) *PropertyService {
	return &PropertyService{Props: props, Cache: cache, Now: time.Now}
}

func (s *PropertyService) stamp() string {
	return s.Now().UTC().Format(time.RFC3339)
}

func (s *PropertyService) Create(hostID string, req CreatePropertyRequest) (*domain.Property, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	req.Country = strings.TrimSpace(req.Country)
	if req.Country == "" {
		req.Country = "France"
	}
	if err := validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validate.Fields(err)}
	}

	slug, err := s.uniqueSlug(req.Name)
	if err != nil {
		return nil, err
	}
	now := s.stamp()
	p := &domain.Property{
		ID:          uuid.NewString(),
		Slug:        slug,
		HostID:      hostID,
		Status:      domain.StatusDraft,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		ZipCode:     strings.TrimSpace(req.ZipCode),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Props.Create(p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return p, nil
}

func (s *PropertyService) uniqueSlug(name string) (string, error) {
	base := Slugify(name)
	for i := 0; i < 5; i++ {
		slug := base + "-" + uuid.NewString()[:6]
		taken, err := s.Props.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return "", errors.New("could not allocate a unique slug")
}

// Slugify lowercases name and joins its ASCII letters and digits with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 60 {
		out = strings.TrimSuffix(out[:60], "-")
	}
	if out == "" {
		out = "property"
	}
	return out
}

// Owned returns the property only when hostID owns it. Anything else,
// including someone else's property, is ErrNotFound.
func (s *PropertyService) Owned(hostID, id string) (*domain.Property, error) {
	p, err := s.Props.Get(id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.HostID != hostID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PropertyService) ListByHost(hostID string) ([]domain.Property, error) {
	return s.Props.ListByHost(hostID)
}

func (s *PropertyService) Counts(hostID string) (drafts, published int, err error) {
	return s.Props.CountByStatus(hostID)
}

// ValidatePatch checks a partial update before anything is written.
func ValidatePatch(patch domain.PropertyPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return invalid("name", "required")
	}
	if err := validate.Struct(patch); err != nil {
		return &ValidationError{Fields: validate.Fields(err)}
	}
	return nil
}

// Update applies a partial update. Sections present in the patch replace
// the stored ones whole; last write wins.
func (s *PropertyService) Update(hostID, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}
	p, err := s.Owned(hostID, id)
	if err != nil {
		return nil, err
	}
	p.Apply(patch)
	p.UpdatedAt = s.stamp()
	if err := s.Props.Update(p); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	s.Cache.Forget(p.ID, p.Slug)
	return p, nil
}

func (s *PropertyService) Publish(hostID, id string) (*domain.Property, error) {
	p, err := s.Owned(hostID, id)
	if err != nil {
		return nil, err
	}
	if p.IsPublished() {
		return nil, ErrAlreadyPublished
	}
	if err := s.Props.Publish(p.ID, s.stamp()); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrAlreadyPublished
		}
		return nil, err
	}
	s.Cache.Forget(p.ID, p.Slug)
	return s.Props.Get(p.ID)
}

func (s *PropertyService) Delete(hostID, id string) (*domain.Property, error) {
	p, err := s.Owned(hostID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Props.Delete(p.ID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.Cache.Forget(p.ID, p.Slug)
	return p, nil
}

// Public resolves a guest link. Drafts and unknown keys are ErrNotFound.
func (s *PropertyService) Public(key string) (*domain.Property, error) {
	if p, ok := s.Cache.Get(key); ok {
		return p, nil
	}
	gen := s.Cache.Generation()
	p, err := s.Props.BySlugOrID(key)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.IsPublished() {
		return nil, ErrNotFound
	}
	s.Cache.PutFresh(gen, p)
	return p, nil
}

// Visible is the lookup behind GET /properties/:idOrSlug: the owner sees
// drafts, everyone else sees the published view only.
func (s *PropertyService) Visible(viewerID, key string) (*domain.Property, error) {
	if viewerID != "" {
		p, err := s.Props.BySlugOrID(key)
		if err == nil && p.HostID == viewerID {
			return p, nil
		}
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return nil, err
		}
	}
	return s.Public(key)
}
