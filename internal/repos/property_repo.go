package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"staybook/internal/domain"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

type PropertyRepo struct{ db *sqlx.DB }

func NewPropertyRepo(db *sqlx.DB) *PropertyRepo { return &PropertyRepo{db: db} }

type propertyRow struct {
	ID           string `db:"id"`
	Slug         string `db:"slug"`
	HostID       string `db:"host_id"`
	Status       int    `db:"status"`
	Name         string `db:"name"`
	Description  string `db:"description"`
	Address      string `db:"address"`
	City         string `db:"city"`
	Country      string `db:"country"`
	ZipCode      string `db:"zip_code"`
	ImagesJSON   string `db:"images_json"`
	SectionsJSON string `db:"sections_json"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
	PublishedAt  string `db:"published_at"`
}

const propertyCols = `
    id, slug, host_id, status, name, description, address, city, country, zip_code,
    images_json, sections_json, COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at, COALESCE(published_at,'') AS published_at`

func (row propertyRow) toDomain() (*domain.Property, error) {
	p := &domain.Property{
		ID:          row.ID,
		Slug:        row.Slug,
		HostID:      row.HostID,
		Status:      domain.Status(row.Status),
		Name:        row.Name,
		Description: row.Description,
		Address:     row.Address,
		City:        row.City,
		Country:     row.Country,
		ZipCode:     row.ZipCode,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		PublishedAt: row.PublishedAt,
	}
	if row.ImagesJSON != "" {
		if err := json.Unmarshal([]byte(row.ImagesJSON), &p.Images); err != nil {
			return nil, fmt.Errorf("property %s images: %w", row.ID, err)
		}
	}
	if row.SectionsJSON != "" {
		if err := json.Unmarshal([]byte(row.SectionsJSON), &p.Sections); err != nil {
			return nil, fmt.Errorf("property %s sections: %w", row.ID, err)
		}
	}
	return p, nil
}

func encode(p *domain.Property) (images, sections string, err error) {
	imgs := p.Images
	if imgs == nil {
		imgs = []string{}
	}
	ib, err := json.Marshal(imgs)
	if err != nil {
		return "", "", err
	}
	sb, err := json.Marshal(p.Sections)
	if err != nil {
		return "", "", err
	}
	return string(ib), string(sb), nil
}

func (r *PropertyRepo) one(query string, args ...any) (*domain.Property, error) {
	var row propertyRow
	if err := r.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *PropertyRepo) many(query string, args ...any) ([]domain.Property, error) {
	var rows []propertyRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *PropertyRepo) Get(id string) (*domain.Property, error) {
	return r.one(`SELECT `+propertyCols+` FROM properties WHERE id = ?`, id)
}

// BySlugOrID resolves the public link, which may carry either identifier.
func (r *PropertyRepo) BySlugOrID(key string) (*domain.Property, error) {
	return r.one(`SELECT `+propertyCols+` FROM properties WHERE slug = ? OR id = ? LIMIT 1`, key, key)
}

func (r *PropertyRepo) ListByHost(hostID string) ([]domain.Property, error) {
	return r.many(`SELECT `+propertyCols+` FROM properties WHERE host_id = ? ORDER BY created_at DESC, name`, hostID)
}

func (r *PropertyRepo) SlugExists(slug string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM properties WHERE slug = ?`, slug)
	return n > 0, err
}

func (r *PropertyRepo) Create(p *domain.Property) error {
	images, sections, err := encode(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  INSERT INTO properties
	    (id, slug, host_id, status, name, description, address, city, country, zip_code,
	     images_json, sections_json, created_at, updated_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Slug, p.HostID, int(p.Status), p.Name, p.Description, p.Address, p.City, p.Country, p.ZipCode,
		images, sections, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update persists the editable state of p. Status and publish time are
// owned by Publish.
func (r *PropertyRepo) Update(p *domain.Property) error {
	images, sections, err := encode(p)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(`
	  UPDATE properties
	  SET name = ?, description = ?, address = ?, city = ?, country = ?, zip_code = ?,
	      images_json = ?, sections_json = ?, updated_at = ?
	  WHERE id = ?
	`, p.Name, p.Description, p.Address, p.City, p.Country, p.ZipCode, images, sections, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Publish flips a draft to published. It matches only drafts so a second
// call reports ErrNotFound instead of moving publishedAt.
func (r *PropertyRepo) Publish(id, at string) error {
	res, err := r.db.Exec(`
	  UPDATE properties SET status = 2, published_at = ?, updated_at = ?
	  WHERE id = ? AND status = 1
	`, at, at, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PropertyRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// CountByStatus returns draft/published totals, optionally for one host.
func (r *PropertyRepo) CountByStatus(hostID string) (drafts, published int, err error) {
	var rows []struct {
		Status int `db:"status"`
		N      int `db:"n"`
	}
	q := `SELECT status, COUNT(*) AS n FROM properties`
	args := []any{}
	if hostID != "" {
		q += ` WHERE host_id = ?`
		args = append(args, hostID)
	}
	q += ` GROUP BY status`
	if err = r.db.Select(&rows, q, args...); err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		switch domain.Status(row.Status) {
		case domain.StatusDraft:
			drafts = row.N
		case domain.StatusPublished:
			published = row.N
		}
	}
	return drafts, published, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
