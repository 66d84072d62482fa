package repos

import (
	"staybook/internal/domain"

	"github.com/jmoiron/sqlx"
)

type RoleRepo struct{ db *sqlx.DB }

func NewRoleRepo(db *sqlx.DB) *RoleRepo { return &RoleRepo{db: db} }

func (r *RoleRepo) List() ([]domain.Role, error) {
	var out []domain.Role
	err := r.db.Select(&out, `SELECT id, slug, name FROM roles ORDER BY name`)
	return out, err
}

func (r *RoleRepo) ByID(id string) (domain.Role, error) {
	var role domain.Role
	err := r.db.Get(&role, `SELECT id, slug, name FROM roles WHERE id = ?`, id)
	return role, err
}

func (r *RoleRepo) BySlug(slug string) (domain.Role, error) {
	var role domain.Role
	err := r.db.Get(&role, `SELECT id, slug, name FROM roles WHERE slug = ?`, slug)
	return role, err
}
