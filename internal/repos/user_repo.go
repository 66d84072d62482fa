package repos

import (
	"staybook/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `u.id,u.email,u.first_name,u.last_name,u.password_hash,u.role_id,r.slug AS role_slug,COALESCE(u.created_at,'') AS created_at`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users u JOIN roles r ON r.id=u.role_id WHERE LOWER(u.email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users u JOIN roles r ON r.id=u.role_id WHERE u.id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users u JOIN roles r ON r.id=u.role_id ORDER BY LOWER(u.email)`)
	return out, err
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,first_name,last_name,password_hash,role_id,created_at)
		VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, u.ID, u.Email, u.FirstName, u.LastName, u.Hash, u.RoleID)
	return err
}

// Update writes profile fields and role; the hash is only replaced when set.
func (r *UserRepo) Update(u *domain.User) error {
	if u.Hash != "" {
		_, err := r.DB.Exec(`
			UPDATE users SET email=?,first_name=?,last_name=?,role_id=?,password_hash=?,updated_at=CURRENT_TIMESTAMP
			WHERE id=?`, u.Email, u.FirstName, u.LastName, u.RoleID, u.Hash, u.ID)
		return err
	}
	_, err := r.DB.Exec(`
		UPDATE users SET email=?,first_name=?,last_name=?,role_id=?,updated_at=CURRENT_TIMESTAMP
		WHERE id=?`, u.Email, u.FirstName, u.LastName, u.RoleID, u.ID)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT `+userCols+`
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      JOIN roles r ON r.id=u.role_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// DeleteUserCascade removes the user's sessions and properties, then the user.
// Returns the ids and slugs of deleted properties so cached public pages
// can be dropped.
func (r *UserRepo) DeleteUserCascade(userID string) ([]string, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var gone []struct {
		ID   string `db:"id"`
		Slug string `db:"slug"`
	}
	if err := tx.Select(&gone, `SELECT id, slug FROM properties WHERE host_id=?`, userID); err != nil {
		return nil, err
	}
	keys := make([]string, 0, 2*len(gone))
	for _, g := range gone {
		keys = append(keys, g.ID, g.Slug)
	}
	if _, err := tx.Exec(`DELETE FROM properties WHERE host_id=?`, userID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id=?`, userID); err != nil {
		return nil, err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return keys, tx.Commit()
}
