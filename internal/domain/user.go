package domain

const (
	RoleAdmin = "admin"
	RoleHost  = "host"
	RoleGuest = "guest"
)

type Role struct {
	ID   string `db:"id" json:"id"`
	Slug string `db:"slug" json:"slug"`
	Name string `db:"name" json:"name"`
}

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Hash      string `db:"password_hash" json:"-"`
	RoleID    string `db:"role_id" json:"roleId"`
	Role      string `db:"role_slug" json:"role"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// DisplayName is what the header and admin tables show.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}
