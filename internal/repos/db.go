package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per-connection in sqlite.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedRoles(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedProperties(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Roles
CREATE TABLE IF NOT EXISTS roles(
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role_id TEXT NOT NULL REFERENCES roles(id),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Properties (sections are stored as one JSON document)
CREATE TABLE IF NOT EXISTS properties(
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  host_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  status INTEGER NOT NULL DEFAULT 1 CHECK (status IN (1,2)),
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  zip_code TEXT NOT NULL DEFAULT '',
  images_json TEXT NOT NULL DEFAULT '[]',
  sections_json TEXT NOT NULL DEFAULT '{}',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  published_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_properties_host ON properties(host_id);
CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status);
`
	_, err := db.Exec(schema)
	return err
}

func seedRoles(db *sqlx.DB) error {
	_, err := db.Exec(`
		INSERT INTO roles(id, slug, name) VALUES
		  ('r-admin', 'admin', 'Administrator'),
		  ('r-host',  'host',  'Host'),
		  ('r-guest', 'guest', 'Guest')
		ON CONFLICT(id) DO NOTHING
	`)
	return err
}

// seedUsers ensures one ADMIN and two hosts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, First, Last, Role, Hash string
	}
	mk := func(id, email, first, last, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, First: first, Last: last, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-admin", "admin@staybook.test", "Ada", "Admin", "r-admin", "Passw0rd!"),
		mk("u-host", "host@staybook.test", "Hugo", "Host", "r-host", "Passw0rd!"),
		mk("u-host2", "host2@staybook.test", "Hana", "Host", "r-host", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,first_name,last_name,password_hash,role_id)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.First, x.Last, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedProperties inserts one published and one draft property for the demo
// host when the table is empty.
func seedProperties(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM properties`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo properties")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO properties(id,slug,host_id,status,name,description,address,city,country,zip_code,images_json,sections_json,published_at) VALUES
	  ('p-loft','canal-loft-demo','u-host',2,'Canal Loft','Bright loft by the canal','12 Quai de Jemmapes','Paris','France','75010','[]',
	   '{"wifi":{"enabled":true,"networkName":"LoftGuest","password":"canal2024"},"checkInOut":{"enabled":true,"checkInTime":"15:00","checkOutTime":"11:00","selfCheckIn":true,"earlyCheckIn":false,"lateCheckOut":false}}',
	   CURRENT_TIMESTAMP),
	  ('p-cabin','pine-cabin-demo','u-host',1,'Pine Cabin','','3 Chemin des Pins','Annecy','France','','[]','{}',NULL)`)

	return tx.Commit()
}
