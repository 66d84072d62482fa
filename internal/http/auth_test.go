package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"staybook/internal/config"
	"staybook/internal/repos"
)

// Seeded passwords are stored as bcrypt hashes, never plaintext.
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "")

	login := func(email, pass string) *http.Response {
		return b.post("/login", url.Values{"email": {email}, "password": {pass}})
	}

	if resp := login("host@staybook.test", "wrongpass!"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}

	resp := login("host@staybook.test", "Passw0rd!")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("host should land on the dashboard, got %q", loc)
	}
	if page := b.get("/dashboard"); page.StatusCode != http.StatusOK {
		t.Fatalf("dashboard after login: %d", page.StatusCode)
	}

	// Five attempts per window; the sixth is refused.
	for i := 0; i < 3; i++ {
		_ = login("host@staybook.test", "wrongpass!")
	}
	if resp := login("host@staybook.test", "wrongpass!"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestAdminLandsOnAdminPage(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "")

	resp := b.post("/login", url.Values{"email": {"admin@staybook.test"}, "password": {"Passw0rd!"}})
	if loc := resp.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("admin should land on /admin, got %q", loc)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")

	if resp := b.get("/dashboard"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard, got %d", resp.StatusCode)
	}
	if resp := b.post("/logout", nil); resp.StatusCode != http.StatusFound {
		t.Fatalf("logout should redirect, got %d", resp.StatusCode)
	}
	resp := b.get("/dashboard")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to login after logout, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestAPILoginIssuesToken(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})

	resp := apiRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]string{"email": "host@staybook.test", "password": "nope-nope"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	token := apiLogin(t, app, "host@staybook.test")
	resp = apiRequest(t, app, "GET", "/api/v1/users/profile", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile with token: %d", resp.StatusCode)
	}
	if s := body(t, resp); !strings.Contains(s, `"email":"host@staybook.test"`) || strings.Contains(s, "password") {
		t.Fatalf("unexpected profile body: %s", s)
	}

	if resp := apiRequest(t, app, "GET", "/api/v1/users/profile", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("profile without token should be 401, got %d", resp.StatusCode)
	}
}
