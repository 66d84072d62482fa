package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"staybook/internal/config"
	"staybook/internal/http/handlers"
	applog "staybook/internal/log"
	"staybook/internal/repos"
)

func newTestApp(t *testing.T, cfg config.Config) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "http-test-secret"
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1000
	}
	deps := handlers.NewDeps(db, cfg)
	app := handlers.NewApp(cfg, deps, html.New("../../web/templates", ".html"))
	t.Cleanup(func() {
		deps.Close()
		_ = db.Close()
	})
	return app, db
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// browser carries the sid and csrf cookies between requests.
type browser struct {
	t    *testing.T
	app  *fiber.App
	sid  string
	csrf string
}

// newBrowser fetches a CSRF token and, when userID is set, binds a
// signed-in session for that user.
func newBrowser(t *testing.T, app *fiber.App, db *sqlx.DB, userID string) *browser {
	t.Helper()
	b := &browser{t: t, app: app}
	resp := b.get("/login")
	b.csrf = extractCookie(resp, "csrf_")
	if b.csrf == "" {
		t.Fatal("csrf token missing")
	}
	if userID != "" {
		b.sid = "sid-" + userID
		if err := repos.NewUserRepo(db).BindSession(b.sid, userID); err != nil {
			t.Fatalf("bind session: %v", err)
		}
	}
	return b
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	if b.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: b.sid})
	}
	if b.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: b.csrf})
	}
	resp, err := b.app.Test(req, -1)
	if err != nil {
		b.t.Fatal(err)
	}
	if sid := extractCookie(resp, "sid"); sid != "" {
		b.sid = sid
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest("GET", path, nil))
}

func (b *browser) post(path string, form url.Values) *http.Response {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", b.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func apiRequest(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var rd io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func apiLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := apiRequest(t, app, "POST", "/api/v1/auth/login", "", map[string]string{"email": email, "password": "Passw0rd!"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("api login: status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out.Token
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// captureLogs redirects the event log while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	applog.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	defer applog.SetOutput(io.Discard)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
