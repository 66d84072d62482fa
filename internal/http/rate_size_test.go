package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"staybook/internal/config"
)

// Burst hits past the configured limit return 429.
func TestRateLimits(t *testing.T) {
	app, _ := newTestApp(t, config.Config{RateLimit: 3})

	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/p/canal-loft-demo", nil))
		if err != nil {
			t.Fatal(err)
		}
		if i < 3 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 3 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}

	// Health checks are never limited.
	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz limited: %d", resp.StatusCode)
	}
}

// Oversized bodies are rejected with 413.
func TestBodySizeLimit(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/dashboard/properties", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: b.csrf})
	req.AddCookie(&http.Cookie{Name: "sid", Value: b.sid})
	resp, err := app.Test(req, -1)
	// fasthttp may refuse the body before a response is written.
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(raw))
	}
}
