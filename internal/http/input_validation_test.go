package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"staybook/internal/config"
)

// Malformed input is refused before it reaches storage.
func TestValidationBadInputs(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	token := apiLogin(t, app, "host@staybook.test")

	resp := apiRequest(t, app, "POST", "/api/v1/properties", token, map[string]string{"name": "No address"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("incomplete create expected 400, got %d", resp.StatusCode)
	}
	var out struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Details["address"] != "required" || out.Details["city"] != "required" {
		t.Fatalf("details: %+v", out.Details)
	}

	resp = apiRequest(t, app, "POST", "/api/v1/properties", token, map[string]any{"name": "X", "rooftop": true})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown create field expected 400, got %d", resp.StatusCode)
	}

	resp = apiRequest(t, app, "PATCH", "/api/v1/properties/p-cabin", token, map[string]any{"sauna": map[string]any{"enabled": true}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown patch key expected 400, got %d", resp.StatusCode)
	}

	resp = apiRequest(t, app, "PATCH", "/api/v1/properties/p-cabin", token, map[string]any{"parking": map[string]any{"type": "helipad"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad enum expected 400, got %d", resp.StatusCode)
	}

	b := newBrowser(t, app, db, "")
	if resp := b.get("/p/" + url.PathEscape("<script>")); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("bad slug expected 404, got %d", resp.StatusCode)
	}

	host := newBrowser(t, app, db, "u-host")
	resp = host.post("/dashboard/properties", url.Values{"name": {"Only a name"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("dashboard create expected 400, got %d", resp.StatusCode)
	}
	if page := body(t, resp); !strings.Contains(page, "Only a name") {
		t.Fatal("dashboard should keep the submitted values")
	}
}

// Templates escape host-provided text on the guest page.
func TestTemplateAutoEscape(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	if _, err := db.Exec(`UPDATE properties SET name = '<script>alert(1)</script>' WHERE id = 'p-loft'`); err != nil {
		t.Fatal(err)
	}

	b := newBrowser(t, app, db, "")
	s := body(t, b.get("/p/canal-loft-demo"))
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
}

// Page forms without the CSRF token are refused.
func TestCSRFRequiredOnPages(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")
	b.csrf = "forged"

	resp := b.post("/dashboard/properties", url.Values{
		"name": {"Sneaky"}, "address": {"1 Rue"}, "city": {"Lyon"}, "country": {"France"},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("forged csrf expected 403, got %d", resp.StatusCode)
	}
}
