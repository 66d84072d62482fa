package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"staybook/internal/config"
)

func wifiForm(network string) url.Values {
	return url.Values{
		"fields": {"1"}, "enabled": {"on"}, "networkName": {network}, "password": {"pine-2024"},
		"routerLocation": {""}, "resetInstructions": {""}, "notes": {""},
	}
}

// Switching away from unsaved edits opens the guard dialog; saving from
// the dialog persists them and lands on the requested section.
func TestEditorGuardSaveAndContinue(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")

	resp := b.get("/dashboard/properties/p-cabin")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open editor: %d", resp.StatusCode)
	}
	if page := body(t, resp); !strings.Contains(page, "Pine Cabin") || !strings.Contains(page, "General") {
		t.Fatal("editor page misses the property or the general section")
	}

	// Clean switch.
	if resp := b.post("/dashboard/properties/p-cabin", url.Values{"goto": {"wifi"}}); resp.StatusCode != http.StatusFound {
		t.Fatalf("goto wifi: %d", resp.StatusCode)
	}
	page := body(t, b.get("/dashboard/properties/p-cabin"))
	if !strings.Contains(page, `name="networkName"`) {
		t.Fatal("wifi section not active after a clean switch")
	}
	if strings.Contains(page, "Save them before opening") {
		t.Fatal("clean switch must not prompt")
	}

	form := wifiForm("CabinNet")
	form.Set("goto", "rules")
	if resp := b.post("/dashboard/properties/p-cabin", form); resp.StatusCode != http.StatusFound {
		t.Fatalf("goto rules with edits: %d", resp.StatusCode)
	}
	page = body(t, b.get("/dashboard/properties/p-cabin"))
	if !strings.Contains(page, "Save them before opening House rules") {
		t.Fatalf("guard dialog missing: %s", page)
	}
	if !strings.Contains(page, `value="CabinNet"`) {
		t.Fatal("unsaved edits lost while prompting")
	}

	if resp := b.post("/dashboard/properties/p-cabin/guard", url.Values{"choice": {"save"}}); resp.StatusCode != http.StatusFound {
		t.Fatalf("guard save: %d", resp.StatusCode)
	}
	var sections string
	if err := db.Get(&sections, `SELECT sections_json FROM properties WHERE id = 'p-cabin'`); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sections, `"networkName":"CabinNet"`) || !strings.Contains(sections, `"enabled":true`) {
		t.Fatalf("wifi not persisted: %s", sections)
	}
	page = body(t, b.get("/dashboard/properties/p-cabin"))
	if !strings.Contains(page, `name="maxGuests"`) || strings.Contains(page, "Save them before opening") {
		t.Fatal("expected the rules section without a dialog after saving")
	}
}

func TestEditorGuardDiscardAndCancel(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")

	b.post("/dashboard/properties/p-loft", url.Values{"goto": {"wifi"}})
	form := wifiForm("Changed")
	form.Set("goto", "pets")
	b.post("/dashboard/properties/p-loft", form)

	b.post("/dashboard/properties/p-loft/guard", url.Values{"choice": {"cancel"}})
	page := body(t, b.get("/dashboard/properties/p-loft"))
	if strings.Contains(page, "Save them before opening") || !strings.Contains(page, `value="Changed"`) {
		t.Fatal("cancel should close the dialog and keep the edits")
	}

	form.Set("goto", "pets")
	b.post("/dashboard/properties/p-loft", form)
	b.post("/dashboard/properties/p-loft/guard", url.Values{"choice": {"discard"}})

	var sections string
	_ = db.Get(&sections, `SELECT sections_json FROM properties WHERE id = 'p-loft'`)
	if !strings.Contains(sections, "LoftGuest") || strings.Contains(sections, "Changed") {
		t.Fatalf("discard must not save: %s", sections)
	}
	page = body(t, b.get("/dashboard/properties/p-loft"))
	if !strings.Contains(page, "<h2>Pets</h2>") {
		t.Fatal("discard should continue to the requested section")
	}
}

func TestEditorValidationErrors(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")

	b.post("/dashboard/properties/p-cabin", url.Values{"goto": {"rules"}})
	resp := b.post("/dashboard/properties/p-cabin", url.Values{
		"fields": {"1"}, "enabled": {"on"}, "maxGuests": {"2.5"}, "action": {"save"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if page := body(t, resp); !strings.Contains(page, `<small class="err">integer</small>`) {
		t.Fatalf("field error not rendered: %s", page)
	}

	// General fields are required.
	b.post("/dashboard/properties/p-cabin", url.Values{"fields": {"1"}, "enabled": {"on"}, "maxGuests": {"2"}, "goto": {"general"}})
	b.post("/dashboard/properties/p-cabin/guard", url.Values{"choice": {"save"}})
	resp = b.post("/dashboard/properties/p-cabin", url.Values{
		"fields": {"1"}, "name": {"   "}, "address": {"3 Chemin des Pins"}, "city": {"Annecy"}, "country": {"France"}, "action": {"save"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("blank name: expected 422, got %d", resp.StatusCode)
	}
}

func TestEditorPublishOpensGuestPage(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")
	guest := newBrowser(t, app, db, "")

	if resp := guest.get("/p/pine-cabin-demo"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("draft must be hidden, got %d", resp.StatusCode)
	}
	if resp := b.post("/dashboard/properties/p-cabin", url.Values{"action": {"publish"}}); resp.StatusCode != http.StatusFound {
		t.Fatalf("publish: %d", resp.StatusCode)
	}
	if resp := guest.get("/p/pine-cabin-demo"); resp.StatusCode != http.StatusOK {
		t.Fatalf("published page: %d", resp.StatusCode)
	}
	page := body(t, b.get("/dashboard/properties/p-cabin"))
	if !strings.Contains(page, "Property published") || !strings.Contains(page, `value="unpublish"`) {
		t.Fatal("editor should report the publish and offer unpublish")
	}

	b.post("/dashboard/properties/p-cabin", url.Values{"action": {"unpublish"}})
	if resp := guest.get("/p/pine-cabin-demo"); resp.StatusCode != http.StatusOK {
		t.Fatal("unpublish must leave the property published")
	}
}

func TestEditorForeignPropertyRedirects(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host2")

	resp := b.get("/dashboard/properties/p-cabin")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	if resp := b.post("/dashboard/properties/p-cabin", url.Values{"action": {"publish"}}); resp.StatusCode != http.StatusFound {
		t.Fatalf("foreign publish: %d", resp.StatusCode)
	}
	var status int
	_ = db.Get(&status, `SELECT status FROM properties WHERE id = 'p-cabin'`)
	if status != 1 {
		t.Fatal("foreign host published someone else's property")
	}
}

func TestDashboardCreateAndDelete(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host2")

	resp := b.post("/dashboard/properties", url.Values{
		"name": {"Harbour View"}, "address": {"1 Quai"}, "city": {"Brest"}, "country": {"France"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("create: %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/dashboard/properties/") {
		t.Fatalf("create should open the editor, got %q", loc)
	}
	if page := body(t, b.get("/dashboard")); !strings.Contains(page, "Harbour View") {
		t.Fatal("new property missing from the dashboard")
	}

	if resp := b.post(loc+"/delete", nil); resp.StatusCode != http.StatusFound {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	var n int
	_ = db.Get(&n, `SELECT COUNT(*) FROM properties WHERE host_id = 'u-host2'`)
	if n != 0 {
		t.Fatal("property still stored after delete")
	}
}

func checkInForm(instructions string) url.Values {
	v := url.Values{"fields": {"1"}, "enabled": {"on"}, "checkInTime": {"15:00"}, "checkOutTime": {"11:00"}}
	for _, name := range []string{"checkOutInstructions", "keyLocation", "accessCode", "lockboxCode",
		"buildingCode", "intercomCode", "parkingCode", "gateCode"} {
		v.Set(name, "")
	}
	v.Set("checkInInstructions", instructions)
	return v
}

// Browsers post textarea newlines as CRLF; an untouched textarea must not
// count as an edit.
func TestEditorTextareaLineEndingsDoNotPrompt(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	token := apiLogin(t, app, "host@staybook.test")
	resp := apiRequest(t, app, "PATCH", "/api/v1/properties/p-cabin", token, map[string]any{
		"checkInOut": map[string]any{"enabled": true, "checkInInstructions": "Ring\nthen wait"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed check-in: %d", resp.StatusCode)
	}

	b := newBrowser(t, app, db, "u-host")
	b.post("/dashboard/properties/p-cabin", url.Values{"goto": {"checkinout"}})
	page := body(t, b.get("/dashboard/properties/p-cabin"))
	if !strings.Contains(page, "\nRing\nthen wait</textarea>") {
		t.Fatal("textarea should start with a newline the browser drops")
	}

	form := checkInForm("Ring\r\nthen wait")
	form.Set("goto", "wifi")
	b.post("/dashboard/properties/p-cabin", form)
	page = body(t, b.get("/dashboard/properties/p-cabin"))
	if strings.Contains(page, "Save them before opening") {
		t.Fatal("untouched textarea opened the unsaved-changes dialog")
	}
	if !strings.Contains(page, "<h2>Wi-Fi</h2>") {
		t.Fatal("switch to wifi did not happen")
	}
}

// A disabled section collapses but still posts its values back.
func TestEditorDisabledSectionCollapses(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	token := apiLogin(t, app, "host@staybook.test")
	apiRequest(t, app, "PATCH", "/api/v1/properties/p-cabin", token, map[string]any{
		"wifi": map[string]any{"enabled": false, "networkName": "Hidden", "resetInstructions": "Unplug\nwait"},
	})

	b := newBrowser(t, app, db, "u-host")
	b.post("/dashboard/properties/p-cabin", url.Values{"goto": {"wifi"}})
	page := body(t, b.get("/dashboard/properties/p-cabin"))
	if strings.Contains(page, `<input type="text" name="networkName"`) {
		t.Fatal("fields of a disabled section should be collapsed")
	}
	if !strings.Contains(page, `<input type="hidden" name="networkName" value="Hidden">`) {
		t.Fatal("collapsed values must still be posted")
	}

	// What the browser sends back from the collapsed section.
	b.post("/dashboard/properties/p-cabin", url.Values{
		"fields": {"1"}, "networkName": {"Hidden"}, "password": {""}, "routerLocation": {""},
		"resetInstructions": {"Unplug\r\nwait"}, "notes": {""}, "goto": {"rules"},
	})
	page = body(t, b.get("/dashboard/properties/p-cabin"))
	if strings.Contains(page, "Save them before opening") || !strings.Contains(page, "<h2>House rules</h2>") {
		t.Fatal("collapsed section round trip should switch without a prompt")
	}

	// Enabling and applying expands the fields.
	b.post("/dashboard/properties/p-cabin", url.Values{"goto": {"wifi"}})
	b.post("/dashboard/properties/p-cabin", url.Values{
		"fields": {"1"}, "enabled": {"on"}, "networkName": {"Hidden"}, "resetInstructions": {"Unplug\r\nwait"}, "action": {"apply"},
	})
	page = body(t, b.get("/dashboard/properties/p-cabin"))
	if !strings.Contains(page, `<input type="text" name="networkName" value="Hidden">`) {
		t.Fatal("enabled section should show its fields")
	}
}

// Changes made through the API show up in an open, clean web editor.
func TestEditorReloadsChangesMadeElsewhere(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	b := newBrowser(t, app, db, "u-host")
	if page := body(t, b.get("/dashboard/properties/p-cabin")); !strings.Contains(page, `value="publish"`) {
		t.Fatal("draft should offer publish")
	}

	token := apiLogin(t, app, "host@staybook.test")
	if resp := apiRequest(t, app, "POST", "/api/v1/properties/p-cabin/publish", token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("api publish: %d", resp.StatusCode)
	}
	apiRequest(t, app, "PATCH", "/api/v1/properties/p-cabin", token, map[string]any{"name": "Pine Cabin Deluxe"})

	page := body(t, b.get("/dashboard/properties/p-cabin"))
	if !strings.Contains(page, `value="unpublish"`) || !strings.Contains(page, "Pine Cabin Deluxe") {
		t.Fatal("editor still shows the stale property")
	}
}
