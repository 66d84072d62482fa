package apiclient_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/apiclient"
	"staybook/internal/config"
	"staybook/internal/editor"
	"staybook/internal/http/handlers"
	"staybook/internal/repos"
)

func startServer(t *testing.T) string {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	cfg := config.Config{JWTSecret: "client-test-secret", RateLimit: 1000}
	deps := handlers.NewDeps(db, cfg)
	app := handlers.NewApp(cfg, deps, html.New("../../web/templates", ".html"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		_ = app.Shutdown()
		deps.Close()
		_ = db.Close()
	})
	return "http://" + ln.Addr().String()
}

func login(t *testing.T, base, email string) *apiclient.Client {
	t.Helper()
	c := apiclient.New(base)
	res, err := c.Login(context.Background(), email, "Passw0rd!")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	return c.WithToken(res.Token)
}

func TestPropertyLifecycle(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	host := login(t, base, "host@staybook.test")
	anon := apiclient.New(base)

	p, err := host.CreateProperty(ctx, apiclient.NewProperty{Name: "Harbour Flat", Address: "1 Quai", City: "Marseille"})
	require.NoError(t, err)
	assert.Equal(t, "draft", p.Status.String())
	assert.Equal(t, "France", p.Country)

	_, err = anon.GetProperty(ctx, p.Slug)
	assert.ErrorIs(t, err, editor.ErrNotFound, "drafts stay private")

	own, err := host.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Slug, own.Slug)

	up, err := host.UpdateProperty(ctx, p.ID, editor.Patch{
		"wifi": map[string]any{"enabled": true, "networkName": "Harbour"},
	})
	require.NoError(t, err)
	require.NotNil(t, up.Wifi)
	assert.Equal(t, "Harbour", up.Wifi.NetworkName)

	pub, err := host.PublishProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, pub.IsPublished())
	assert.NotEmpty(t, pub.PublishedAt)

	_, err = host.PublishProperty(ctx, p.ID)
	assert.ErrorIs(t, err, editor.ErrAlreadyPublished)

	seen, err := anon.GetProperty(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Harbour", seen.Wifi.NetworkName)

	require.NoError(t, host.DeleteProperty(ctx, p.ID))
	_, err = anon.GetProperty(ctx, p.Slug)
	assert.ErrorIs(t, err, editor.ErrNotFound)
}

func TestValidationErrorsCarryDetails(t *testing.T) {
	base := startServer(t)
	host := login(t, base, "host@staybook.test")

	_, err := host.CreateProperty(context.Background(), apiclient.NewProperty{Name: "x"})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Details, "address")
	assert.Contains(t, apiErr.Details, "city")
}

func TestUnknownPatchKeysAreRejected(t *testing.T) {
	base := startServer(t)
	host := login(t, base, "host@staybook.test")

	_, err := host.UpdateProperty(context.Background(), "p-cabin", editor.Patch{"sauna": map[string]any{"enabled": true}})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
}

func TestOtherHostsPropertyIsNotFound(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	other := login(t, base, "host2@staybook.test")

	_, err := other.UpdateProperty(ctx, "p-cabin", editor.Patch{"name": "Mine now"})
	assert.ErrorIs(t, err, editor.ErrNotFound)
	_, err = other.ListProperties(ctx, "u-host")
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Status)
}

func TestBadTokenIsUnauthorized(t *testing.T) {
	base := startServer(t)
	c := apiclient.New(base).WithToken("not-a-jwt")

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)

	// Present but invalid tokens are refused even where auth is optional.
	_, err = c.GetProperty(context.Background(), "canal-loft-demo")
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestUserAdministration(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	admin := login(t, base, "admin@staybook.test")

	roles, err := admin.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)

	u, err := admin.RegisterUser(ctx, apiclient.UserInput{
		Email: "new@staybook.test", Password: "Sup3r-secret!", FirstName: "Nina", LastName: "New", RoleID: "r-guest",
	})
	require.NoError(t, err)
	assert.Equal(t, "guest", u.Role)

	_, err = admin.RegisterUser(ctx, apiclient.UserInput{
		Email: "NEW@staybook.test", Password: "Sup3r-secret!", FirstName: "Nina", LastName: "New", RoleID: "r-guest",
	})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)

	guest := login(t, base, "new@staybook.test")
	_, err = guest.CreateProperty(ctx, apiclient.NewProperty{Name: "Nope", Address: "1 Rue", City: "Lyon"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Status)

	_, err = guest.ListUsers(ctx)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Status)

	me, err := guest.UpdateProfile(ctx, apiclient.UserInput{Email: "new@staybook.test", FirstName: "Nina", LastName: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", me.LastName)
	assert.Equal(t, "guest", me.Role)

	require.NoError(t, admin.DeleteUser(ctx, u.ID))
	_, err = guest.Profile(ctx)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestEditorOverHTTPSavesBeforeSwitching(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	host := login(t, base, "host@staybook.test")

	ed, err := editor.Open(ctx, host, "p-cabin")
	require.NoError(t, err)
	_, err = ed.RequestChange(editor.Wifi)
	require.NoError(t, err)

	ed.Form().SetEnabled(true)
	require.NoError(t, ed.Form().SetText("networkName", "CabinNet"))
	out, err := ed.RequestChange(editor.Rules)
	require.NoError(t, err)
	assert.Equal(t, editor.Prompted, out)

	require.NoError(t, ed.ResolveSave(ctx))
	assert.Equal(t, editor.Rules, ed.Active())
	assert.False(t, ed.Dirty())

	p, err := host.GetProperty(ctx, "p-cabin")
	require.NoError(t, err)
	require.NotNil(t, p.Wifi)
	assert.Equal(t, "CabinNet", p.Wifi.NetworkName)
}

func TestContextDeadlineIsHonoured(t *testing.T) {
	base := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := apiclient.New(base).GetProperty(ctx, "canal-loft-demo")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
