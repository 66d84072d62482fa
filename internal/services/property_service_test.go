package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain"
	"staybook/internal/repos"
	"staybook/internal/services"
)

func seeded(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newPropertySvc(t *testing.T) *services.PropertyService {
	t.Helper()
	cache := services.NewPublicCache(time.Minute)
	t.Cleanup(cache.Stop)
	return services.NewPropertyService(repos.NewPropertyRepo(seeded(t)), cache)
}

func strp(s string) *string { return &s }

func TestPropertyService_CreateStartsAsDraft(t *testing.T) {
	svc := newPropertySvc(t)

	p, err := svc.Create("u-host", services.CreatePropertyRequest{
		Name: "Sea View Studio", Address: "1 Rue de la Plage", City: "Nice",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, p.Status)
	assert.Equal(t, "France", p.Country)
	assert.Regexp(t, `^sea-view-studio-[0-9a-f]{6}$`, p.Slug)
	assert.True(t, p.Sections.Empty())

	_, err = svc.Public(p.Slug)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPropertyService_CreateValidates(t *testing.T) {
	svc := newPropertySvc(t)

	_, err := svc.Create("u-host", services.CreatePropertyRequest{Name: "  ", City: "Nice"})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "address")
}

func TestPropertyService_OwnershipIsNotFound(t *testing.T) {
	svc := newPropertySvc(t)

	_, err := svc.Owned("u-host2", "p-loft")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Update("u-host2", "p-loft", domain.PropertyPatch{Name: strp("Mine now")})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Delete("u-host2", "p-loft")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPropertyService_UpdateReplacesSectionWhole(t *testing.T) {
	svc := newPropertySvc(t)

	p, err := svc.Update("u-host", "p-loft", domain.PropertyPatch{
		Sections: domain.Sections{Wifi: &domain.Wifi{Enabled: true, NetworkName: "Home"}},
	})
	require.NoError(t, err)
	require.NotNil(t, p.Wifi)
	assert.Equal(t, "Home", p.Wifi.NetworkName)
	assert.Empty(t, p.Wifi.Password, "stored password dropped with the old section")
	assert.NotNil(t, p.CheckInOut, "untouched sections survive")
	assert.Equal(t, "Canal Loft", p.Name)

	again, err := svc.Owned("u-host", "p-loft")
	require.NoError(t, err)
	assert.Equal(t, p.Wifi, again.Wifi)
}

func TestPropertyService_UpdateRejectsBadEnum(t *testing.T) {
	svc := newPropertySvc(t)

	_, err := svc.Update("u-host", "p-loft", domain.PropertyPatch{
		Sections: domain.Sections{Parking: &domain.Parking{Enabled: true, Type: "moon"}},
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "oneof", verr.Fields["parking.type"])

	_, err = svc.Update("u-host", "p-loft", domain.PropertyPatch{Name: strp(" ")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["name"])
}

func TestPropertyService_PublishOnlyFromDraft(t *testing.T) {
	svc := newPropertySvc(t)

	_, err := svc.Public("pine-cabin-demo")
	require.ErrorIs(t, err, services.ErrNotFound)

	p, err := svc.Publish("u-host", "p-cabin")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, p.Status)
	assert.NotEmpty(t, p.PublishedAt)

	pub, err := svc.Public("pine-cabin-demo")
	require.NoError(t, err)
	assert.Equal(t, "p-cabin", pub.ID)

	_, err = svc.Publish("u-host", "p-cabin")
	assert.ErrorIs(t, err, services.ErrAlreadyPublished)
}

func TestPropertyService_PublicCacheInvalidatedOnUpdate(t *testing.T) {
	svc := newPropertySvc(t)

	first, err := svc.Public("canal-loft-demo")
	require.NoError(t, err)
	assert.Equal(t, "Canal Loft", first.Name)

	_, err = svc.Update("u-host", "p-loft", domain.PropertyPatch{Name: strp("Canal Loft Deluxe")})
	require.NoError(t, err)

	byID, err := svc.Public("p-loft")
	require.NoError(t, err)
	assert.Equal(t, "Canal Loft Deluxe", byID.Name)
	bySlug, err := svc.Public("canal-loft-demo")
	require.NoError(t, err)
	assert.Equal(t, "Canal Loft Deluxe", bySlug.Name)
}

func TestPropertyService_DeleteHidesPublicPage(t *testing.T) {
	svc := newPropertySvc(t)

	_, err := svc.Public("canal-loft-demo")
	require.NoError(t, err)

	_, err = svc.Delete("u-host", "p-loft")
	require.NoError(t, err)

	_, err = svc.Public("canal-loft-demo")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPropertyService_VisibleToOwnerOnlyWhileDraft(t *testing.T) {
	svc := newPropertySvc(t)

	p, err := svc.Visible("u-host", "pine-cabin-demo")
	require.NoError(t, err)
	assert.Equal(t, "p-cabin", p.ID)

	_, err = svc.Visible("u-host2", "pine-cabin-demo")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = svc.Visible("", "p-cabin")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Canal Loft":        "canal-loft",
		"  Le Château  ":    "le-ch-teau",
		"Flat #2 / Floor 3": "flat-2-floor-3",
		"!!!":               "property",
	}
	for in, want := range cases {
		assert.Equal(t, want, services.Slugify(in), in)
	}
}
