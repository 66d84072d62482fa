package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain"
	"staybook/internal/services"
)

func TestPublicCache_ReadBeforeForgetIsNotStored(t *testing.T) {
	cache := services.NewPublicCache(time.Minute)
	t.Cleanup(cache.Stop)
	old := &domain.Property{ID: "p-1", Slug: "loft-abc", Name: "Before", Status: domain.StatusPublished}

	// A reader loads the row, then a writer updates it and forgets the keys
	// before the reader gets to store what it read.
	gen := cache.Generation()
	cache.Forget("p-1", "loft-abc")

	assert.False(t, cache.PutFresh(gen, old))
	_, ok := cache.Get("loft-abc")
	assert.False(t, ok, "stale row must not be served")

	gen = cache.Generation()
	require.True(t, cache.PutFresh(gen, old))
	got, ok := cache.Get("p-1")
	require.True(t, ok)
	assert.Equal(t, "Before", got.Name)
}

func TestPropertyService_PublicPageFollowsUpdates(t *testing.T) {
	svc := newPropertySvc(t)

	p, err := svc.Public("canal-loft-demo")
	require.NoError(t, err)
	assert.Equal(t, "Canal Loft", p.Name)

	_, err = svc.Update("u-host", "p-loft", domain.PropertyPatch{Name: strp("Canal Loft Renovated")})
	require.NoError(t, err)

	p, err = svc.Public("canal-loft-demo")
	require.NoError(t, err)
	assert.Equal(t, "Canal Loft Renovated", p.Name)

	_, err = svc.Delete("u-host", "p-loft")
	require.NoError(t, err)
	_, err = svc.Public("canal-loft-demo")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
