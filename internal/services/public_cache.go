package services

import (
	"sync"
	"time"

	"staybook/internal/domain"

	"github.com/karlseguin/ccache/v3"
)

// PublicCache keeps published properties keyed by slug and by id so the
// guest page does not hit the database on every view.
//
// Every Forget bumps a generation. A reader takes the generation before
// its database lookup and stores the result with PutFresh, which refuses
// rows read before a concurrent write was forgotten.
type PublicCache struct {
	c   *ccache.Cache[*domain.Property]
	ttl time.Duration

	mu  sync.Mutex
	gen uint64
}

func NewPublicCache(ttl time.Duration) *PublicCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PublicCache{
		c:   ccache.New(ccache.Configure[*domain.Property]().MaxSize(1000)),
		ttl: ttl,
	}
}

func (pc *PublicCache) Get(key string) (*domain.Property, bool) {
	if pc == nil {
		return nil, false
	}
	item := pc.c.Get(key)
	if item == nil || item.Expired() {
		return nil, false
	}
	return item.Value(), true
}

func (pc *PublicCache) Generation() uint64 {
	if pc == nil {
		return 0
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.gen
}

// PutFresh caches p unless something was forgotten since gen was taken.
func (pc *PublicCache) PutFresh(gen uint64, p *domain.Property) bool {
	if pc == nil || p == nil {
		return false
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if gen != pc.gen {
		return false
	}
	pc.c.Set(p.Slug, p, pc.ttl)
	pc.c.Set(p.ID, p, pc.ttl)
	return true
}

// Forget drops every key the property may be cached under.
func (pc *PublicCache) Forget(keys ...string) {
	if pc == nil {
		return
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.gen++
	for _, k := range keys {
		if k != "" {
			pc.c.Delete(k)
		}
	}
}

func (pc *PublicCache) Stop() {
	if pc != nil {
		pc.c.Stop()
	}
}
