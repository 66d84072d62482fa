package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"staybook/internal/domain"
	"staybook/internal/editor"
	"staybook/internal/services"

	"github.com/karlseguin/ccache/v3"
)

// localAPI lets a server-side editor save through the property service
// directly, acting as the host that opened it.
type localAPI struct {
	props  *services.PropertyService
	hostID string
}

func mapServiceErr(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return editor.ErrNotFound
	case errors.Is(err, services.ErrAlreadyPublished):
		return editor.ErrAlreadyPublished
	}
	return err
}

func (a localAPI) GetProperty(_ context.Context, id string) (*domain.Property, error) {
	p, err := a.props.Owned(a.hostID, id)
	return p, mapServiceErr(err)
}

func (a localAPI) UpdateProperty(_ context.Context, id string, patch editor.Patch) (*domain.Property, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	var pp domain.PropertyPatch
	if err := json.Unmarshal(raw, &pp); err != nil {
		return nil, err
	}
	p, err := a.props.Update(a.hostID, id, pp)
	return p, mapServiceErr(err)
}

func (a localAPI) PublishProperty(_ context.Context, id string) (*domain.Property, error) {
	p, err := a.props.Publish(a.hostID, id)
	return p, mapServiceErr(err)
}

// editorEntry serialises requests against one open editor.
type editorEntry struct {
	mu sync.Mutex
	ed *editor.Editor
}

// EditorRegistry keeps one editor per browser session and property. Entries
// expire after sitting idle; an expired editor is simply reopened, losing
// any unsaved edits.
type EditorRegistry struct {
	props *services.PropertyService
	idle  time.Duration
	cache *ccache.Cache[*editorEntry]
	open  sync.Mutex
}

func NewEditorRegistry(props *services.PropertyService, idle time.Duration) *EditorRegistry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &EditorRegistry{
		props: props,
		idle:  idle,
		cache: ccache.New(ccache.Configure[*editorEntry]().MaxSize(500)),
	}
}

func registryKey(sid, hostID, propertyID string) string {
	return sid + "|" + hostID + "|" + propertyID
}

// Acquire returns the locked editor for (sid, propertyID), opening it on
// first use. Callers must call the returned release func.
func (r *EditorRegistry) Acquire(ctx context.Context, sid, hostID, propertyID string) (*editor.Editor, func(), error) {
	key := registryKey(sid, hostID, propertyID)

	r.open.Lock()
	item := r.cache.Get(key)
	var ent *editorEntry
	if item != nil && !item.Expired() {
		ent = item.Value()
		item.Extend(r.idle)
	} else {
		ed, err := editor.Open(ctx, localAPI{props: r.props, hostID: hostID}, propertyID)
		if err != nil {
			r.open.Unlock()
			return nil, nil, err
		}
		ent = &editorEntry{ed: ed}
		r.cache.Set(key, ent, r.idle)
	}
	r.open.Unlock()

	ent.mu.Lock()
	return ent.ed, ent.mu.Unlock, nil
}

// Drop forgets the editor, e.g. after the property was deleted.
func (r *EditorRegistry) Drop(sid, hostID, propertyID string) {
	r.cache.Delete(registryKey(sid, hostID, propertyID))
}

func (r *EditorRegistry) Stop() { r.cache.Stop() }
