package editor_test

import (
	"context"
	"encoding/json"
	"sync"

	"staybook/internal/domain"
	"staybook/internal/editor"
)

// fakeAPI is an in-memory PropertyAPI that applies patches the way the
// server does: a present section replaces the stored one whole.
type fakeAPI struct {
	mu        sync.Mutex
	prop      *domain.Property
	gets      int
	publishes int
	patches   []editor.Patch

	getErr     error
	updateErr  error
	publishErr error

	onUpdate func()
	block    chan struct{}
	started  chan struct{}
}

func newFakeAPI(p *domain.Property) *fakeAPI { return &fakeAPI{prop: p} }

func copyProperty(p *domain.Property) *domain.Property {
	b, _ := json.Marshal(p)
	var out domain.Property
	_ = json.Unmarshal(b, &out)
	return &out
}

func (f *fakeAPI) GetProperty(_ context.Context, id string) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.prop == nil || (id != f.prop.ID && id != f.prop.Slug) {
		return nil, editor.ErrNotFound
	}
	return copyProperty(f.prop), nil
}

func (f *fakeAPI) UpdateProperty(_ context.Context, id string, patch editor.Patch) (*domain.Property, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.onUpdate != nil {
		f.onUpdate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	b, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	var pp domain.PropertyPatch
	if err := json.Unmarshal(b, &pp); err != nil {
		return nil, err
	}
	f.prop.Apply(pp)
	return copyProperty(f.prop), nil
}

func (f *fakeAPI) PublishProperty(_ context.Context, id string) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishes++
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	f.prop.Status = domain.StatusPublished
	f.prop.PublishedAt = "2025-01-01T00:00:00Z"
	return copyProperty(f.prop), nil
}

func (f *fakeAPI) lastPatch() editor.Patch {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.patches) == 0 {
		return nil
	}
	return f.patches[len(f.patches)-1]
}

func demoProperty() *domain.Property {
	return &domain.Property{
		ID:      "p-1",
		Slug:    "canal-loft-abc123",
		HostID:  "u-host",
		Status:  domain.StatusDraft,
		Name:    "Canal Loft",
		Address: "12 Quai de Jemmapes",
		City:    "Paris",
		Country: "France",
	}
}
