package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"staybook/internal/domain"
)

// Editor drives the editing of one property: it holds the last server copy,
// the active category with its form, and the unsaved-changes guard.
//
// An Editor serves one host at a time. Only the saving and publishing
// flags and the notification log are safe to touch from other goroutines.
type Editor struct {
	api PropertyAPI
	id  string

	property *domain.Property
	active   CategoryID
	form     *Form
	guard    Guard
	dirty    bool

	mu         sync.Mutex
	saving     bool
	publishing bool
	notes      []Notification
}

// Open fetches the property and mounts the general category.
func Open(ctx context.Context, api PropertyAPI, id string) (*Editor, error) {
	p, err := api.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load property %s: %w", id, err)
	}
	e := &Editor{api: api, id: p.ID, property: p}
	e.mount(General)
	return e, nil
}

func (e *Editor) mount(c CategoryID) {
	schema, _ := SchemaFor(c)
	e.active = c
	e.dirty = false
	e.form = NewForm(schema, e.property, e.Save, e.setDirty)
}

func (e *Editor) setDirty(d bool) { e.dirty = d }

func (e *Editor) Property() *domain.Property { return e.property }
func (e *Editor) Active() CategoryID         { return e.active }
func (e *Editor) Form() *Form                { return e.form }
func (e *Editor) Dirty() bool                { return e.dirty }
func (e *Editor) Guard() *Guard              { return &e.guard }

func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

func (e *Editor) Publishing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.publishing
}

// NavItems renders the category menu against the current property.
func (e *Editor) NavItems() []NavItem { return NavItems(e.property, e.active) }

func (e *Editor) acquire(flag *bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (e *Editor) release(flag *bool) {
	e.mu.Lock()
	*flag = false
	e.mu.Unlock()
}

func (e *Editor) notify(kind NoticeKind, text string) {
	e.mu.Lock()
	e.notes = append(e.notes, Notification{Kind: kind, Text: text})
	e.mu.Unlock()
}

// Notifications drains the pending messages.
func (e *Editor) Notifications() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.notes
	e.notes = nil
	return out
}

// Save sends patch to the API and adopts the server's copy of the
// property. It is the SaveFunc of every form the editor mounts, so the
// form resets its baseline, and the dirty flag, only after this returns nil.
func (e *Editor) Save(ctx context.Context, patch Patch) error {
	if !e.acquire(&e.saving) {
		return ErrBusy
	}
	defer e.release(&e.saving)

	p, err := e.api.UpdateProperty(ctx, e.id, patch)
	if err != nil {
		e.notify(NoticeError, "Could not save: "+err.Error())
		return err
	}
	e.property = p
	e.notify(NoticeSuccess, "Changes saved")
	return nil
}

// SubmitActive submits the mounted form.
func (e *Editor) SubmitActive(ctx context.Context) error {
	if e.form == nil {
		return ErrNotOpen
	}
	err := e.form.Submit(ctx)
	var fe FieldErrors
	if errors.As(err, &fe) {
		e.notify(NoticeError, "Some fields need attention")
	}
	return err
}

// Publish flips a draft to published. The local status changes only once
// the server confirms.
func (e *Editor) Publish(ctx context.Context) error {
	if e.property.IsPublished() {
		return ErrAlreadyPublished
	}
	if !e.acquire(&e.publishing) {
		return ErrBusy
	}
	defer e.release(&e.publishing)

	p, err := e.api.PublishProperty(ctx, e.id)
	if err != nil {
		e.notify(NoticeError, "Could not publish: "+err.Error())
		return err
	}
	e.property = p
	e.notify(NoticeSuccess, "Property published")
	return nil
}

// Unpublish has no backend counterpart; it reports that and changes nothing.
func (e *Editor) Unpublish(context.Context) error {
	e.notify(NoticeInfo, "Unpublishing is not available")
	return ErrUnpublishUnsupported
}

// RequestChange asks to move to next. A dirty form opens the guard prompt
// instead of switching.
func (e *Editor) RequestChange(next CategoryID) (Outcome, error) {
	if _, ok := SchemaFor(next); !ok {
		return Unchanged, fmt.Errorf("unknown category %q", next)
	}
	if e.guard.State() == GuardPrompting {
		return Unchanged, ErrPromptOpen
	}
	if next == e.active {
		return Unchanged, nil
	}
	if e.dirty {
		e.guard.prompt(next)
		return Prompted, nil
	}
	e.mount(next)
	return Switched, nil
}

// ResolveSave submits the active form and, once the save has completed,
// switches to the pending category. On failure the editor stays where it
// is, still dirty, and the prompt closes.
func (e *Editor) ResolveSave(ctx context.Context) error {
	next, err := e.guard.take()
	if err != nil {
		return err
	}
	if err := e.SubmitActive(ctx); err != nil {
		e.guard.reset()
		return err
	}
	e.guard.reset()
	e.mount(next)
	return nil
}

// ResolveDiscard drops local edits by re-fetching the property, then
// switches. If the fetch fails the prompt stays open.
func (e *Editor) ResolveDiscard(ctx context.Context) error {
	next, err := e.guard.take()
	if err != nil {
		return err
	}
	p, err := e.api.GetProperty(ctx, e.id)
	if err != nil {
		e.notify(NoticeError, "Could not reload the property: "+err.Error())
		if errors.Is(err, ErrNotFound) {
			e.guard.reset()
			return ErrNotFound
		}
		return err
	}
	e.property = p
	e.guard.reset()
	e.mount(next)
	return nil
}

// Refresh reloads the property when nothing local would be lost: the
// form is clean and no prompt is open. Changes made elsewhere (another
// client, the API) then show up on the next view.
func (e *Editor) Refresh(ctx context.Context) error {
	if e.dirty || e.guard.State() != GuardIdle {
		return nil
	}
	p, err := e.api.GetProperty(ctx, e.id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("reload property %s: %w", e.id, err)
	}
	e.property = p
	e.mount(e.active)
	return nil
}

// ResolveCancel closes the prompt and keeps the current category and edits.
func (e *Editor) ResolveCancel() error {
	if _, err := e.guard.take(); err != nil {
		return err
	}
	e.guard.reset()
	return nil
}
