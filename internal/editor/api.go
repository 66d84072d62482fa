package editor

import (
	"context"
	"errors"

	"staybook/internal/domain"
)

var (
	ErrNotFound             = errors.New("property not found")
	ErrBusy                 = errors.New("another request is in flight")
	ErrAlreadyPublished     = errors.New("property is already published")
	ErrUnpublishUnsupported = errors.New("unpublishing is not supported")
	ErrNoPendingChange      = errors.New("no pending category change")
	ErrPromptOpen           = errors.New("resolve the unsaved changes prompt first")
	ErrNotOpen              = errors.New("no property open")
)

// PropertyAPI is the backend the editor saves through. Implementations
// report a missing or foreign property with an error matching ErrNotFound.
type PropertyAPI interface {
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	UpdateProperty(ctx context.Context, id string, patch Patch) (*domain.Property, error)
	PublishProperty(ctx context.Context, id string) (*domain.Property, error)
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notification is a transient message for the host.
type Notification struct {
	Kind NoticeKind
	Text string
}
