package session

import (
	"encoding/json"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
)

const sessionKey = "session"

// DiskStore keeps the session as one JSON file under a private directory.
type DiskStore struct {
	d *diskv.Diskv
}

// NewDiskStore opens dir, expanding a leading "~".
func NewDiskStore(dir string) (*DiskStore, error) {
	base, err := homedir.Expand(dir)
	if err != nil {
		return nil, err
	}
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     base,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
		PathPerm:     0o700,
		FilePerm:     0o600,
	})}, nil
}

func (s *DiskStore) Load() (*Session, error) {
	if !s.d.Has(sessionKey) {
		return nil, ErrNoSession
	}
	raw, err := s.d.Read(sessionKey)
	if err != nil {
		return nil, err
	}
	var out Session
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, ErrNoSession
	}
	return &out, nil
}

func (s *DiskStore) Save(sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.d.Write(sessionKey, raw)
}

func (s *DiskStore) Clear() error {
	if !s.d.Has(sessionKey) {
		return nil
	}
	return s.d.Erase(sessionKey)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.Mutex
	sess *Session
}

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, ErrNoSession
	}
	cp := *m.sess
	return &cp, nil
}

func (m *MemoryStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sess = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}
