package content

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/smartedu/smartedu/backend/go-services/internal/apperrors"
)

// MemoryRepo is an in-memory Repository used by unit tests and when the
// service runs without a configured MongoDB.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]*Document
	byLink map[string]string // shareableLink -> id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]*Document), byLink: make(map[string]string)}
}

func (m *MemoryRepo) Insert(ctx context.Context, d *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cloneDoc(d)
	m.byID[cp.ID] = cp
	m.byLink[cp.ShareableLink] = cp.ID
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneDoc(d), nil
}

func (m *MemoryRepo) ReplaceBody(ctx context.Context, id string, body json.RawMessage) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	d.Body = append(json.RawMessage(nil), body...)
	return cloneDoc(d), nil
}

func (m *MemoryRepo) AppendVersion(ctx context.Context, id string) ([]Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	d.Versions = append(d.Versions, Version{
		VersionNumber: len(d.Versions) + 1,
		Body:          append(json.RawMessage(nil), d.Body...),
		SavedAt:       time.Now().UTC(),
	})
	return cloneDoc(d).Versions, nil
}

func (m *MemoryRepo) AddTags(ctx context.Context, id string, tags []string) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	seen := make(map[string]bool, len(d.Tags))
	for _, t := range d.Tags {
		seen[t] = true
	}
	for _, t := range tags {
		if !seen[t] {
			d.Tags = append(d.Tags, t)
			seen[t] = true
		}
	}
	return cloneDoc(d), nil
}

func (m *MemoryRepo) FindByTags(ctx context.Context, tags []string) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Document{}
	for _, d := range m.byID {
		if hasAllTags(d.Tags, tags) {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func (m *MemoryRepo) GetByLink(ctx context.Context, link string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byLink[link]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneDoc(m.byID[id]), nil
}

func hasAllTags(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, t := range want {
		if !set[t] {
			return false
		}
	}
	return true
}

// cloneDoc returns a deep copy so callers never alias stored state.
func cloneDoc(d *Document) *Document {
	cp := *d
	cp.Body = append(json.RawMessage(nil), d.Body...)
	cp.Tags = append([]string(nil), d.Tags...)
	cp.Versions = make([]Version, len(d.Versions))
	for i, v := range d.Versions {
		cp.Versions[i] = Version{
			VersionNumber: v.VersionNumber,
			Body:          append(json.RawMessage(nil), v.Body...),
			SavedAt:       v.SavedAt,
		}
	}
	return &cp
}
