package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps everything in process memory. It backs tests and is
// the fallback when the configured store cannot be opened.
type MemoryRepository struct {
	mu       sync.Mutex
	entries  map[string]string
	sessions []Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]string)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepository) Put(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return ErrNotFound
	}
	delete(r.entries, key)
	return nil
}

func (r *MemoryRepository) CreateSession(_ context.Context, in Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, in)
	return nil
}

func (r *MemoryRepository) ListSessions(_ context.Context, filter SessionListFilter) ([]Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return filterSessions(r.sessions, filter), nil
}

func (r *MemoryRepository) Close() error { return nil }

func filterSessions(all []Session, filter SessionListFilter) []Session {
	out := make([]Session, 0, len(all))
	for _, s := range all {
		if filter.Since != nil && s.CompletedAt.Before(*filter.Since) {
			continue
		}
		if filter.Mode != "" && s.Mode != filter.Mode {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []Session{}
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out
}
