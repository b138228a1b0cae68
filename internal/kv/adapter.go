// Package kv layers typed, JSON-encoded reads and writes over a storage
// repository. Reads never fail: a missing or unreadable value yields the
// caller's default. Writes that fail are logged and kept in a session
// overlay so the rest of the program keeps working until restart.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/deepwork/internal/storage"
)

const opTimeout = 2 * time.Second

type Adapter struct {
	repo   storage.KVRepository
	logger *slog.Logger

	mu      sync.Mutex
	overlay map[string]string
	deleted map[string]bool
}

func New(repo storage.KVRepository, logger *slog.Logger) *Adapter {
	if repo == nil {
		repo = storage.NewMemoryRepository()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		repo:    repo,
		logger:  logger.With("component", "kv"),
		overlay: make(map[string]string),
		deleted: make(map[string]bool),
	}
}

// Get decodes the value stored under key into a T, or returns def.
func Get[T any](a *Adapter, key string, def T) T {
	raw, ok := a.read(key)
	if !ok {
		return def
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		a.logger.Warn("decode stored value", "key", key, "err", err)
		return def
	}
	return out
}

// Set encodes v and writes it under key.
func Set[T any](a *Adapter, key string, v T) {
	payload, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("encode value", "key", key, "err", err)
		return
	}
	a.write(key, string(payload))
}

// Delete removes key. Deleting a missing key is not an error.
func (a *Adapter) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	err := a.repo.Delete(ctx, key)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.overlay, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		a.logger.Error("delete value", "key", key, "err", err)
		a.deleted[key] = true
		return
	}
	delete(a.deleted, key)
}

// Degraded reports whether any key is currently served from the session
// overlay instead of the repository.
func (a *Adapter) Degraded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.overlay) > 0 || len(a.deleted) > 0
}

func (a *Adapter) read(key string) (string, bool) {
	a.mu.Lock()
	if v, ok := a.overlay[key]; ok {
		a.mu.Unlock()
		return v, true
	}
	if a.deleted[key] {
		a.mu.Unlock()
		return "", false
	}
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	raw, err := a.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("read value", "key", key, "err", err)
		}
		return "", false
	}
	return raw, true
}

func (a *Adapter) write(key, payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	err := a.repo.Put(ctx, key, payload)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.deleted, key)
	if err != nil {
		a.logger.Error("write value", "key", key, "err", err)
		a.overlay[key] = payload
		return
	}
	delete(a.overlay, key)
}
