package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// KVRepository persists opaque text values under string keys.
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SessionRepository records completed timer sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, in Session) error
	ListSessions(ctx context.Context, filter SessionListFilter) ([]Session, error)
}

type Repository interface {
	KVRepository
	SessionRepository
	Close() error
}
