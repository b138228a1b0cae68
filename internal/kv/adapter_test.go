package kv_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sandeepkv93/deepwork/internal/kv"
	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoundTripSupportedShapes(t *testing.T) {
	a := kv.New(storage.NewMemoryRepository(), quietLogger())

	settings := model.DefaultSettings()
	settings.FocusMinutes = 40
	settings.AutoStart = true
	kv.Set(a, "pomodoro-settings", settings)
	assert.Equal(t, settings, kv.Get(a, "pomodoro-settings", model.Settings{}))

	created := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	todos := []model.Todo{
		{ID: "t1", Text: "Write report", CreatedAt: created, Tag: model.TagDeep},
		{ID: "t2", Text: "Reply to mail", Completed: true, CreatedAt: created.Add(time.Minute), Tag: model.TagQuick},
	}
	kv.Set(a, "pomodoro-todos", todos)
	assert.Equal(t, todos, kv.Get[[]model.Todo](a, "pomodoro-todos", nil))

	kv.Set(a, "pomodoro-completed-today", 7)
	assert.Equal(t, 7, kv.Get(a, "pomodoro-completed-today", 0))

	kv.Set(a, "daily-quote", "Ship daily.")
	assert.Equal(t, "Ship daily.", kv.Get(a, "daily-quote", ""))
}

func TestGetMissingOrCorruptReturnsDefault(t *testing.T) {
	repo := storage.NewMemoryRepository()
	a := kv.New(repo, quietLogger())

	assert.Equal(t, 3, kv.Get(a, "absent", 3))

	require.NoError(t, repo.Put(context.Background(), "pomodoro-completed-today", "{broken"))
	assert.Equal(t, 0, kv.Get(a, "pomodoro-completed-today", 0))

	require.NoError(t, repo.Put(context.Background(), "daily-quote", "42"))
	assert.Equal(t, "fallback", kv.Get(a, "daily-quote", "fallback"))
}

type failingRepo struct {
	*storage.MemoryRepository
	failWrites bool
	failReads  bool
}

func (f *failingRepo) Put(ctx context.Context, key, value string) error {
	if f.failWrites {
		return errors.New("quota exceeded")
	}
	return f.MemoryRepository.Put(ctx, key, value)
}

func (f *failingRepo) Get(ctx context.Context, key string) (string, error) {
	if f.failReads {
		return "", errors.New("storage unavailable")
	}
	return f.MemoryRepository.Get(ctx, key)
}

func TestWriteFailureKeepsPriorValueAndServesSession(t *testing.T) {
	repo := &failingRepo{MemoryRepository: storage.NewMemoryRepository()}
	a := kv.New(repo, quietLogger())

	kv.Set(a, "theme-palette", "forest")
	kv.Set(a, "daily-quote", "keep me")
	repo.failWrites = true
	kv.Set(a, "theme-palette", "midnight")

	persisted, err := repo.MemoryRepository.Get(context.Background(), "theme-palette")
	require.NoError(t, err)
	assert.Equal(t, `"forest"`, persisted)

	assert.Equal(t, "midnight", kv.Get(a, "theme-palette", ""))
	assert.Equal(t, "keep me", kv.Get(a, "daily-quote", ""))
	assert.True(t, a.Degraded())

	repo.failWrites = false
	kv.Set(a, "theme-palette", "forest")
	assert.False(t, a.Degraded())
	assert.Equal(t, "forest", kv.Get(a, "theme-palette", ""))
}

func TestReadFailureReturnsDefault(t *testing.T) {
	repo := &failingRepo{MemoryRepository: storage.NewMemoryRepository(), failReads: true}
	a := kv.New(repo, quietLogger())
	assert.Equal(t, "horizontal", kv.Get(a, "deepwork-layout-preference", "horizontal"))
}

func TestDeleteRemovesKey(t *testing.T) {
	a := kv.New(storage.NewMemoryRepository(), quietLogger())
	kv.Set(a, "daily-quote", "x")
	a.Delete("daily-quote")
	a.Delete("never-set")
	assert.Equal(t, "default", kv.Get(a, "daily-quote", "default"))
}
