package todo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/sandeepkv93/deepwork/internal/kv"
	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, repo *storage.MemoryRepository) (*Store, *bytes.Buffer) {
	t.Helper()
	if repo == nil {
		repo = storage.NewMemoryRepository()
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	n := 0
	s := NewStore(kv.New(repo, logger), logger,
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("t%d", n)
		}),
		WithClock(func() time.Time { return fixedNow }),
	)
	return s, &logs
}

func ids(items []model.Todo) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestAddAppendsTrimmedTodo(t *testing.T) {
	s, _ := newTestStore(t, nil)

	first, err := s.Add("  write report  ", model.TagDeep)
	require.NoError(t, err)
	_, err = s.Add("reply to mail", model.TagQuick)
	require.NoError(t, err)

	assert.Equal(t, model.Todo{ID: "t1", Text: "write report", CreatedAt: fixedNow, Tag: model.TagDeep}, first)
	assert.Equal(t, []string{"t1", "t2"}, ids(s.List()))
}

func TestAddRejectsBlankText(t *testing.T) {
	s, _ := newTestStore(t, nil)

	_, err := s.Add("   ", model.TagFocus)
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, s.List())
}

func TestAddInvalidTagUsesDefault(t *testing.T) {
	s, _ := newTestStore(t, nil)

	item, err := s.Add("stretch", model.Tag("urgent"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTag, item.Tag)
}

func TestToggleRetagRetext(t *testing.T) {
	s, _ := newTestStore(t, nil)
	_, err := s.Add("draft", model.TagQuick)
	require.NoError(t, err)

	require.NoError(t, s.Toggle("t1"))
	require.NoError(t, s.Retag("t1", model.TagDeep))
	require.NoError(t, s.Retext("t1", " final draft "))

	got, ok := s.Get("t1")
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.Equal(t, model.TagDeep, got.Tag)
	assert.Equal(t, "final draft", got.Text)

	require.NoError(t, s.Retext("t1", "   "))
	got, _ = s.Get("t1")
	assert.Equal(t, "final draft", got.Text)

	assert.ErrorIs(t, s.Toggle("missing"), ErrNotFound)
	assert.ErrorIs(t, s.Retag("t1", model.Tag("bogus")), model.ErrInvalidTag)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t, nil)
	for _, text := range []string{"a", "b", "c"} {
		_, err := s.Add(text, model.TagFocus)
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete("t2"))
	assert.Equal(t, []string{"t1", "t3"}, ids(s.List()))
	assert.ErrorIs(t, s.Delete("t2"), ErrNotFound)
}

func TestReorderWithinSection(t *testing.T) {
	s, _ := newTestStore(t, nil)
	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := s.Add(text, model.TagFocus)
		require.NoError(t, err)
	}

	assert.True(t, s.Reorder("t4", "t1"))
	assert.Equal(t, []string{"t4", "t1", "t2", "t3"}, ids(s.List()))

	assert.True(t, s.Reorder("t4", "t3"))
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids(s.List()))
}

func TestReorderAcrossSectionsIsNoop(t *testing.T) {
	s, _ := newTestStore(t, nil)
	for _, text := range []string{"open", "done"} {
		_, err := s.Add(text, model.TagFocus)
		require.NoError(t, err)
	}
	require.NoError(t, s.Toggle("t2"))
	before := s.List()

	assert.False(t, s.Reorder("t2", "t1"))
	assert.Equal(t, before, s.List())

	assert.False(t, s.Reorder("t1", "t1"))
	assert.False(t, s.Reorder("t1", "missing"))
	assert.False(t, s.Reorder("missing", "t1"))
	assert.Equal(t, before, s.List())
}

func TestClearCompletedSplitProgress(t *testing.T) {
	s, _ := newTestStore(t, nil)
	assert.Zero(t, s.Progress())

	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := s.Add(text, model.TagFocus)
		require.NoError(t, err)
	}
	require.NoError(t, s.Toggle("t1"))
	require.NoError(t, s.Toggle("t3"))

	open, done := s.Split()
	assert.Equal(t, []string{"t2", "t4"}, ids(open))
	assert.Equal(t, []string{"t1", "t3"}, ids(done))
	assert.InDelta(t, 50.0, s.Progress(), 0.001)

	assert.Equal(t, 2, s.ClearCompleted())
	assert.Equal(t, []string{"t2", "t4"}, ids(s.List()))
	assert.Zero(t, s.ClearCompleted())
}

func TestMutationsPersistAndReload(t *testing.T) {
	repo := storage.NewMemoryRepository()
	s, _ := newTestStore(t, repo)
	_, err := s.Add("persisted", model.TagQuick)
	require.NoError(t, err)
	require.NoError(t, s.Toggle("t1"))

	reloaded, _ := newTestStore(t, repo)
	got, ok := reloaded.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Text)
	assert.True(t, got.Completed)
	assert.Equal(t, model.TagQuick, got.Tag)
}

func TestLoadFallsBackOnLegacyTag(t *testing.T) {
	repo := storage.NewMemoryRepository()
	raw := `[{"id":"a","text":"legacy","completed":false,"createdAt":"2025-01-01T00:00:00Z","tag":"urgent"},` +
		`{"id":"a","text":"dupe","completed":false,"createdAt":"2025-01-01T00:00:00Z","tag":"quick"}]`
	require.NoError(t, repo.Put(context.Background(), kv.KeyTodos, raw))

	s, logs := newTestStore(t, repo)
	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, model.TagFocus, items[0].Tag)
	assert.Contains(t, logs.String(), "unknown todo tag")
	assert.Contains(t, logs.String(), "duplicate id")
}

func TestLoadKeepsSiblingsOfMalformedTodo(t *testing.T) {
	repo := storage.NewMemoryRepository()
	raw := `[{"id":"a","text":"keep me","completed":false,"createdAt":"2025-01-01T00:00:00Z","tag":"deep"},` +
		`{"id":"b","text":"numeric tag","completed":false,"createdAt":"2025-01-01T00:00:00Z","tag":3},` +
		`{"id":7,"text":"bad id"}]`
	require.NoError(t, repo.Put(context.Background(), kv.KeyTodos, raw))

	s, logs := newTestStore(t, repo)
	items := s.List()
	require.Equal(t, []string{"a", "b"}, ids(items))
	assert.Equal(t, model.TagDeep, items[0].Tag)
	assert.Equal(t, model.TagFocus, items[1].Tag)
	assert.Contains(t, logs.String(), "unknown todo tag")
	assert.Contains(t, logs.String(), "keeping unreadable todo")

	_, err := s.Add("new", model.TagQuick)
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), kv.KeyTodos)
	require.NoError(t, err)
	assert.Contains(t, stored, `"keep me"`)
	assert.Contains(t, stored, `"numeric tag"`)
	assert.Contains(t, stored, `"bad id"`)

	reloaded, _ := newTestStore(t, repo)
	assert.Equal(t, []string{"a", "b", "t1"}, ids(reloaded.List()))
}

func TestCorruptCollectionLoadsEmpty(t *testing.T) {
	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.Put(context.Background(), kv.KeyTodos, "not json"))

	s, _ := newTestStore(t, repo)
	assert.Empty(t, s.List())
}

func TestSelectedTag(t *testing.T) {
	s, _ := newTestStore(t, nil)
	assert.Equal(t, model.DefaultTag, s.SelectedTag())

	s.SetSelectedTag(model.TagDeep)
	assert.Equal(t, model.TagDeep, s.SelectedTag())

	s.SetSelectedTag(model.Tag("nope"))
	assert.Equal(t, model.TagDeep, s.SelectedTag())
}

func TestReloadPicksUpExternalReset(t *testing.T) {
	repo := storage.NewMemoryRepository()
	s, _ := newTestStore(t, repo)
	_, err := s.Add("gone soon", model.TagFocus)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), kv.KeyTodos))
	s.Reload()
	assert.Empty(t, s.List())
}

func TestAddRejectsBlankGeneratedID(t *testing.T) {
	s := NewStore(kv.New(storage.NewMemoryRepository(), nil), nil,
		WithIDGenerator(func() string { return "" }),
		WithClock(func() time.Time { return fixedNow }),
	)
	_, err := s.Add("orphan", model.TagFocus)
	require.Error(t, err)
	assert.Empty(t, s.List())
}
