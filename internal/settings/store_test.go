package settings

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sandeepkv93/deepwork/internal/kv"
	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryRepository) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(kv.New(repo, logger), logger), repo
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestReadReturnsDefaultsWhenEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, model.DefaultSettings(), s.Read())
}

func TestReadMergesPartialBlobWithDefaults(t *testing.T) {
	s, repo := newTestStore(t)
	require.NoError(t, repo.Put(context.Background(), kv.KeySettings, `{"focusMinutes":40,"notifications":false}`))

	got := s.Read()
	assert.Equal(t, 40, got.FocusMinutes)
	assert.False(t, got.Notifications)
	assert.Equal(t, 5, got.ShortBreakMinutes)
	assert.True(t, got.Sound)
	assert.Equal(t, 4, got.LongBreakInterval)
}

func TestReadCorruptBlobFallsBackToDefaults(t *testing.T) {
	s, repo := newTestStore(t)
	require.NoError(t, repo.Put(context.Background(), kv.KeySettings, `{"focusMinutes":`))
	assert.Equal(t, model.DefaultSettings(), s.Read())
}

func TestUpdateShallowMergesAndPersists(t *testing.T) {
	s, repo := newTestStore(t)
	var seen []model.Settings
	s.OnChange(func(next model.Settings) { seen = append(seen, next) })

	got := s.Update(model.SettingsPatch{FocusMinutes: intPtr(30), AutoStart: boolPtr(true)})
	assert.Equal(t, 30, got.FocusMinutes)
	assert.True(t, got.AutoStart)
	assert.Equal(t, 15, got.LongBreakMinutes)

	raw, err := repo.Get(context.Background(), kv.KeySettings)
	require.NoError(t, err)
	assert.Contains(t, raw, `"focusMinutes":30`)

	got = s.Update(model.SettingsPatch{ShortBreakMinutes: intPtr(500)})
	assert.Equal(t, 5, got.ShortBreakMinutes, "out-of-range values fall back to the default")
	assert.Equal(t, 30, got.FocusMinutes)
	assert.Len(t, seen, 2)
}

func TestResetToDefaultsClearsUserData(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	s.Update(model.SettingsPatch{FocusMinutes: intPtr(45)})
	for _, key := range []string{kv.KeyTodos, kv.KeyCompletedCount, kv.KeyDailyQuote, kv.KeyThemePalette, kv.KeyLayout} {
		require.NoError(t, repo.Put(ctx, key, `"x"`))
	}

	got := s.ResetToDefaults()
	assert.Equal(t, model.DefaultSettings(), got)
	assert.Equal(t, model.DefaultSettings(), s.Read())

	for _, key := range []string{kv.KeyTodos, kv.KeyCompletedCount, kv.KeyDailyQuote, kv.KeyThemePalette} {
		_, err := repo.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}
	_, err := repo.Get(ctx, kv.KeyLayout)
	assert.NoError(t, err, "layout preference survives a reset")
}

func TestExportImportYAML(t *testing.T) {
	s, _ := newTestStore(t)
	s.Update(model.SettingsPatch{LongBreakMinutes: intPtr(20)})

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	assert.Contains(t, buf.String(), "long_break_minutes: 20")

	got, err := s.Import(strings.NewReader("focus_minutes: 35\nsound: false\n"))
	require.NoError(t, err)
	assert.Equal(t, 35, got.FocusMinutes)
	assert.False(t, got.Sound)
	assert.Equal(t, 20, got.LongBreakMinutes)

	_, err = s.Import(strings.NewReader("focus_minutes: [oops"))
	assert.Error(t, err)
}

func TestImportRejectsOutOfRangeValues(t *testing.T) {
	s, _ := newTestStore(t)
	s.Update(model.SettingsPatch{FocusMinutes: intPtr(30)})

	got, err := s.Import(strings.NewReader("focus_minutes: 90\nshort_break_minutes: -3\n"))
	require.ErrorIs(t, err, model.ErrSettingOutOfRange)
	assert.Equal(t, 30, got.FocusMinutes)
	assert.Equal(t, 30, s.Read().FocusMinutes)
	assert.Equal(t, 5, s.Read().ShortBreakMinutes)
}

func TestReadDecodesLegacySettingsBlob(t *testing.T) {
	s, repo := newTestStore(t)
	require.NoError(t, repo.Put(context.Background(), kv.KeySettings, `{"pomodoroDuration":40,"autoStartBreaks":true,"soundAlerts":false}`))

	got := s.Read()
	assert.Equal(t, 40, got.FocusMinutes)
	assert.True(t, got.AutoStart)
	assert.False(t, got.Sound)
	assert.Equal(t, 5, got.ShortBreakMinutes)
}

func TestOnChangeListenerMayRegisterAnother(t *testing.T) {
	s, _ := newTestStore(t)
	calls := 0
	s.OnChange(func(model.Settings) {
		calls++
		s.OnChange(func(model.Settings) { calls += 10 })
	})

	s.Update(model.SettingsPatch{FocusMinutes: intPtr(40)})
	assert.Equal(t, 1, calls, "a listener added during notify waits for the next change")

	s.Update(model.SettingsPatch{FocusMinutes: intPtr(45)})
	assert.Equal(t, 12, calls)
}
