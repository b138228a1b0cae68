package prefs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/sandeepkv93/deepwork/internal/kv"
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

func TestQuoteDefaultsAndUpdates(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, DefaultQuote, s.Quote())

	assert.Equal(t, "Ship it.", s.SetQuote("  Ship it. "))
	assert.Equal(t, "Ship it.", s.Quote())

	assert.Equal(t, DefaultQuote, s.SetQuote("   "))
	assert.Equal(t, DefaultQuote, s.Quote())
}

func TestThemeToggle(t *testing.T) {
	s, repo := newTestStore(t)
	assert.Equal(t, ThemeForest, s.Theme())
	assert.Equal(t, ThemeMidnight, s.ToggleTheme())
	assert.Equal(t, ThemeMidnight, s.Theme())
	assert.Equal(t, ThemeForest, s.ToggleTheme())

	require.NoError(t, repo.Put(context.Background(), kv.KeyThemePalette, `"sunset"`))
	assert.Equal(t, ThemeForest, s.Theme())
	assert.Equal(t, "Midnight Productivity", ThemeMidnight.Label())
}

func TestLayoutToggle(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, LayoutHorizontal, s.Layout())
	assert.Equal(t, LayoutVertical, s.ToggleLayout())
	assert.Equal(t, LayoutVertical, s.Layout())
	assert.Equal(t, LayoutHorizontal, s.ToggleLayout())
}

func TestAmbientURLPersistence(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.AmbientURL())

	amb, err := s.SetAmbientURL("https://youtu.be/jfKfPfyJRdk")
	require.NoError(t, err)
	assert.Equal(t, "jfKfPfyJRdk", amb.VideoID)
	assert.Equal(t, "https://youtu.be/jfKfPfyJRdk", s.AmbientURL())

	_, err = s.SetAmbientURL("https://example.com/video")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
	assert.Equal(t, "https://youtu.be/jfKfPfyJRdk", s.AmbientURL())

	_, err = s.SetAmbientURL("")
	require.NoError(t, err)
	assert.Empty(t, s.AmbientURL())
}

func TestParseAmbientURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Ambient
	}{
		{"watch", "https://www.youtube.com/watch?v=jfKfPfyJRdk", Ambient{VideoID: "jfKfPfyJRdk"}},
		{"short link", "youtu.be/jfKfPfyJRdk?t=10", Ambient{VideoID: "jfKfPfyJRdk"}},
		{"embed", "https://www.youtube.com/embed/jfKfPfyJRdk", Ambient{VideoID: "jfKfPfyJRdk"}},
		{"mobile", "https://m.youtube.com/watch?v=jfKfPfyJRdk", Ambient{VideoID: "jfKfPfyJRdk"}},
		{"playlist", "https://www.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG", Ambient{PlaylistID: "PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG"}},
		{"watch in list", "https://www.youtube.com/watch?v=jfKfPfyJRdk&list=PL123", Ambient{VideoID: "jfKfPfyJRdk", PlaylistID: "PL123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmbientURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, raw := range []string{"", "https://vimeo.com/123", "https://www.youtube.com/watch?v=short", "https://www.youtube.com/"} {
		_, err := ParseAmbientURL(raw)
		assert.ErrorIs(t, err, ErrUnsupportedURL, raw)
	}
}

func TestEmbedURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/videoseries?list=PL123", Ambient{VideoID: "jfKfPfyJRdk", PlaylistID: "PL123"}.EmbedURL())
	assert.Equal(t, "https://www.youtube.com/embed/jfKfPfyJRdk?playlist=jfKfPfyJRdk&loop=1", Ambient{VideoID: "jfKfPfyJRdk"}.EmbedURL())
	assert.Empty(t, Ambient{}.EmbedURL())
}
