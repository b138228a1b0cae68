// Package prefs holds the free-form user preferences persisted beside the
// timer: the quote of the day, theme palette, layout and ambient URL.
package prefs

import (
	"log/slog"
	"strings"

	"github.com/sandeepkv93/deepwork/internal/kv"
)

const DefaultQuote = "Dream in years. Plan in months. Evaluate in weeks. Ship daily."

type Theme string

const (
	ThemeForest   Theme = "forest"
	ThemeMidnight Theme = "midnight"
)

func (t Theme) Label() string {
	if t == ThemeMidnight {
		return "Midnight Productivity"
	}
	return "Forest Focus"
}

type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
)

type Store struct {
	kv     *kv.Adapter
	logger *slog.Logger
}

func NewStore(adapter *kv.Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: adapter, logger: logger.With("component", "prefs")}
}

func (s *Store) Quote() string {
	q := strings.TrimSpace(kv.Get(s.kv, kv.KeyDailyQuote, DefaultQuote))
	if q == "" {
		return DefaultQuote
	}
	return q
}

// SetQuote stores q; a blank quote restores the default.
func (s *Store) SetQuote(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		s.kv.Delete(kv.KeyDailyQuote)
		return DefaultQuote
	}
	kv.Set(s.kv, kv.KeyDailyQuote, q)
	return q
}

func (s *Store) Theme() Theme {
	switch t := Theme(kv.Get(s.kv, kv.KeyThemePalette, string(ThemeForest))); t {
	case ThemeForest, ThemeMidnight:
		return t
	default:
		s.logger.Warn("unknown theme palette, using default", "theme", t)
		return ThemeForest
	}
}

func (s *Store) ToggleTheme() Theme {
	next := ThemeMidnight
	if s.Theme() == ThemeMidnight {
		next = ThemeForest
	}
	kv.Set(s.kv, kv.KeyThemePalette, string(next))
	return next
}

func (s *Store) Layout() Layout {
	switch l := Layout(kv.Get(s.kv, kv.KeyLayout, string(LayoutHorizontal))); l {
	case LayoutHorizontal, LayoutVertical:
		return l
	default:
		return LayoutHorizontal
	}
}

func (s *Store) ToggleLayout() Layout {
	next := LayoutVertical
	if s.Layout() == LayoutVertical {
		next = LayoutHorizontal
	}
	kv.Set(s.kv, kv.KeyLayout, string(next))
	return next
}

func (s *Store) AmbientURL() string {
	return kv.Get(s.kv, kv.KeyAmbientURL, "")
}

// SetAmbientURL validates and stores raw. Blank input clears the URL.
func (s *Store) SetAmbientURL(raw string) (Ambient, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		s.kv.Delete(kv.KeyAmbientURL)
		return Ambient{}, nil
	}
	amb, err := ParseAmbientURL(raw)
	if err != nil {
		return Ambient{}, err
	}
	kv.Set(s.kv, kv.KeyAmbientURL, raw)
	return amb, nil
}
