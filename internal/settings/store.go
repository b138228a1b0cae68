package settings

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/sandeepkv93/deepwork/internal/kv"
	"github.com/sandeepkv93/deepwork/internal/model"
	"gopkg.in/yaml.v3"
)

// userDataKeys are wiped along with the settings on a full reset.
var userDataKeys = []string{
	kv.KeyTodos,
	kv.KeyCompletedCount,
	kv.KeyDailyQuote,
	kv.KeyThemePalette,
}

type Store struct {
	kv     *kv.Adapter
	logger *slog.Logger

	mu        sync.Mutex
	listeners []func(model.Settings)
}

func NewStore(adapter *kv.Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: adapter, logger: logger.With("component", "settings")}
}

// Read returns the persisted settings merged over the defaults.
func (s *Store) Read() model.Settings {
	patch := kv.Get(s.kv, kv.KeySettings, model.SettingsPatch{})
	return model.DefaultSettings().Apply(patch).Normalize()
}

// Update merges the non-nil fields of p into the current settings and
// persists the result.
func (s *Store) Update(p model.SettingsPatch) model.Settings {
	next := s.Read().Apply(p).Normalize()
	kv.Set(s.kv, kv.KeySettings, next)
	s.notify(next)
	return next
}

// ResetToDefaults restores default settings and clears stored user data.
func (s *Store) ResetToDefaults() model.Settings {
	def := model.DefaultSettings()
	kv.Set(s.kv, kv.KeySettings, def)
	for _, key := range userDataKeys {
		s.kv.Delete(key)
	}
	s.logger.Info("settings reset to defaults")
	s.notify(def)
	return def
}

// OnChange registers fn to run after every Update or reset.
func (s *Store) OnChange(fn func(model.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(next model.Settings) {
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(next)
	}
}

func (s *Store) Export(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Read()); err != nil {
		return fmt.Errorf("encode settings yaml: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML document and applies the fields it sets. Fields absent
// from the document keep their current values. An out-of-range value rejects
// the whole document.
func (s *Store) Import(r io.Reader) (model.Settings, error) {
	var patch model.SettingsPatch
	if err := yaml.NewDecoder(r).Decode(&patch); err != nil {
		if err == io.EOF {
			return s.Read(), nil
		}
		return s.Read(), fmt.Errorf("parse settings yaml: %w", err)
	}
	if err := patch.Validate(); err != nil {
		return s.Read(), fmt.Errorf("import settings: %w", err)
	}
	return s.Update(patch), nil
}
