package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/deepwork/internal/kv"
	"github.com/sandeepkv93/deepwork/internal/model"
)

var (
	ErrEmptyText = errors.New("todo: text is empty")
	ErrNotFound  = errors.New("todo: not found")
)

type Option func(*Store)

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// Store is the ordered todo collection. Every mutation writes the whole
// collection back through the kv adapter.
type Store struct {
	kv     *kv.Adapter
	logger *slog.Logger
	newID  func() string
	now    func() time.Time

	mu    sync.Mutex
	items []model.Todo
	// unreadable holds persisted elements that failed to decode. They are
	// written back untouched so a bad entry never costs the rest.
	unreadable []json.RawMessage
}

func NewStore(adapter *kv.Adapter, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		kv:     adapter,
		logger: logger.With("component", "todo"),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	elems := kv.Get[[]json.RawMessage](s.kv, kv.KeyTodos, nil)
	seen := make(map[string]bool, len(elems))
	items := make([]model.Todo, 0, len(elems))
	var unreadable []json.RawMessage
	for i, elem := range elems {
		var r rawTodo
		if err := json.Unmarshal(elem, &r); err != nil {
			s.logger.Warn("keeping unreadable todo as is", "index", i, "err", err)
			unreadable = append(unreadable, elem)
			continue
		}
		tagText := r.tagText()
		tag, ok := model.ParseTag(tagText)
		if !ok {
			s.logger.Warn("unknown todo tag, using default", "id", r.ID, "tag", tagText, "default", tag)
		}
		if strings.TrimSpace(r.ID) == "" || seen[r.ID] {
			s.logger.Warn("skipping todo with missing or duplicate id", "id", r.ID)
			continue
		}
		seen[r.ID] = true
		items = append(items, model.Todo{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			CreatedAt: r.CreatedAt,
			Tag:       tag,
		})
	}
	s.items = items
	s.unreadable = unreadable
}

// Reload replaces the in-memory collection with what is persisted.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
}

// rawTodo keeps the persisted tag undecoded so a tag of any JSON type falls
// back to the default instead of failing the element.
type rawTodo struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"createdAt"`
	Tag       json.RawMessage `json:"tag"`
}

func (r rawTodo) tagText() string {
	var text string
	if err := json.Unmarshal(r.Tag, &text); err == nil {
		return text
	}
	return string(r.Tag)
}

func (s *Store) List() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Get(id string) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.Todo{}, false
	}
	return s.items[i], true
}

// Split returns incomplete and completed todos, each in collection order.
func (s *Store) Split() (open, done []model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Completed {
			done = append(done, item)
		} else {
			open = append(open, item)
		}
	}
	return open, done
}

// Progress is the percentage of completed todos, 0 for an empty list.
func (s *Store) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return 0
	}
	done := 0
	for _, item := range s.items {
		if item.Completed {
			done++
		}
	}
	return float64(done) / float64(len(s.items)) * 100
}

func (s *Store) Add(text string, tag model.Tag) (model.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Todo{}, ErrEmptyText
	}
	if !tag.IsValid() {
		tag = model.DefaultTag
	}
	item := model.Todo{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: s.now().UTC(),
		Tag:       tag,
	}
	if err := item.Validate(); err != nil {
		return model.Todo{}, fmt.Errorf("add todo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.persistLocked()
	return item, nil
}

func (s *Store) Toggle(id string) error {
	return s.mutate(id, func(t *model.Todo) { t.Completed = !t.Completed })
}

func (s *Store) Retag(id string, tag model.Tag) error {
	if !tag.IsValid() {
		return model.ErrInvalidTag
	}
	return s.mutate(id, func(t *model.Todo) { t.Tag = tag })
}

// Retext replaces the text of id. Blank text leaves the todo unchanged.
func (s *Store) Retext(id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.mutate(id, func(t *model.Todo) { t.Text = text })
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persistLocked()
	return nil
}

// Reorder moves sourceID to targetID's position. It reports false and leaves
// the collection untouched when either id is missing, the ids are equal, or
// the two todos sit in different completion sections.
func (s *Store) Reorder(sourceID, targetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.indexLocked(sourceID)
	to := s.indexLocked(targetID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	if s.items[from].Completed != s.items[to].Completed {
		return false
	}
	moved := s.items[from]
	s.items = slices.Delete(s.items, from, from+1)
	s.items = slices.Insert(s.items, to, moved)
	s.persistLocked()
	return true
}

// ClearCompleted removes every completed todo and returns how many went.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(t model.Todo) bool { return t.Completed })
	removed := before - len(s.items)
	if removed > 0 {
		s.persistLocked()
	}
	return removed
}

func (s *Store) SelectedTag() model.Tag {
	raw := kv.Get(s.kv, kv.KeySelectedTag, string(model.DefaultTag))
	tag, _ := model.ParseTag(raw)
	return tag
}

func (s *Store) SetSelectedTag(tag model.Tag) {
	if !tag.IsValid() {
		return
	}
	kv.Set(s.kv, kv.KeySelectedTag, string(tag))
}

func (s *Store) mutate(id string, fn func(*model.Todo)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	fn(&s.items[i])
	s.persistLocked()
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(t model.Todo) bool { return t.ID == id })
}

func (s *Store) persistLocked() {
	if len(s.unreadable) == 0 {
		kv.Set(s.kv, kv.KeyTodos, s.items)
		return
	}
	out := make([]any, 0, len(s.items)+len(s.unreadable))
	for _, item := range s.items {
		out = append(out, item)
	}
	for _, elem := range s.unreadable {
		out = append(out, elem)
	}
	kv.Set(s.kv, kv.KeyTodos, out)
}
