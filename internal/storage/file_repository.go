package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type fileDocument struct {
	Entries  map[string]string `json:"entries"`
	Sessions []fileSession      `json:"sessions"`
}

type fileSession struct {
	ID          string    `json:"id"`
	Mode        string    `json:"mode"`
	TaskID      string    `json:"task_id,omitempty"`
	TaskText    string    `json:"task_text,omitempty"`
	DurationSec int       `json:"duration_sec"`
	CompletedAt time.Time `json:"completed_at"`
}

// FileRepository stores the whole document as one JSON file, rewritten via a
// temp file and rename on every mutation.
type FileRepository struct {
	mu   sync.Mutex
	path string
	doc  fileDocument
}

func OpenFile(path string) (*FileRepository, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("storage: empty file path")
	}
	repo := &FileRepository{path: trimmed, doc: fileDocument{Entries: make(map[string]string)}}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return repo, nil
	}
	if err := json.Unmarshal(raw, &repo.doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if repo.doc.Entries == nil {
		repo.doc.Entries = make(map[string]string)
	}
	return repo, nil
}

func (r *FileRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.doc.Entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (r *FileRepository) Put(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, had := r.doc.Entries[key]
	r.doc.Entries[key] = value
	if err := r.flushLocked(); err != nil {
		if had {
			r.doc.Entries[key] = prev
		} else {
			delete(r.doc.Entries, key)
		}
		return err
	}
	return nil
}

func (r *FileRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.doc.Entries[key]
	if !ok {
		return ErrNotFound
	}
	delete(r.doc.Entries, key)
	if err := r.flushLocked(); err != nil {
		r.doc.Entries[key] = prev
		return err
	}
	return nil
}

func (r *FileRepository) CreateSession(_ context.Context, in Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Sessions = append(r.doc.Sessions, fileSession{
		ID:          in.ID,
		Mode:        in.Mode,
		TaskID:      in.TaskID,
		TaskText:    in.TaskText,
		DurationSec: in.DurationSec,
		CompletedAt: in.CompletedAt.UTC(),
	})
	if err := r.flushLocked(); err != nil {
		r.doc.Sessions = r.doc.Sessions[:len(r.doc.Sessions)-1]
		return err
	}
	return nil
}

func (r *FileRepository) ListSessions(_ context.Context, filter SessionListFilter) ([]Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]Session, 0, len(r.doc.Sessions))
	for _, s := range r.doc.Sessions {
		all = append(all, Session{
			ID:          s.ID,
			Mode:        s.Mode,
			TaskID:      s.TaskID,
			TaskText:    s.TaskText,
			DurationSec: s.DurationSec,
			CompletedAt: s.CompletedAt,
		})
	}
	return filterSessions(all, filter), nil
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) flushLocked() error {
	dir := filepath.Dir(r.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
