package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTag = errors.New("model: invalid todo tag")

type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Tag       Tag       `json:"tag"`
}

func (t Todo) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: todo id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: todo text is required")
	}
	if !t.Tag.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTag, t.Tag)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: todo createdAt is required")
	}
	return nil
}
