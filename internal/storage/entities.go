package storage

import "time"

type Session struct {
	ID          string
	Mode        string
	TaskID      string
	TaskText    string
	DurationSec int
	CompletedAt time.Time
}

type SessionListFilter struct {
	Since  *time.Time
	Mode   string
	Limit  int
	Offset int
}
