package model

import (
	"encoding/json"
	"strings"
)

type Tag string

const (
	TagQuick Tag = "quick"
	TagFocus Tag = "focus"
	TagDeep  Tag = "deep"
)

// DefaultTag is used for new todos and for unrecognised persisted values.
const DefaultTag = TagFocus

type TagDetails struct {
	Label           string
	DurationMinutes int
	Color           string
}

var tagTable = map[Tag]TagDetails{
	TagQuick: {Label: "Quick", DurationMinutes: 5, Color: "#3b82f6"},
	TagFocus: {Label: "Focus", DurationMinutes: 25, Color: "#22c55e"},
	TagDeep:  {Label: "Deep", DurationMinutes: 50, Color: "#a855f7"},
}

// Tags lists the closed tag set in display order.
func Tags() []Tag {
	return []Tag{TagDeep, TagFocus, TagQuick}
}

func (t Tag) IsValid() bool {
	_, ok := tagTable[t]
	return ok
}

// Info is total: unknown tags report the default tag's details.
func (t Tag) Info() TagDetails {
	if d, ok := tagTable[t]; ok {
		return d
	}
	return tagTable[DefaultTag]
}

func (t Tag) DurationSec() int {
	return t.Info().DurationMinutes * 60
}

// Next cycles deep -> focus -> quick -> deep.
func (t Tag) Next() Tag {
	order := Tags()
	for i, candidate := range order {
		if candidate == t {
			return order[(i+1)%len(order)]
		}
	}
	return DefaultTag
}

// ParseTag maps raw to a known tag. ok is false when raw was not recognised
// and the default tag was substituted.
func ParseTag(raw string) (Tag, bool) {
	t := Tag(strings.ToLower(strings.TrimSpace(raw)))
	if t.IsValid() {
		return t, true
	}
	return DefaultTag, false
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t, _ = ParseTag(raw)
	return nil
}
