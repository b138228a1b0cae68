package model

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrSettingOutOfRange = errors.New("model: setting out of range")

const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 60
	MinLongBreakEvery  = 1
	MaxLongBreakEvery  = 12
)

type Settings struct {
	FocusMinutes      int  `json:"focusMinutes" yaml:"focus_minutes"`
	ShortBreakMinutes int  `json:"shortBreakMinutes" yaml:"short_break_minutes"`
	LongBreakMinutes  int  `json:"longBreakMinutes" yaml:"long_break_minutes"`
	LongBreakInterval int  `json:"longBreakInterval" yaml:"long_break_interval"`
	AutoStart         bool `json:"autoStart" yaml:"auto_start"`
	Notifications     bool `json:"notifications" yaml:"notifications"`
	Sound             bool `json:"sound" yaml:"sound"`
}

func DefaultSettings() Settings {
	return Settings{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
		AutoStart:         false,
		Notifications:     true,
		Sound:             true,
	}
}

// Normalize replaces unset or out-of-range numeric fields with defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	s.FocusMinutes = inRangeOr(s.FocusMinutes, MinDurationMinutes, MaxDurationMinutes, def.FocusMinutes)
	s.ShortBreakMinutes = inRangeOr(s.ShortBreakMinutes, MinDurationMinutes, MaxDurationMinutes, def.ShortBreakMinutes)
	s.LongBreakMinutes = inRangeOr(s.LongBreakMinutes, MinDurationMinutes, MaxDurationMinutes, def.LongBreakMinutes)
	s.LongBreakInterval = inRangeOr(s.LongBreakInterval, MinLongBreakEvery, MaxLongBreakEvery, def.LongBreakInterval)
	return s
}

// SettingsPatch carries a partial update; nil fields are left unchanged. It
// shares field names with Settings so a stored blob that predates a field
// decodes into a patch and merges onto the defaults.
type SettingsPatch struct {
	FocusMinutes      *int  `json:"focusMinutes,omitempty" yaml:"focus_minutes,omitempty"`
	ShortBreakMinutes *int  `json:"shortBreakMinutes,omitempty" yaml:"short_break_minutes,omitempty"`
	LongBreakMinutes  *int  `json:"longBreakMinutes,omitempty" yaml:"long_break_minutes,omitempty"`
	LongBreakInterval *int  `json:"longBreakInterval,omitempty" yaml:"long_break_interval,omitempty"`
	AutoStart         *bool `json:"autoStart,omitempty" yaml:"auto_start,omitempty"`
	Notifications     *bool `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Sound             *bool `json:"sound,omitempty" yaml:"sound,omitempty"`
}

func (s Settings) Apply(p SettingsPatch) Settings {
	if p.FocusMinutes != nil {
		s.FocusMinutes = *p.FocusMinutes
	}
	if p.ShortBreakMinutes != nil {
		s.ShortBreakMinutes = *p.ShortBreakMinutes
	}
	if p.LongBreakMinutes != nil {
		s.LongBreakMinutes = *p.LongBreakMinutes
	}
	if p.LongBreakInterval != nil {
		s.LongBreakInterval = *p.LongBreakInterval
	}
	if p.AutoStart != nil {
		s.AutoStart = *p.AutoStart
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Sound != nil {
		s.Sound = *p.Sound
	}
	return s
}

func inRangeOr(v, lo, hi, def int) int {
	if v < lo || v > hi {
		return def
	}
	return v
}

// Validate rejects set fields outside their bounds. Stored values are
// normalised on read instead; Validate is for user-supplied documents.
func (p SettingsPatch) Validate() error {
	checks := []struct {
		name   string
		v      *int
		lo, hi int
	}{
		{"focus_minutes", p.FocusMinutes, MinDurationMinutes, MaxDurationMinutes},
		{"short_break_minutes", p.ShortBreakMinutes, MinDurationMinutes, MaxDurationMinutes},
		{"long_break_minutes", p.LongBreakMinutes, MinDurationMinutes, MaxDurationMinutes},
		{"long_break_interval", p.LongBreakInterval, MinLongBreakEvery, MaxLongBreakEvery},
	}
	for _, c := range checks {
		if c.v != nil && (*c.v < c.lo || *c.v > c.hi) {
			return fmt.Errorf("%w: %s must be %d-%d, got %d", ErrSettingOutOfRange, c.name, c.lo, c.hi, *c.v)
		}
	}
	return nil
}

// legacySettingsFields are the names earlier releases wrote under the
// settings key.
type legacySettingsFields struct {
	PomodoroDuration   *int  `json:"pomodoroDuration"`
	ShortBreakDuration *int  `json:"shortBreakDuration"`
	LongBreakDuration  *int  `json:"longBreakDuration"`
	AutoStartBreaks    *bool `json:"autoStartBreaks"`
	SoundAlerts        *bool `json:"soundAlerts"`
}

// UnmarshalJSON reads current field names and falls back to the legacy ones
// when a current name is absent.
func (p *SettingsPatch) UnmarshalJSON(data []byte) error {
	type plain SettingsPatch
	var cur plain
	if err := json.Unmarshal(data, &cur); err != nil {
		return err
	}
	var old legacySettingsFields
	if err := json.Unmarshal(data, &old); err != nil {
		return err
	}
	*p = SettingsPatch(cur)
	p.FocusMinutes = cmp.Or(p.FocusMinutes, old.PomodoroDuration)
	p.ShortBreakMinutes = cmp.Or(p.ShortBreakMinutes, old.ShortBreakDuration)
	p.LongBreakMinutes = cmp.Or(p.LongBreakMinutes, old.LongBreakDuration)
	p.AutoStart = cmp.Or(p.AutoStart, old.AutoStartBreaks)
	p.Sound = cmp.Or(p.Sound, old.SoundAlerts)
	return nil
}
