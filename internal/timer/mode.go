package timer

import (
	"strings"

	"github.com/sandeepkv93/deepwork/internal/model"
)

type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
	ModeTask       Mode = "task"
)

// DefaultMode is the preset the timer starts in and returns to after a task.
const DefaultMode = ModeFocus

// Presets lists the settings-driven modes in display order.
func Presets() []Mode {
	return []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}
}

func (m Mode) IsPreset() bool {
	switch m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

func (m Mode) IsValid() bool {
	return m.IsPreset() || m == ModeTask
}

// Productive modes count toward the completed counter.
func (m Mode) Productive() bool {
	return m == ModeFocus || m == ModeTask
}

func (m Mode) Label() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	case ModeTask:
		return "Task"
	}
	return string(m)
}

// ParseMode accepts the canonical names plus a few short aliases.
func ParseMode(raw string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "focus", "pomodoro", "work":
		return ModeFocus, true
	case "short_break", "short", "break":
		return ModeShortBreak, true
	case "long_break", "long":
		return ModeLongBreak, true
	}
	return "", false
}

// PresetSeconds is the configured duration of a preset mode. Non-preset
// modes report 0.
func PresetSeconds(s model.Settings, m Mode) int {
	s = s.Normalize()
	switch m {
	case ModeFocus:
		return s.FocusMinutes * 60
	case ModeShortBreak:
		return s.ShortBreakMinutes * 60
	case ModeLongBreak:
		return s.LongBreakMinutes * 60
	}
	return 0
}
