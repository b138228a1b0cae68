package timer

import "github.com/sandeepkv93/deepwork/internal/model"

// State is the countdown. Task is set only while Mode is ModeTask, and
// Running implies TimeLeft > 0.
type State struct {
	TimeLeft int
	Running  bool
	Mode     Mode
	Task     *model.Todo
}

// InitialState is the idle default preset at its configured duration.
func InitialState(s model.Settings) State {
	return State{TimeLeft: PresetSeconds(s, DefaultMode), Mode: DefaultMode}
}

// Duration is the full length of the current mode: the bound task's tag
// duration in task mode, the configured preset otherwise.
func (s State) Duration(settings model.Settings) int {
	if s.Mode == ModeTask && s.Task != nil {
		return s.Task.Tag.DurationSec()
	}
	return PresetSeconds(settings, s.Mode)
}

// Command is one of the state machine inputs below.
type Command interface {
	command()
}

type (
	SetMode   struct{ Mode Mode }
	StartTask struct{ Task model.Todo }
	Start     struct{}
	Pause     struct{}
	Reset     struct{}
	ResetTo   struct{ Seconds int }
	StopTask  struct{}
	Tick      struct{}
)

func (SetMode) command()   {}
func (StartTask) command() {}
func (Start) command()     {}
func (Pause) command()     {}
func (Reset) command()     {}
func (ResetTo) command()   {}
func (StopTask) command()  {}
func (Tick) command()      {}

// Transition applies cmd to s. It is pure: completion side effects belong to
// the Engine, which compares the states before and after a Tick.
func Transition(s State, cmd Command, settings model.Settings) State {
	switch c := cmd.(type) {
	case SetMode:
		if !c.Mode.IsPreset() {
			return s
		}
		return State{TimeLeft: PresetSeconds(settings, c.Mode), Mode: c.Mode}
	case StartTask:
		task := c.Task
		if !task.Tag.IsValid() {
			task.Tag = model.DefaultTag
		}
		return State{TimeLeft: task.Tag.DurationSec(), Running: true, Mode: ModeTask, Task: &task}
	case Start:
		if s.TimeLeft <= 0 {
			s.TimeLeft = s.Duration(settings)
		}
		s.Running = s.TimeLeft > 0
		return s
	case Pause:
		s.Running = false
		return s
	case Reset:
		s.TimeLeft = s.Duration(settings)
		s.Running = false
		return s
	case ResetTo:
		s.TimeLeft = max(c.Seconds, 0)
		if s.TimeLeft == 0 {
			s.Running = false
		}
		return s
	case StopTask:
		return State{TimeLeft: PresetSeconds(settings, DefaultMode), Mode: DefaultMode}
	case Tick:
		if !s.Running || s.TimeLeft <= 0 {
			return s
		}
		s.TimeLeft--
		if s.TimeLeft == 0 {
			s.Running = false
		}
		return s
	}
	return s
}

// completed reports the completion edge between two states.
func completed(before, after State) bool {
	return before.Running && before.TimeLeft > 0 && after.TimeLeft == 0
}
