package timer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/deepwork/internal/kv"
	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/notify"
	"github.com/sandeepkv93/deepwork/internal/storage"
)

const recordTimeout = 2 * time.Second

// Trigger is the recurring one-second tick source. Arm replaces any active
// interval and returns its generation; ticks carry that generation back.
type Trigger interface {
	Arm() uint64
	Disarm()
}

type SettingsSource interface {
	Read() model.Settings
}

type SessionRecorder interface {
	CreateSession(ctx context.Context, in storage.Session) error
}

type Sound interface {
	Play()
}

type Deps struct {
	Settings SettingsSource
	Store    *kv.Adapter
	Trigger  Trigger
	Sessions SessionRecorder
	Notifier notify.Notifier
	// NotifyPermitted gates desktop notifications on top of the user's
	// setting. Nil means permitted.
	NotifyPermitted func() bool
	Sound           Sound
	Logger          *slog.Logger
	Now             func() time.Time
	NewID           func() string
}

// Completion describes one completion edge.
type Completion struct {
	Mode        Mode
	Task        *model.Todo
	DurationSec int
	Count       int
	Next        Mode
	Chained     bool
}

type Engine struct {
	deps   Deps
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	applied model.Settings
	armed   bool
	gen     uint64
	streak  int
}

func NewEngine(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Store == nil {
		deps.Store = kv.New(nil, deps.Logger)
	}
	if deps.Trigger == nil {
		deps.Trigger = nopTrigger{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	e := &Engine{deps: deps, logger: deps.Logger.With("component", "timer")}
	e.applied = e.settings()
	e.state = InitialState(e.applied)
	return e
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Generation is the generation of the armed trigger, 0 when disarmed.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.armed {
		return 0
	}
	return e.gen
}

func (e *Engine) SetMode(m Mode)              { e.dispatch(SetMode{Mode: m}) }
func (e *Engine) StartTaskTimer(t model.Todo) { e.dispatch(StartTask{Task: t}) }
func (e *Engine) Start()                      { e.dispatch(Start{}) }
func (e *Engine) Pause()                      { e.dispatch(Pause{}) }
func (e *Engine) Reset()                      { e.dispatch(Reset{}) }
func (e *Engine) ResetTo(seconds int)         { e.dispatch(ResetTo{Seconds: seconds}) }
func (e *Engine) StopTaskTimer()              { e.dispatch(StopTask{}) }

// Toggle starts a paused timer and pauses a running one.
func (e *Engine) Toggle() {
	e.mu.Lock()
	running := e.state.Running
	e.mu.Unlock()
	if running {
		e.Pause()
		return
	}
	e.Start()
}

// Tick applies one tick carrying gen. Ticks from a disarmed or replaced
// interval are ignored. The returned bool reports a completion edge.
func (e *Engine) Tick(gen uint64) (Completion, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.armed || gen != e.gen {
		return Completion{}, false
	}
	settings := e.settings()
	before := e.state
	e.state = Transition(before, Tick{}, settings)
	if !completed(before, e.state) {
		e.syncTriggerLocked()
		return Completion{}, false
	}
	return e.completeLocked(before, settings), true
}

// SettingsChanged re-derives an idle preset's duration after the user edits
// settings. A running or partially elapsed countdown is left alone.
func (e *Engine) SettingsChanged() {
	e.mu.Lock()
	defer e.mu.Unlock()
	previous := e.applied
	e.applied = e.settings()
	if e.state.Running || !e.state.Mode.IsPreset() {
		return
	}
	if e.state.TimeLeft != PresetSeconds(previous, e.state.Mode) {
		return
	}
	e.state.TimeLeft = PresetSeconds(e.applied, e.state.Mode)
}

func (e *Engine) CompletedCount() int {
	return max(kv.Get(e.deps.Store, kv.KeyCompletedCount, 0), 0)
}

func (e *Engine) ResetCompletedCount() {
	kv.Set(e.deps.Store, kv.KeyCompletedCount, 0)
}

// Streak is the number of productive preset completions this session.
func (e *Engine) Streak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streak
}

func (e *Engine) dispatch(cmd Command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyLocked(cmd, e.settings())
}

func (e *Engine) applyLocked(cmd Command, settings model.Settings) {
	e.state = Transition(e.state, cmd, settings)
	e.syncTriggerLocked()
}

// syncTriggerLocked keeps exactly one interval armed while the countdown runs.
func (e *Engine) syncTriggerLocked() {
	want := e.state.Running && e.state.TimeLeft > 0
	switch {
	case want && !e.armed:
		e.deps.Trigger.Disarm()
		e.gen = e.deps.Trigger.Arm()
		e.armed = true
	case !want && e.armed:
		e.deps.Trigger.Disarm()
		e.armed = false
	}
}

func (e *Engine) completeLocked(before State, settings model.Settings) Completion {
	e.syncTriggerLocked()

	done := Completion{
		Mode:        before.Mode,
		Task:        before.Task,
		DurationSec: before.Duration(settings),
	}
	if before.Mode.Productive() {
		done.Count = e.CompletedCount() + 1
		kv.Set(e.deps.Store, kv.KeyCompletedCount, done.Count)
	} else {
		done.Count = e.CompletedCount()
	}

	e.recordLocked(done)
	e.notifyLocked(done, settings)
	if settings.Sound && e.deps.Sound != nil {
		e.deps.Sound.Play()
	}

	if before.Mode == ModeTask {
		e.applyLocked(StopTask{}, settings)
		done.Next = e.state.Mode
		return done
	}

	if before.Mode.Productive() {
		e.streak++
	}
	done.Next = nextMode(before.Mode, e.streak, settings.LongBreakInterval)
	if settings.AutoStart {
		e.applyLocked(SetMode{Mode: done.Next}, settings)
		e.applyLocked(Start{}, settings)
		done.Chained = true
	}
	e.logger.Info("timer completed", "mode", before.Mode, "count", done.Count, "next", done.Next, "chained", done.Chained)
	return done
}

// nextMode chains focus to a break, every interval-th one long, and any
// break back to focus.
func nextMode(finished Mode, streak, interval int) Mode {
	if finished != ModeFocus {
		return ModeFocus
	}
	if interval > 0 && streak > 0 && streak%interval == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

func (e *Engine) recordLocked(done Completion) {
	if e.deps.Sessions == nil {
		return
	}
	session := storage.Session{
		ID:          e.deps.NewID(),
		Mode:        string(done.Mode),
		DurationSec: done.DurationSec,
		CompletedAt: e.deps.Now().UTC(),
	}
	if done.Task != nil {
		session.TaskID = done.Task.ID
		session.TaskText = done.Task.Text
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := e.deps.Sessions.CreateSession(ctx, session); err != nil {
		e.logger.Error("record session", "mode", done.Mode, "err", err)
	}
}

func (e *Engine) notifyLocked(done Completion, settings model.Settings) {
	if !settings.Notifications {
		return
	}
	if e.deps.NotifyPermitted != nil && !e.deps.NotifyPermitted() {
		return
	}
	if err := e.deps.Notifier.Send(CompletionNotification(done)); err != nil {
		e.logger.Warn("send completion notification", "err", err)
	}
}

// CompletionNotification is the message shown for a completion.
func CompletionNotification(done Completion) notify.Notification {
	n := notify.Notification{Title: "Deep Work"}
	switch {
	case done.Mode == ModeTask && done.Task != nil:
		n.Body = fmt.Sprintf("Task session complete: %s", done.Task.Text)
	case done.Mode.Productive():
		n.Body = "Time for a break!"
	default:
		n.Body = "Break time is over!"
	}
	return n
}

func (e *Engine) settings() model.Settings {
	if e.deps.Settings == nil {
		return model.DefaultSettings()
	}
	return e.deps.Settings.Read().Normalize()
}

func (e *Engine) snapshotLocked() State {
	out := e.state
	if out.Task != nil {
		task := *out.Task
		out.Task = &task
	}
	return out
}

type nopTrigger struct{}

func (nopTrigger) Arm() uint64 { return 1 }
func (nopTrigger) Disarm()     {}
