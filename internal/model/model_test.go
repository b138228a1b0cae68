package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseTagFallsBackToDefault(t *testing.T) {
	got, ok := ParseTag(" Deep ")
	if !ok || got != TagDeep {
		t.Fatalf("expected deep, got %q ok=%v", got, ok)
	}
	got, ok = ParseTag("pomodoro")
	if ok || got != DefaultTag {
		t.Fatalf("expected fallback to %q, got %q ok=%v", DefaultTag, got, ok)
	}
}

func TestTagInfoIsTotal(t *testing.T) {
	if TagQuick.DurationSec() != 300 {
		t.Fatalf("quick duration = %d, want 300", TagQuick.DurationSec())
	}
	if TagDeep.Info().Label != "Deep" {
		t.Fatalf("unexpected deep label: %q", TagDeep.Info().Label)
	}
	if Tag("legacy").Info() != TagFocus.Info() {
		t.Fatalf("unknown tag should report focus details")
	}
}

func TestTagNextCycles(t *testing.T) {
	if TagDeep.Next() != TagFocus || TagFocus.Next() != TagQuick || TagQuick.Next() != TagDeep {
		t.Fatal("unexpected tag cycle order")
	}
}

func TestTodoUnmarshalLegacyTag(t *testing.T) {
	var todo Todo
	raw := `{"id":"t1","text":"old","completed":false,"createdAt":"2026-02-09T12:00:00Z","tag":"pomodoro"}`
	if err := json.Unmarshal([]byte(raw), &todo); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if todo.Tag != DefaultTag {
		t.Fatalf("expected legacy tag decoded to %q, got %q", DefaultTag, todo.Tag)
	}
	if err := todo.Validate(); err != nil {
		t.Fatalf("expected valid todo after decode, got %v", err)
	}
}

func TestTodoValidate(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	todo := Todo{ID: "t1", Text: "  ", CreatedAt: now, Tag: TagQuick}
	if err := todo.Validate(); err == nil {
		t.Fatal("expected error for blank text")
	}
	todo.Text = "write"
	todo.Tag = Tag("bogus")
	if err := todo.Validate(); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("expected ErrInvalidTag, got %v", err)
	}
}

func TestSettingsNormalizeAndApply(t *testing.T) {
	s := Settings{FocusMinutes: 0, ShortBreakMinutes: 90, LongBreakMinutes: 20, LongBreakInterval: 0}.Normalize()
	if s.FocusMinutes != 25 || s.ShortBreakMinutes != 5 || s.LongBreakMinutes != 20 || s.LongBreakInterval != 4 {
		t.Fatalf("unexpected normalized settings: %+v", s)
	}

	focus := 50
	auto := true
	patched := DefaultSettings().Apply(SettingsPatch{FocusMinutes: &focus, AutoStart: &auto})
	if patched.FocusMinutes != 50 || !patched.AutoStart || patched.ShortBreakMinutes != 5 {
		t.Fatalf("unexpected patched settings: %+v", patched)
	}
}

func TestSettingsPatchDecodesLegacyNames(t *testing.T) {
	var p SettingsPatch
	blob := `{"pomodoroDuration":40,"shortBreakDuration":7,"longBreakDuration":20,"autoStartBreaks":true,"notifications":false,"soundAlerts":false}`
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := DefaultSettings().Apply(p)
	want := Settings{FocusMinutes: 40, ShortBreakMinutes: 7, LongBreakMinutes: 20, LongBreakInterval: 4, AutoStart: true}
	if got != want {
		t.Fatalf("unexpected legacy settings: %+v", got)
	}

	if err := json.Unmarshal([]byte(`{"focusMinutes":30,"pomodoroDuration":40}`), &p); err != nil {
		t.Fatalf("unmarshal mixed: %v", err)
	}
	if p.FocusMinutes == nil || *p.FocusMinutes != 30 {
		t.Fatalf("expected current name to win, got %v", p.FocusMinutes)
	}
}

func TestSettingsPatchValidate(t *testing.T) {
	ok, low, high := 60, -3, 13
	if err := (SettingsPatch{FocusMinutes: &ok}).Validate(); err != nil {
		t.Fatalf("expected 60 minutes accepted, got %v", err)
	}
	if err := (SettingsPatch{ShortBreakMinutes: &low}).Validate(); !errors.Is(err, ErrSettingOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := (SettingsPatch{LongBreakInterval: &high}).Validate(); !errors.Is(err, ErrSettingOutOfRange) {
		t.Fatalf("expected out of range interval, got %v", err)
	}
}

func TestWorkDayProgress(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2026, 2, 9, h, m, 0, 0, time.UTC) }

	before := WorkDayProgress(day(8, 15), 10, 17)
	if before.Percent != 0 || before.Status != "Work starts in 2 hours" {
		t.Fatalf("unexpected before-work progress: %+v", before)
	}

	mid := WorkDayProgress(day(13, 30), 10, 17)
	if mid.Percent != 50 || mid.HoursLeft != 4 || mid.Status != "4 hours left today" {
		t.Fatalf("unexpected mid-day progress: %+v", mid)
	}

	after := WorkDayProgress(day(18, 0), 10, 17)
	if after.Percent != 100 || after.Status != "Work day complete" || after.HoursLeft != 0 {
		t.Fatalf("unexpected after-work progress: %+v", after)
	}

	if got := WorkDayProgress(day(12, 0), 17, 10); got != (DayProgress{}) {
		t.Fatalf("expected zero progress for inverted window, got %+v", got)
	}
}
