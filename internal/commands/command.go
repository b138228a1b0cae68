package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/timer"
)

type Type string

const (
	TypeAdd           Type = "add"
	TypeMode          Type = "mode"
	TypeTask          Type = "task"
	TypeSet           Type = "set"
	TypeQuote         Type = "quote"
	TypeAmbient       Type = "ambient"
	TypeTheme         Type = "theme"
	TypeLayout        Type = "layout"
	TypeClear         Type = "clear"
	TypeResetCount    Type = "reset-count"
	TypeResetSettings Type = "reset-settings"
	TypeHistory       Type = "history"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
	// Tag is empty when the input named none.
	Tag model.Tag
}

type ModeArgs struct {
	Mode timer.Mode
}

// TaskArgs picks an open todo by 1-based position; 0 means the selection.
type TaskArgs struct {
	Index int
}

type SetArgs struct {
	Field string
	Patch model.SettingsPatch
}

type QuoteArgs struct {
	Text string
}

type AmbientArgs struct {
	URL string
}

type HistoryArgs struct {
	Limit int
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Mode    *ModeArgs
	Task    *TaskArgs
	Set     *SetArgs
	Quote   *QuoteArgs
	Ambient *AmbientArgs
	History *HistoryArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeMode:
		return parseMode(input, args)
	case TypeTask:
		return parseTask(input, args)
	case TypeSet:
		return parseSet(input, args)
	case TypeQuote:
		return Command{Type: TypeQuote, Raw: input, Quote: &QuoteArgs{Text: strings.Join(args, " ")}}, nil
	case TypeAmbient:
		return Command{Type: TypeAmbient, Raw: input, Ambient: &AmbientArgs{URL: strings.Join(args, " ")}}, nil
	case TypeHistory:
		return parseHistory(input, args)
	case TypeTheme, TypeLayout, TypeClear, TypeResetCount, TypeResetSettings:
		return Command{Type: Type(head), Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts "tag:deep" or "#deep" anywhere in the text.
func parseAdd(raw string, args []string) (Command, error) {
	var tag model.Tag
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		var name string
		switch {
		case strings.HasPrefix(lower, "tag:"):
			name = strings.TrimPrefix(lower, "tag:")
		case strings.HasPrefix(lower, "#") && len(lower) > 1:
			name = strings.TrimPrefix(lower, "#")
		default:
			words = append(words, arg)
			continue
		}
		parsed, ok := model.ParseTag(name)
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown tag: %s", name)}
		}
		tag = parsed
	}
	text := strings.TrimSpace(strings.Join(words, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text, Tag: tag}}, nil
}

func parseMode(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mode requires one of focus, short, long"}
	}
	m, ok := timer.ParseMode(args[0])
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown mode: %s", args[0])}
	}
	return Command{Type: TypeMode, Raw: raw, Mode: &ModeArgs{Mode: m}}, nil
}

func parseTask(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeTask, Raw: raw, Task: &TaskArgs{}}, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "task expects a todo number"}
	}
	return Command{Type: TypeTask, Raw: raw, Task: &TaskArgs{Index: n}}, nil
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a field and a value"}
	}
	field := strings.ToLower(args[0])
	value := strings.ToLower(args[1])
	var patch model.SettingsPatch

	switch field {
	case "focus", "short", "long", "interval":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s expects a number", field)}
		}
		lo, hi := model.MinDurationMinutes, model.MaxDurationMinutes
		if field == "interval" {
			lo, hi = model.MinLongBreakEvery, model.MaxLongBreakEvery
		}
		if n < lo || n > hi {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s must be between %d and %d", field, lo, hi)}
		}
		switch field {
		case "focus":
			patch.FocusMinutes = &n
		case "short":
			patch.ShortBreakMinutes = &n
		case "long":
			patch.LongBreakMinutes = &n
		default:
			patch.LongBreakInterval = &n
		}
	case "autostart", "notifications", "sound":
		b, ok := parseSwitch(value)
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s expects on or off", field)}
		}
		switch field {
		case "autostart":
			patch.AutoStart = &b
		case "notifications":
			patch.Notifications = &b
		default:
			patch.Sound = &b
		}
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown setting: %s", field)}
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Field: field, Patch: patch}}, nil
}

func parseHistory(raw string, args []string) (Command, error) {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "history expects a positive count"}
		}
		limit = n
	}
	return Command{Type: TypeHistory, Raw: raw, History: &HistoryArgs{Limit: limit}}, nil
}

func parseSwitch(v string) (bool, bool) {
	switch v {
	case "on", "true", "yes", "1":
		return true, true
	case "off", "false", "no", "0":
		return false, true
	}
	return false, false
}
