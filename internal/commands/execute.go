package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add           func(AddArgs) (Result, error)
	Mode          func(ModeArgs) (Result, error)
	Task          func(TaskArgs) (Result, error)
	Set           func(SetArgs) (Result, error)
	Quote         func(QuoteArgs) (Result, error)
	Ambient       func(AmbientArgs) (Result, error)
	History       func(HistoryArgs) (Result, error)
	Theme         func() (Result, error)
	Layout        func() (Result, error)
	Clear         func() (Result, error)
	ResetCount    func() (Result, error)
	ResetSettings func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeMode:
		if handlers.Mode == nil {
			return missing(cmd.Type)
		}
		return handlers.Mode(*cmd.Mode)
	case TypeTask:
		if handlers.Task == nil {
			return missing(cmd.Type)
		}
		return handlers.Task(*cmd.Task)
	case TypeSet:
		if handlers.Set == nil {
			return missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	case TypeQuote:
		if handlers.Quote == nil {
			return missing(cmd.Type)
		}
		return handlers.Quote(*cmd.Quote)
	case TypeAmbient:
		if handlers.Ambient == nil {
			return missing(cmd.Type)
		}
		return handlers.Ambient(*cmd.Ambient)
	case TypeHistory:
		if handlers.History == nil {
			return missing(cmd.Type)
		}
		return handlers.History(*cmd.History)
	case TypeTheme:
		return call(cmd.Type, handlers.Theme)
	case TypeLayout:
		return call(cmd.Type, handlers.Layout)
	case TypeClear:
		return call(cmd.Type, handlers.Clear)
	case TypeResetCount:
		return call(cmd.Type, handlers.ResetCount)
	case TypeResetSettings:
		return call(cmd.Type, handlers.ResetSettings)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func call(t Type, fn func() (Result, error)) (Result, error) {
	if fn == nil {
		return missing(t)
	}
	return fn()
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
