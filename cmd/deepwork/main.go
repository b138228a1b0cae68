package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/deepwork/internal/config"
	"github.com/sandeepkv93/deepwork/internal/kv"
	"github.com/sandeepkv93/deepwork/internal/model"
	"github.com/sandeepkv93/deepwork/internal/notify"
	"github.com/sandeepkv93/deepwork/internal/prefs"
	"github.com/sandeepkv93/deepwork/internal/settings"
	"github.com/sandeepkv93/deepwork/internal/storage"
	"github.com/sandeepkv93/deepwork/internal/timer"
	"github.com/sandeepkv93/deepwork/internal/todo"
	"github.com/sandeepkv93/deepwork/internal/update"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "deepwork failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("deepwork", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultConfigFile(), "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	repo := openRepository(cfg, logger)
	defer repo.Close()

	adapter := kv.New(repo, logger)
	settingsStore := settings.NewStore(adapter, logger)

	if rest := fs.Args(); len(rest) > 0 {
		return runSubcommand(rest, settingsStore)
	}

	todos := todo.NewStore(adapter, logger)
	prefStore := prefs.NewStore(adapter, logger)

	ticker := timer.NewTicker(time.Second, cfg.TickBuffer)
	defer ticker.Stop()

	engine := timer.NewEngine(timer.Deps{
		Settings:        settingsStore,
		Store:           adapter,
		Trigger:         ticker,
		Sessions:        repo,
		Notifier:        notify.Async{Inner: notify.Exec{}, Logger: logger},
		NotifyPermitted: func() bool { return cfg.DesktopNotifications },
		Sound:           notify.Bell{W: os.Stderr},
		Logger:          logger,
	})
	settingsStore.OnChange(func(model.Settings) { engine.SettingsChanged() })

	program := tea.NewProgram(update.NewModel(update.Deps{
		Engine:        engine,
		Ticks:         ticker.C(),
		Settings:      settingsStore,
		Todos:         todos,
		Prefs:         prefStore,
		Sessions:      repo,
		WorkStartHour: cfg.WorkStartHour,
		WorkEndHour:   cfg.WorkEndHour,
		Logger:        logger,
	}), tea.WithAltScreen())

	logger.Info("starting", "store", cfg.Store, "data", cfg.DataPath)
	if _, err := program.Run(); err != nil {
		return err
	}
	logShutdown(logger, cfg, adapter, ticker.Dropped())
	return nil
}

type degrader interface {
	Degraded() bool
}

func logShutdown(logger *slog.Logger, cfg config.RuntimeConfig, store degrader, dropped uint64) {
	if store.Degraded() {
		logger.Warn("some writes failed and were kept in memory only; they are lost on exit", "store", cfg.Store, "path", cfg.DataPath)
	}
	if dropped > 0 {
		logger.Warn("ticks dropped while the ui was busy", "count", dropped)
	}
}

// runSubcommand handles "settings export [file]" and "settings import [file]".
func runSubcommand(args []string, store *settings.Store) error {
	if args[0] != "settings" || len(args) < 2 {
		return fmt.Errorf("unknown command %q (want: settings export|import [file])", args[0])
	}
	switch args[1] {
	case "export":
		if len(args) > 2 {
			f, err := os.Create(args[2])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[2], err)
			}
			defer f.Close()
			return store.Export(f)
		}
		return store.Export(os.Stdout)
	case "import":
		var r io.Reader = os.Stdin
		if len(args) > 2 {
			f, err := os.Open(args[2])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[2], err)
			}
			defer f.Close()
			r = f
		}
		next, err := store.Import(r)
		if err != nil {
			return err
		}
		fmt.Printf("imported settings: focus %dm, short %dm, long %dm, long break every %d\n",
			next.FocusMinutes, next.ShortBreakMinutes, next.LongBreakMinutes, next.LongBreakInterval)
		return nil
	default:
		return fmt.Errorf("unknown settings command %q", args[1])
	}
}

func openLogger(cfg config.RuntimeConfig) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}

// openRepository opens the configured backend. When it cannot be opened the
// program keeps running on an in-memory store for the session.
func openRepository(cfg config.RuntimeConfig, logger *slog.Logger) storage.Repository {
	var (
		repo storage.Repository
		err  error
	)
	switch cfg.Store {
	case config.StoreMemory:
		return storage.NewMemoryRepository()
	case config.StoreFile:
		repo, err = openFile(cfg.DataPath)
	default:
		repo, err = storage.OpenSQLite(cfg.DataPath)
	}
	if err != nil {
		logger.Error("open store, falling back to memory", "store", cfg.Store, "path", cfg.DataPath, "err", err)
		return storage.NewMemoryRepository()
	}
	return repo
}

func openFile(path string) (storage.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return storage.OpenFile(path)
}
