// Package foundry wires the catalog site together: configuration, the SQLite
// repository, the persisted application log, the JSON API and the public pages.
// It is decoupled from the command line so that the server can be embedded and
// tested on its own.
package foundry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/api"
	"github.com/tfkr-ae/foundry/core"
	"github.com/tfkr-ae/foundry/domain"
)

// logBuffer is the capacity of the log write channel.
const logBuffer = 64

// ErrClosed is returned by WriteLog after Close.
var ErrClosed = errors.New("foundry app is closed")

// Repository is everything the app reads and writes: the catalog documents
// served by the API and the pages, and the application log.
type Repository interface {
	api.Store
	domain.LogRepository
	Close() error
}

// App is the main struct of a foundry site. It owns the repository and the
// goroutine that persists log entries.
type App struct {
	ConfigDir string                      // Directory holding config.yaml, .env and the default database
	Config    Config                      // Settings read from the config dir and the environment
	Repo      Repository                  // Catalog repository, set by WithRepo or WithDatabase
	Logger    *slog.Logger                // Structured logger, never nil
	OnLog     func(log *domain.Log) error // Called after each log entry is persisted

	mu         sync.Mutex
	closed     bool
	logs       chan *domain.Log
	writerDone chan struct{}
}

// New creates an App with default configuration and applies options.
func New(options ...func(*App) error) (*App, error) {
	app := &App{
		Config:     DefaultConfig(),
		Logger:     slog.New(slog.DiscardHandler),
		logs:       make(chan *domain.Log, logBuffer),
		writerDone: make(chan struct{}),
	}
	if err := app.WithOptions(options...); err != nil {
		if app.Repo != nil {
			app.Repo.Close()
		}
		return nil, err
	}
	go app.writeLogs()
	return app, nil
}

// WithOptions applies a series of configuration functions to the app.
func (app *App) WithOptions(options ...func(*App) error) error {
	for _, option := range options {
		if err := option(app); err != nil {
			return fmt.Errorf("applying option on foundry : %w", err)
		}
	}
	return nil
}

func (app *App) repo() Repository {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.Repo
}

// writeLogs drains the log channel until Close.
func (app *App) writeLogs() {
	defer close(app.writerDone)
	for log := range app.logs {
		repo := app.repo()
		if repo == nil {
			continue
		}
		if err := repo.InsertLog(log); err != nil {
			app.Logger.Error("persisting log", "error", err)
			continue
		}
		if app.OnLog != nil {
			if err := app.OnLog(log); err != nil {
				app.Logger.Warn("log handler failed", "error", err)
			}
		}
	}
}

var logLevels = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
	"FATAL": slog.LevelError + 4,
}

// WriteLog records an application event. The entry goes to the structured
// logger immediately and is persisted asynchronously. When the buffer is full
// the entry is only logged.
func (app *App) WriteLog(level string, message string, options ...core.LogOption) error {
	slogLevel, ok := logLevels[level]
	if !ok {
		return fmt.Errorf("level should be either: debug, info, warn, error, fatal")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating new uuid : %w", err)
	}
	log := &domain.Log{
		ID:        id,
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
	for _, option := range options {
		if err := option(log); err != nil {
			return fmt.Errorf("applying log option : %w", err)
		}
	}

	attrs := []any{"log_id", log.ID}
	if log.RequestID != "" {
		attrs = append(attrs, "request_id", log.RequestID)
	}
	if log.DocumentID != nil {
		attrs = append(attrs, "document_id", *log.DocumentID)
	}
	app.Logger.Log(context.Background(), slogLevel, message, attrs...)

	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return ErrClosed
	}
	select {
	case app.logs <- log:
	default:
		app.Logger.Warn("log buffer full, entry not persisted", "log_id", log.ID)
	}
	return nil
}

// Close flushes pending log entries and closes the repository.
func (app *App) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	close(app.logs)
	app.mu.Unlock()

	<-app.writerDone

	if repo := app.repo(); repo != nil {
		if err := repo.Close(); err != nil {
			return fmt.Errorf("closing repository: %w", err)
		}
	}
	return nil
}
