package foundry

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/tfkr-ae/foundry/db"
	"github.com/tfkr-ae/foundry/domain"
)

// WithLogger sets the structured logger. A nil logger keeps the current one.
func WithLogger(logger *slog.Logger) func(*App) error {
	return func(app *App) error {
		if logger != nil {
			app.Logger = logger
		}
		return nil
	}
}

// WithRepo sets the repository, closing the one it replaces.
func WithRepo(repo Repository) func(*App) error {
	return func(app *App) error {
		if repo == nil {
			return errors.New("repository is nil")
		}
		app.mu.Lock()
		previous := app.Repo
		app.Repo = repo
		app.mu.Unlock()

		if previous != nil {
			if err := previous.Close(); err != nil {
				return fmt.Errorf("closing previous repository: %w", err)
			}
		}
		return nil
	}
}

// WithDatabase opens (and migrates) the SQLite database at name and uses it as
// the repository. An empty name uses the configured database. Relative paths
// are resolved against the config dir when one is set.
func WithDatabase(name string) func(*App) error {
	return func(app *App) error {
		if name == "" {
			name = app.Config.Database
		}
		if name == "" {
			return errors.New("no database configured")
		}
		if app.ConfigDir != "" && !filepath.IsAbs(name) && name != ":memory:" {
			name = filepath.Join(app.ConfigDir, name)
		}

		conn, err := db.New(name)
		if err != nil {
			return fmt.Errorf("opening database %s: %w", name, err)
		}
		return WithRepo(db.NewCatalogRepo(conn))(app)
	}
}

// WithLogHandler takes a handler function that will be executed on each persisted log.
func WithLogHandler(handler func(log *domain.Log) error) func(*App) error {
	return func(app *App) error {
		if app.OnLog != nil {
			return errors.New("app already has a log handler defined")
		}
		app.OnLog = handler
		return nil
	}
}
