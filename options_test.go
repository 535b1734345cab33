package foundry

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tfkr-ae/foundry/domain"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestApp creates an app backed by a temporary database and closes it
// when the test ends.
func newTestApp(t *testing.T, options ...func(*App) error) *App {
	t.Helper()
	options = append([]func(*App) error{WithDatabase(filepath.Join(t.TempDir(), "foundry.db"))}, options...)
	app, err := New(options...)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	t.Cleanup(func() {
		app.Close()
	})
	return app
}

func TestWithLogger(t *testing.T) {
	t.Run("sets custom logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		app, err := New(
			WithLogger(logger),
		)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer app.Close()

		if app.Logger != logger {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", logger, app.Logger)
		}

		app.Logger.Info("test log message")
		if !strings.Contains(buf.String(), "test log message") {
			t.Fatalf("\nwanted:\nlog output containing 'test log message'\ngot:\n%q", buf.String())
		}
	})

	t.Run("handles nil logger safely", func(t *testing.T) {
		app, err := New(
			WithLogger(nil),
		)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer app.Close()

		if app.Logger == nil {
			t.Fatalf("\nwanted:\nnon-nil logger\ngot:\nnil")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("\nwanted:\nno panic\ngot:\n%v", r)
			}
		}()

		app.Logger.Info("safe check")
	})
}

func TestWithLogHandler(t *testing.T) {
	handler := func(*domain.Log) error { return nil }

	_, err := New(WithLogHandler(handler), WithLogHandler(handler))
	if err == nil {
		t.Fatalf("\nwanted:\nerror\ngot:\nnil")
	}
	if !strings.Contains(err.Error(), "already has a log handler") {
		t.Fatalf("\nwanted:\nduplicate handler error\ngot:\n%v", err)
	}
}

func TestWithRepo(t *testing.T) {
	t.Run("should reject a nil repository", func(t *testing.T) {
		if _, err := New(WithRepo(nil)); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})

	t.Run("should close the repository it replaces", func(t *testing.T) {
		app := newTestApp(t)
		previous := app.Repo

		if err := app.WithOptions(WithDatabase(filepath.Join(t.TempDir(), "other.db"))); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if app.Repo == previous {
			t.Fatalf("wanted the repository to be replaced")
		}
		if _, err := previous.GetStats(); err == nil {
			t.Fatalf("\nwanted:\nerror from a closed repository\ngot:\nnil")
		}
	})
}

func TestWithDatabase(t *testing.T) {
	t.Run("should resolve relative names against the config dir", func(t *testing.T) {
		dir := t.TempDir()
		app := newTestApp(t, WithConfigDir(dir), WithDatabase(""))

		if app.Repo == nil {
			t.Fatalf("\nwanted:\nrepository\ngot:\nnil")
		}
		if _, err := os.Stat(filepath.Join(dir, "foundry.db")); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
	})

	t.Run("should fail without a database name", func(t *testing.T) {
		app := &App{}
		if err := WithDatabase("")(app); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}
