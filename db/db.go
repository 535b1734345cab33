package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	_ "github.com/tfkr-ae/foundry/db/migrations"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/tfkr-ae/foundry/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql migrations/*.go
var embedMigrations embed.FS

// Repository implements every domain repository on top of one sqlx connection pool.
type Repository struct {
	dbConn *sqlx.DB // dbConn is the active database connection pool.
}

// NewCatalogRepo initializes a new Repository with the given sqlx.DB database connection.
func NewCatalogRepo(db *sqlx.DB) *Repository {
	return &Repository{
		dbConn: db,
	}
}

// Close terminates the database connection.
func (repo *Repository) Close() error {
	err := repo.dbConn.Close()
	if err != nil {
		return fmt.Errorf("closing repo : %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (repo *Repository) Ping() error {
	if err := repo.dbConn.Ping(); err != nil {
		return fmt.Errorf("pinging db: %w", err)
	}
	return nil
}

// SchemaVersion returns the migration version of the repository database.
func (repo *Repository) SchemaVersion() (int64, error) {
	return Version(repo.dbConn)
}

// New opens the SQLite database file at name and applies all pending migrations.
// WAL mode and foreign keys are enabled; the pool holds a single connection.
func New(name string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_fk=true", name))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations to db.
func Migrate(db *sqlx.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return fmt.Errorf("setting dialect for migrations : %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("applying migration : %w", err)
	}
	return nil
}

// Version returns the current migration version of db.
func Version(db *sqlx.DB) (int64, error) {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return 0, fmt.Errorf("setting dialect for migrations : %w", err)
	}
	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return 0, fmt.Errorf("getting db version: %w", err)
	}
	return version, nil
}

// checkAffected turns a zero row count into domain.ErrNotFound.
func checkAffected(result interface{ RowsAffected() (int64, error) }, what string, id any) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fetching rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no %s with id %v: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

// conflict maps a unique constraint violation to domain.ErrConflict.
func conflict(err error, what string, key any) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")) {
		return fmt.Errorf("%s %v already exists: %w", what, key, domain.ErrConflict)
	}
	return err
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound.
func notFound(err error, what string, id any) error {
	if errors.Is(err, errNoRows) {
		return fmt.Errorf("no %s with id %v: %w", what, id, domain.ErrNotFound)
	}
	return fmt.Errorf("getting %s %v: %w", what, id, err)
}
