package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/promptkeeper/promptkeeper/internal/notify"
	"github.com/promptkeeper/promptkeeper/internal/store/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the wired store layer handed to services and the CLI.
type Repositories struct {
	Prompts  PromptRepository
	Metadata MetadataRepository
	Events   *notify.Broadcaster
	DB       *sql.DB
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// InitDatabase opens (creating when absent) the SQLite database at dsn, runs
// migrations and returns the wired repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	events := notify.NewBroadcaster()
	return &Repositories{
		Prompts:  NewSQLitePromptRepository(db, events),
		Metadata: NewSQLiteMetadataRepository(db),
		Events:   events,
		DB:       db,
	}, nil
}
