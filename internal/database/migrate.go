package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// runMigrations applies the embedded migrations for driver ("postgres" or
// "sqlite") to db.
func runMigrations(db *sql.DB, driver string) error {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case "postgres":
		target, err = postgres.WithInstance(db, &postgres.Config{})
	case "sqlite":
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return fmt.Errorf("no migrations for driver %s", driver)
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no new migrations to apply", "driver", driver)
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	slog.Info("database migrations applied", "driver", driver, "version", version, "dirty", dirty)
	return nil
}
