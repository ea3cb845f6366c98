// Package migrations embeds the roster schema and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/noah-isme/roster-api/pkg/config"
)

//go:embed *.sql
var FS embed.FS

// Dialect maps a configured driver name to its goose dialect.
func Dialect(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres, config.DriverPgx:
		return "postgres", nil
	case config.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}

// Up applies every pending migration.
func Up(db *sql.DB, driver string) error {
	if err := prepare(driver); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

// Down rolls back the latest migration.
func Down(db *sql.DB, driver string) error {
	if err := prepare(driver); err != nil {
		return err
	}
	return goose.Down(db, ".")
}

// Status prints the state of every migration.
func Status(db *sql.DB, driver string) error {
	if err := prepare(driver); err != nil {
		return err
	}
	return goose.Status(db, ".")
}

func prepare(driver string) error {
	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(FS)
	return goose.SetDialect(dialect)
}
