package migrations

import (
	"context"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roster-api/pkg/config"
	"github.com/noah-isme/roster-api/pkg/database"
)

func TestDialect(t *testing.T) {
	for driver, want := range map[string]string{
		config.DriverPostgres: "postgres",
		config.DriverPgx:      "postgres",
		config.DriverSQLite:   "sqlite3",
	} {
		got, err := Dialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Dialect("mysql")
	assert.Error(t, err)
}

func TestUpAndDownOnSQLite(t *testing.T) {
	db, err := database.Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	goose.SetLogger(goose.NopLogger())

	require.NoError(t, Up(db.DB, config.DriverSQLite))

	var tables int
	require.NoError(t, db.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('teachers', 'students', 'teacher_student_map')`))
	assert.Equal(t, 3, tables)

	require.NoError(t, Down(db.DB, config.DriverSQLite))
	require.NoError(t, db.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('teachers', 'students', 'teacher_student_map')`))
	assert.Equal(t, 0, tables)
}
