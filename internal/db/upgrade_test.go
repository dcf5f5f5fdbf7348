package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_AddsNotesColumn simulates a database created
// before work orders carried notes. Existing rows must survive and pick up
// the column default.
func TestMigrate_UpgradePath_AddsNotesColumn(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacy := []string{
		`CREATE TABLE work_orders (
			id             TEXT PRIMARY KEY,
			project_id     TEXT NOT NULL,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'pending',
			priority       TEXT NOT NULL DEFAULT 'medium',
			category       TEXT NOT NULL DEFAULT '',
			phase          TEXT NOT NULL DEFAULT '',
			wbs_code       TEXT NOT NULL DEFAULT '',
			duration_hours REAL NOT NULL DEFAULT 0,
			depends_on     TEXT NOT NULL DEFAULT '',
			budget         REAL NOT NULL DEFAULT 0,
			seq            INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`INSERT INTO work_orders (id, project_id, title, created_at, updated_at)
			VALUES ('legacy-1', 'p1', 'Old task', '2025-06-01T00:00:00Z', '2025-06-01T00:00:00Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var title, notes string
	err = db.QueryRow(`SELECT title, notes FROM work_orders WHERE id = 'legacy-1'`).Scan(&title, &notes)
	require.NoError(t, err)
	assert.Equal(t, "Old task", title)
	assert.Equal(t, "", notes)

	var rates int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM labor_rates`).Scan(&rates))
	assert.Equal(t, len(DefaultLaborRates), rates)
}
