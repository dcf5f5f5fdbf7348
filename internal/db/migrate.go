package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedLaborRates(db); err != nil {
		return fmt.Errorf("seeding labor rates: %w", err)
	}
	return nil
}

// DefaultLaborRates seeds labor_rates on first run. Existing rows are kept.
var DefaultLaborRates = map[string]float64{
	"Manual Labor":             45,
	"Project Management":       85,
	"Construction Supervision": 95,
}

func seedLaborRates(db *sql.DB) error {
	ctx := context.Background()
	for class, rate := range DefaultLaborRates {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO labor_rates (rate_class, hourly_rate, updated_at)
			 VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
			 ON CONFLICT(rate_class) DO NOTHING`, class, rate); err != nil {
			return fmt.Errorf("inserting %s: %w", class, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_orders (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL,
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'pending'
		               CHECK(status IN ('pending','scheduled','in_progress','complete')),
		priority       TEXT NOT NULL DEFAULT 'medium'
		               CHECK(priority IN ('low','medium','high')),
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
	`ALTER TABLE work_orders ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
	`CREATE TABLE IF NOT EXISTS work_order_labor (
		work_order_id TEXT NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
		line_no       INTEGER NOT NULL,
		role          TEXT NOT NULL,
		rate_class    TEXT NOT NULL,
		hours         REAL NOT NULL CHECK(hours >= 0),
		hourly_rate   REAL NOT NULL CHECK(hourly_rate >= 0),
		PRIMARY KEY (work_order_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS work_order_materials (
		work_order_id TEXT NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
		line_no       INTEGER NOT NULL,
		name          TEXT NOT NULL,
		quantity      REAL NOT NULL CHECK(quantity >= 0),
		unit_cost     REAL NOT NULL CHECK(unit_cost >= 0),
		PRIMARY KEY (work_order_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS labor_rates (
		rate_class  TEXT PRIMARY KEY,
		hourly_rate REAL NOT NULL CHECK(hourly_rate > 0),
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_project ON work_orders(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders(status)`,
}
