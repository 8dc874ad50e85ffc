package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillDurations(db); err != nil {
		return fmt.Errorf("backfilling task durations: %w", err)
	}
	return nil
}

// migrateBackfillDurations derives duration_days for dated tasks written
// before the column existed.
func migrateBackfillDurations(db *sql.DB) error {
	_, err := db.Exec(`UPDATE nodes
		SET duration_days = CAST(julianday(due_date) - julianday(start_date) AS INTEGER)
		WHERE kind = 'task' AND duration_days IS NULL
		  AND start_date IS NOT NULL AND due_date IS NOT NULL`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schedules (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		anchor_date TEXT,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS nodes (
		id               TEXT PRIMARY KEY,
		schedule_id      TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		parent_id        TEXT REFERENCES nodes(id) ON DELETE SET NULL,
		title            TEXT NOT NULL,
		kind             TEXT NOT NULL
		                 CHECK(kind IN ('task','milestone','deliverable','person')),
		start_date       TEXT,
		due_date         TEXT,
		status           TEXT
		                 CHECK(status IS NULL OR status IN ('not_started','in_progress','blocked','done')),
		percent_complete INTEGER NOT NULL DEFAULT 0
		                 CHECK(percent_complete BETWEEN 0 AND 100),
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_nodes_schedule ON nodes(schedule_id)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id)`,

	`CREATE TABLE IF NOT EXISTS node_assignees (
		node_id   TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		person_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (node_id, person_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_node_assignees_person ON node_assignees(person_id)`,

	`CREATE TABLE IF NOT EXISTS edges (
		id           TEXT PRIMARY KEY,
		schedule_id  TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		from_node_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		to_node_id   TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		type         TEXT NOT NULL
		             CHECK(type IN ('finish_to_start','start_to_start','finish_to_finish')),
		created_at   TEXT NOT NULL,
		CHECK(from_node_id != to_node_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_edges_schedule ON edges(schedule_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_node_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_node_id)`,

	`CREATE TABLE IF NOT EXISTS baselines (
		id          TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		captured_at TEXT NOT NULL,
		entries     TEXT NOT NULL DEFAULT '[]',
		UNIQUE(schedule_id, name)
	)`,

	// Short ids arrived after the first schedules were created.
	`ALTER TABLE schedules ADD COLUMN short_id TEXT NOT NULL DEFAULT ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_short_id ON schedules(short_id) WHERE short_id != ''`,

	`ALTER TABLE nodes ADD COLUMN duration_days INTEGER CHECK(duration_days IS NULL OR duration_days >= 0)`,
}
