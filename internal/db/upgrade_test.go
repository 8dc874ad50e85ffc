package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradeFromSchemaWithoutShortIDsOrDurations opens a database
// created before schedules had short ids and before nodes stored a
// duration, and checks that migrating keeps the data and backfills
// durations from dates.
func TestMigrate_UpgradeFromSchemaWithoutShortIDsOrDurations(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE schedules (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			anchor_date TEXT,
			status      TEXT NOT NULL DEFAULT 'active',
			archived_at TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE TABLE nodes (
			id               TEXT PRIMARY KEY,
			schedule_id      TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
			parent_id        TEXT REFERENCES nodes(id) ON DELETE SET NULL,
			title            TEXT NOT NULL,
			kind             TEXT NOT NULL,
			start_date       TEXT,
			due_date         TEXT,
			status           TEXT,
			percent_complete INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		)`,
		`INSERT INTO schedules (id, name, created_at, updated_at) VALUES ('s1', 'Tower A', 'x', 'x')`,
		`INSERT INTO nodes (id, schedule_id, title, kind, start_date, due_date, status, created_at, updated_at)
		 VALUES ('n1', 's1', 'Excavate', 'task', '2025-03-03', '2025-03-10', 'in_progress', 'x', 'x')`,
		`INSERT INTO nodes (id, schedule_id, title, kind, start_date, due_date, created_at, updated_at)
		 VALUES ('m1', 's1', 'Permit', 'milestone', '2025-03-01', '2025-03-01', 'x', 'x')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var name, shortID string
	require.NoError(t, db.QueryRow(`SELECT name, short_id FROM schedules WHERE id = 's1'`).Scan(&name, &shortID))
	assert.Equal(t, "Tower A", name)
	assert.Equal(t, "", shortID)

	var dur sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT duration_days FROM nodes WHERE id = 'n1'`).Scan(&dur))
	require.True(t, dur.Valid)
	assert.Equal(t, int64(7), dur.Int64)

	require.NoError(t, db.QueryRow(`SELECT duration_days FROM nodes WHERE id = 'm1'`).Scan(&dur))
	assert.False(t, dur.Valid, "only tasks carry a duration")

	require.NoError(t, Migrate(db), "second run after upgrade")
}
