package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgBaselineArchive publishes baselines to a shared PostgreSQL database.
// Publishing the same schedule/name pair again replaces the entries.
type PgBaselineArchive struct {
	pool *pgxpool.Pool
}

func NewPgBaselineArchive(pool *pgxpool.Pool) *PgBaselineArchive {
	return &PgBaselineArchive{pool: pool}
}

// OpenPgBaselineArchive connects to url and ensures the archive table.
func OpenPgBaselineArchive(ctx context.Context, url string) (*PgBaselineArchive, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to baseline archive: %w", err)
	}
	a := NewPgBaselineArchive(pool)
	if err := a.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("preparing baseline archive: %w", err)
	}
	return a, nil
}

func (a *PgBaselineArchive) Close() {
	a.pool.Close()
}

func (a *PgBaselineArchive) EnsureTable(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schedule_baselines (
			id          TEXT PRIMARY KEY,
			schedule_id TEXT NOT NULL,
			name        TEXT NOT NULL,
			captured_at TIMESTAMPTZ NOT NULL,
			entries     JSONB NOT NULL DEFAULT '[]',
			UNIQUE (schedule_id, name)
		)`)
	if err != nil {
		return err
	}
	_, err = a.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_schedule_baselines_schedule ON schedule_baselines(schedule_id)`)
	return err
}

func (a *PgBaselineArchive) Publish(ctx context.Context, b *domain.Baseline) error {
	entries, err := json.Marshal(nonNilEntries(b.Entries))
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	_, err = a.pool.Exec(ctx, `
		INSERT INTO schedule_baselines (id, schedule_id, name, captured_at, entries)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		ON CONFLICT (schedule_id, name)
		DO UPDATE SET captured_at = EXCLUDED.captured_at, entries = EXCLUDED.entries`,
		b.ID, b.ScheduleID, b.Name, b.CapturedAt.Truncate(time.Microsecond), string(entries))
	if err != nil {
		return fmt.Errorf("publish baseline %s: %w", b.Name, err)
	}
	return nil
}

func (a *PgBaselineArchive) Fetch(ctx context.Context, scheduleID, name string) (*domain.Baseline, error) {
	var b domain.Baseline
	var entries []byte
	err := a.pool.QueryRow(ctx, `
		SELECT id, schedule_id, name, captured_at, entries
		FROM schedule_baselines WHERE schedule_id = $1 AND name = $2`, scheduleID, name).
		Scan(&b.ID, &b.ScheduleID, &b.Name, &b.CapturedAt, &entries)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("archived baseline %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch baseline %s: %w", name, err)
	}
	if err := json.Unmarshal(entries, &b.Entries); err != nil {
		return nil, fmt.Errorf("decode baseline %s: %w", name, err)
	}
	b.CapturedAt = b.CapturedAt.UTC()
	return &b, nil
}
