package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/domain"
)

const baselineColumns = `id, schedule_id, name, captured_at, entries`

// SQLiteBaselineRepo keeps each baseline's entries as one JSON document.
type SQLiteBaselineRepo struct {
	db db.DBTX
}

func NewSQLiteBaselineRepo(conn db.DBTX) *SQLiteBaselineRepo {
	return &SQLiteBaselineRepo{db: conn}
}

func (r *SQLiteBaselineRepo) Create(ctx context.Context, b *domain.Baseline) error {
	entries, err := json.Marshal(nonNilEntries(b.Entries))
	if err != nil {
		return fmt.Errorf("encoding baseline entries: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO baselines (`+baselineColumns+`) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.ScheduleID, b.Name, b.CapturedAt.Format(time.RFC3339), string(entries))
	if err != nil {
		return fmt.Errorf("inserting baseline: %w", err)
	}
	return nil
}

func (r *SQLiteBaselineRepo) GetByName(ctx context.Context, scheduleID, name string) (*domain.Baseline, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+baselineColumns+` FROM baselines WHERE schedule_id = ? AND name = ?`, scheduleID, name)
	return scanBaseline(row)
}

func (r *SQLiteBaselineRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Baseline, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+baselineColumns+` FROM baselines WHERE schedule_id = ? ORDER BY captured_at, rowid`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}
	defer rows.Close()

	var out []*domain.Baseline
	for rows.Next() {
		b, err := scanBaseline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baselines: %w", err)
	}
	return out, nil
}

func (r *SQLiteBaselineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM baselines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting baseline: %w", err)
	}
	return requireAffected(res, "baseline")
}

func scanBaseline(row rowScanner) (*domain.Baseline, error) {
	var b domain.Baseline
	var capturedAtStr, entries string
	if err := row.Scan(&b.ID, &b.ScheduleID, &b.Name, &capturedAtStr, &entries); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("baseline: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning baseline: %w", err)
	}
	b.CapturedAt = parseTimestamp(capturedAtStr)
	if err := json.Unmarshal([]byte(entries), &b.Entries); err != nil {
		return nil, fmt.Errorf("decoding baseline %s entries: %w", b.Name, err)
	}
	return &b, nil
}

func nonNilEntries(entries []domain.BaselineEntry) []domain.BaselineEntry {
	if entries == nil {
		return []domain.BaselineEntry{}
	}
	return entries
}
