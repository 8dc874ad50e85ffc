package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/alexanderramin/girder/internal/domain"
)

const scheduleColumns = `id, short_id, name, anchor_date, status, archived_at, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type SQLiteScheduleRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	query := `INSERT INTO schedules (` + scheduleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ShortID,
		s.Name,
		nullableTimeToString(s.AnchorDate, dateLayout),
		string(s.Status),
		nullableTimeToString(s.ArchivedAt, time.RFC3339),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	return scanSchedule(row)
}

// GetByShortID matches case-insensitively.
func (r *SQLiteScheduleRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Schedule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE UPPER(short_id) = UPPER(?)`, shortID)
	return scanSchedule(row)
}

func (r *SQLiteScheduleRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}
	return schedules, nil
}

func (r *SQLiteScheduleRepo) Update(ctx context.Context, s *domain.Schedule) error {
	query := `UPDATE schedules SET short_id = ?, name = ?, anchor_date = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.ShortID,
		s.Name,
		nullableTimeToString(s.AnchorDate, dateLayout),
		string(s.Status),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule: %w", err)
	}
	return requireAffected(res, "schedule")
}

func (r *SQLiteScheduleRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`, now, now, id)
	if err != nil {
		return fmt.Errorf("archiving schedule: %w", err)
	}
	return requireAffected(res, "schedule")
}

// Delete removes the schedule; nodes, edges and baselines cascade.
func (r *SQLiteScheduleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	return requireAffected(res, "schedule")
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var s domain.Schedule
	var statusStr, createdAtStr, updatedAtStr string
	var anchorStr, archivedAtStr sql.NullString

	err := row.Scan(&s.ID, &s.ShortID, &s.Name, &anchorStr, &statusStr, &archivedAtStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}

	s.Status = domain.ScheduleStatus(statusStr)
	s.AnchorDate = parseNullableTime(anchorStr, dateLayout)
	s.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)
	s.CreatedAt = parseTimestamp(createdAtStr)
	s.UpdatedAt = parseTimestamp(updatedAtStr)
	return &s, nil
}

// requireAffected turns a write that matched no row into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
