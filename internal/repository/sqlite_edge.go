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

const edgeColumns = `id, schedule_id, from_node_id, to_node_id, type, created_at`

type SQLiteEdgeRepo struct {
	db db.DBTX
}

func NewSQLiteEdgeRepo(conn db.DBTX) *SQLiteEdgeRepo {
	return &SQLiteEdgeRepo{db: conn}
}

func (r *SQLiteEdgeRepo) Create(ctx context.Context, e *domain.Edge) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO edges (`+edgeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ScheduleID, e.From, e.To, string(e.Type), e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting edge: %w", err)
	}
	return nil
}

func (r *SQLiteEdgeRepo) GetByID(ctx context.Context, id string) (*domain.Edge, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+edgeColumns+` FROM edges WHERE id = ?`, id)
	return scanEdge(row)
}

// ListBySchedule returns edges in creation order, so when several edges
// join the same pair the newest is last.
func (r *SQLiteEdgeRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Edge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+edgeColumns+` FROM edges WHERE schedule_id = ? ORDER BY rowid`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}
	defer rows.Close()

	var edges []*domain.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edges: %w", err)
	}
	return edges, nil
}

func (r *SQLiteEdgeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM edges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting edge: %w", err)
	}
	return requireAffected(res, "edge")
}

func scanEdge(row rowScanner) (*domain.Edge, error) {
	var e domain.Edge
	var typeStr, createdAtStr string
	if err := row.Scan(&e.ID, &e.ScheduleID, &e.From, &e.To, &typeStr, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("edge: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning edge: %w", err)
	}
	e.Type = domain.ConstraintType(typeStr)
	e.CreatedAt = parseTimestamp(createdAtStr)
	return &e, nil
}
