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

const nodeColumns = `id, schedule_id, parent_id, title, kind, start_date, due_date,
		duration_days, status, percent_complete, created_at, updated_at`

// SQLiteNodeRepo stores nodes in nodes and task assignees in
// node_assignees. Nodes list in insertion order, which the engine relies
// on for deterministic traversal.
type SQLiteNodeRepo struct {
	db db.DBTX
}

func NewSQLiteNodeRepo(conn db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{db: conn}
}

func (r *SQLiteNodeRepo) Create(ctx context.Context, n *domain.Node) error {
	dur, status, percent := taskColumns(n)
	query := `INSERT INTO nodes (` + nodeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ScheduleID,
		n.ParentID,
		n.Title,
		string(n.Kind),
		nullableTimeToString(n.Start, dateLayout),
		nullableTimeToString(n.Due, dateLayout),
		dur,
		status,
		percent,
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting node: %w", err)
	}
	return r.writeAssignees(ctx, n)
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, id string) (*domain.Node, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if err != nil {
		return nil, err
	}
	if n.IsTask() {
		assignees, err := r.assigneesOf(ctx, `a.node_id = ?`, id)
		if err != nil {
			return nil, err
		}
		n.Task.Assignees = assignees[n.ID]
	}
	return n, nil
}

func (r *SQLiteNodeRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Node, error) {
	nodes, err := r.listNodes(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	assignees, err := r.assigneesOf(ctx, `n.schedule_id = ?`, scheduleID)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.IsTask() {
			n.Task.Assignees = assignees[n.ID]
		}
	}
	return nodes, nil
}

// listNodes fully drains its cursor before returning so the caller can
// issue the next query on a single-connection pool.
func (r *SQLiteNodeRepo) listNodes(ctx context.Context, scheduleID string) ([]*domain.Node, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE schedule_id = ? ORDER BY rowid`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteNodeRepo) assigneesOf(ctx context.Context, where string, arg string) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT a.node_id, a.person_id
		FROM node_assignees a JOIN nodes n ON n.id = a.node_id
		WHERE `+where+` ORDER BY a.node_id, a.position`, arg)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var nodeID, personID string
		if err := rows.Scan(&nodeID, &personID); err != nil {
			return nil, fmt.Errorf("scanning assignee: %w", err)
		}
		out[nodeID] = append(out[nodeID], personID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignees: %w", err)
	}
	return out, nil
}

func (r *SQLiteNodeRepo) Update(ctx context.Context, n *domain.Node) error {
	dur, status, percent := taskColumns(n)
	query := `UPDATE nodes SET parent_id = ?, title = ?, kind = ?, start_date = ?, due_date = ?,
		duration_days = ?, status = ?, percent_complete = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		n.ParentID,
		n.Title,
		string(n.Kind),
		nullableTimeToString(n.Start, dateLayout),
		nullableTimeToString(n.Due, dateLayout),
		dur,
		status,
		percent,
		n.UpdatedAt.Format(time.RFC3339),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating node: %w", err)
	}
	if err := requireAffected(res, "node"); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM node_assignees WHERE node_id = ?`, n.ID); err != nil {
		return fmt.Errorf("clearing assignees: %w", err)
	}
	return r.writeAssignees(ctx, n)
}

func (r *SQLiteNodeRepo) UpdateDates(ctx context.Context, id string, start, due *time.Time, durationDays *int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE nodes SET start_date = ?, due_date = ?, duration_days = COALESCE(?, duration_days), updated_at = ?
		WHERE id = ?`,
		nullableTimeToString(start, dateLayout),
		nullableTimeToString(due, dateLayout),
		nullableIntToValue(durationDays),
		nowUTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating node dates: %w", err)
	}
	return requireAffected(res, "node")
}

// Delete removes the node. Its edges and assignments cascade; children are
// detached rather than deleted.
func (r *SQLiteNodeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}
	return requireAffected(res, "node")
}

func (r *SQLiteNodeRepo) writeAssignees(ctx context.Context, n *domain.Node) error {
	if !n.IsTask() {
		return nil
	}
	for i, personID := range n.Task.Assignees {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO node_assignees (node_id, person_id, position) VALUES (?, ?, ?)`,
			n.ID, personID, i)
		if err != nil {
			return fmt.Errorf("assigning %s to node %s: %w", personID, n.ID, err)
		}
	}
	return nil
}

// taskColumns returns the task-only column values, NULL for other kinds.
func taskColumns(n *domain.Node) (duration, status interface{}, percent int) {
	if !n.IsTask() {
		return nil, nil, 0
	}
	return nullableIntToValue(n.Task.DurationDays), string(n.Task.Status), n.Task.PercentComplete
}

func scanNode(row rowScanner) (*domain.Node, error) {
	var n domain.Node
	var kindStr, createdAtStr, updatedAtStr string
	var parentID, startStr, dueStr, statusStr sql.NullString
	var duration sql.NullInt64
	var percent int

	err := row.Scan(
		&n.ID, &n.ScheduleID, &parentID, &n.Title, &kindStr, &startStr, &dueStr,
		&duration, &statusStr, &percent, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("node: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}

	n.Kind = domain.NodeKind(kindStr)
	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	n.Start = parseNullableTime(startStr, dateLayout)
	n.Due = parseNullableTime(dueStr, dateLayout)
	n.CreatedAt = parseTimestamp(createdAtStr)
	n.UpdatedAt = parseTimestamp(updatedAtStr)

	if n.Kind == domain.NodeTask {
		status := domain.TaskStatus(statusStr.String)
		if status == "" {
			status = domain.TaskNotStarted
		}
		n.Task = &domain.TaskDetail{
			DurationDays:    nullableInt(duration),
			Status:          status,
			PercentComplete: percent,
		}
	}
	return &n, nil
}
