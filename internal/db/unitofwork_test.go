package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/girder/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertSchedule(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO schedules (id, name, created_at, updated_at) VALUES (?, ?, '2025-03-03', '2025-03-03')`,
		id, "Schedule "+id)
	return err
}

func scheduleExists(t *testing.T, uow *db.SQLiteUnitOfWork, id string) bool {
	t.Helper()
	var n int
	err := uow.WithinSnapshot(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE id = ?`, id).Scan(&n)
	})
	require.NoError(t, err)
	return n == 1
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertSchedule(ctx, tx, "s1")
	})
	require.NoError(t, err)

	assert.True(t, scheduleExists(t, uow, "s1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSchedule(ctx, tx, "s2"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.False(t, scheduleExists(t, uow, "s2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertSchedule(ctx, tx, "s3")
			panic("boom")
		})
	})

	assert.False(t, scheduleExists(t, uow, "s3"))
}

func TestWithinTx_ConstraintViolationRollsBackEarlierWrites(t *testing.T) {
	uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSchedule(ctx, tx, "s4"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (id, schedule_id, title, kind, created_at, updated_at)
			 VALUES ('n1', 'missing', 'Pour slab', 'task', '2025-03-03', '2025-03-03')`)
		return err
	})
	require.Error(t, err)

	assert.False(t, scheduleExists(t, uow, "s4"))
}

func TestWithinSnapshot_DiscardsWrites(t *testing.T) {
	uow := openUoW(t)

	err := uow.WithinSnapshot(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertSchedule(ctx, tx, "s5")
	})
	require.NoError(t, err)

	assert.False(t, scheduleExists(t, uow, "s5"))
}

func TestWithinSnapshot_ReturnsFnError(t *testing.T) {
	uow := openUoW(t)
	boom := errors.New("read failed")

	err := uow.WithinSnapshot(context.Background(), func(context.Context, db.DBTX) error { return boom })
	assert.ErrorIs(t, err, boom)
}
