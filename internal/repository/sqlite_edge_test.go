package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeRepo_CreateListDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	s := seedSchedule(t, database)
	nodes := NewSQLiteNodeRepo(database)
	repo := NewSQLiteEdgeRepo(database)
	ctx := context.Background()

	a := testutil.NewTestTask(s.ID, "A")
	b := testutil.NewTestTask(s.ID, "B")
	require.NoError(t, nodes.Create(ctx, a))
	require.NoError(t, nodes.Create(ctx, b))

	first := testutil.NewTestEdge(s.ID, a.ID, b.ID, domain.FinishToStart)
	second := testutil.NewTestEdge(s.ID, a.ID, b.ID, domain.StartToStart)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	edges, err := repo.ListBySchedule(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, first.ID, edges[0].ID)
	assert.Equal(t, domain.StartToStart, edges[1].Type)

	g := domain.NewGraph([]*domain.Node{a, b}, edges)
	assert.Equal(t, second.ID, g.EdgeBetween(a.ID, b.ID).ID, "newest edge wins by pair")

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)
}

func TestEdgeRepo_RejectsUnknownEndpoint(t *testing.T) {
	database := testutil.NewTestDB(t)
	s := seedSchedule(t, database)
	nodes := NewSQLiteNodeRepo(database)
	ctx := context.Background()

	a := testutil.NewTestTask(s.ID, "A")
	require.NoError(t, nodes.Create(ctx, a))

	err := NewSQLiteEdgeRepo(database).Create(ctx, testutil.NewTestEdge(s.ID, a.ID, "ghost", domain.FinishToStart))
	assert.Error(t, err)
}
