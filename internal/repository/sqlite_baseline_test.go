package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBaseline(scheduleID, name string, entries ...domain.BaselineEntry) *domain.Baseline {
	return &domain.Baseline{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		Name:       name,
		CapturedAt: time.Now().UTC().Truncate(time.Second),
		Entries:    entries,
	}
}

func TestBaselineRepo_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	s := seedSchedule(t, database)
	repo := NewSQLiteBaselineRepo(database)
	ctx := context.Background()

	start, due := testutil.Day(0), testutil.Day(4)
	b := newBaseline(s.ID, "contract",
		domain.BaselineEntry{NodeID: "n1", Title: "Excavate", Start: &start, Due: &due},
		domain.BaselineEntry{NodeID: "n2", Title: "Unscheduled"},
	)
	require.NoError(t, repo.Create(ctx, b))

	fetched, err := repo.GetByName(ctx, s.ID, "contract")
	require.NoError(t, err)
	assert.Equal(t, b.ID, fetched.ID)
	assert.True(t, b.CapturedAt.Equal(fetched.CapturedAt))
	require.Len(t, fetched.Entries, 2)
	assert.True(t, start.Equal(*fetched.Entries[0].Start))
	assert.Nil(t, fetched.Entries[1].Due)
}

func TestBaselineRepo_NameUniquePerSchedule(t *testing.T) {
	database := testutil.NewTestDB(t)
	s := seedSchedule(t, database)
	other := seedSchedule(t, database)
	repo := NewSQLiteBaselineRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newBaseline(s.ID, "contract")))
	assert.Error(t, repo.Create(ctx, newBaseline(s.ID, "contract")))
	assert.NoError(t, repo.Create(ctx, newBaseline(other.ID, "contract")))
}

func TestBaselineRepo_ListAndDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	s := seedSchedule(t, database)
	repo := NewSQLiteBaselineRepo(database)
	ctx := context.Background()

	first := newBaseline(s.ID, "contract")
	second := newBaseline(s.ID, "rebaseline-1")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListBySchedule(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Empty(t, list[0].Entries)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByName(ctx, s.ID, "contract")
	assert.ErrorIs(t, err, ErrNotFound)
}
