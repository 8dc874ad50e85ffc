package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_CreateAndResolve(t *testing.T) {
	h := newHarness(t)
	svc := NewScheduleService(h.schedules)
	ctx := context.Background()

	anchor := time.Date(2025, 3, 3, 15, 30, 0, 0, time.UTC)
	s := &domain.Schedule{ShortID: "TWR01", Name: "Tower", AnchorDate: &anchor}
	require.NoError(t, svc.Create(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, domain.ScheduleActive, s.Status)
	assert.Equal(t, "2025-03-03", domain.FormatDate(s.AnchorDate))

	byShort, err := svc.Resolve(ctx, "twr01")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byShort.ID)

	byID, err := svc.Resolve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "TWR01", byID.ShortID)

	_, err = svc.Resolve(ctx, "NOPE99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScheduleService_CreateValidates(t *testing.T) {
	h := newHarness(t)
	svc := NewScheduleService(h.schedules)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Create(ctx, &domain.Schedule{ShortID: "bad", Name: "X"}), domain.ErrInvalidSchedule)
	assert.ErrorIs(t, svc.Create(ctx, &domain.Schedule{ShortID: "TWR01"}), domain.ErrInvalidSchedule)
}

func TestScheduleService_ArchiveHidesFromDefaultList(t *testing.T) {
	h := newHarness(t)
	svc := NewScheduleService(h.schedules)
	ctx := context.Background()
	a := &domain.Schedule{ShortID: "AAA01", Name: "A"}
	b := &domain.Schedule{ShortID: "BBB01", Name: "B"}
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	require.NoError(t, svc.Archive(ctx, a.ID))
	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestScheduleService_Update(t *testing.T) {
	h := newHarness(t)
	svc := NewScheduleService(h.schedules)
	ctx := context.Background()
	s := &domain.Schedule{ShortID: "AAA01", Name: "A"}
	require.NoError(t, svc.Create(ctx, s))

	s.Name = "Renamed"
	require.NoError(t, svc.Update(ctx, s))
	got, err := svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}
