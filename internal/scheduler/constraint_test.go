package scheduler

import (
	"testing"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FinishToStart(t *testing.T) {
	pred := datedTask("p", 0, 4)
	dep := durationTask("d", 3)

	span, ok := Resolve(pred, dep, domain.FinishToStart, 5)

	require.True(t, ok)
	assert.Equal(t, day(5), span.Start)
	assert.Equal(t, day(8), span.Due)
}

func TestResolve_StartToStart(t *testing.T) {
	pred := datedTask("p", 0, 4)
	dep := durationTask("d", 3)

	span, ok := Resolve(pred, dep, domain.StartToStart, 5)

	require.True(t, ok)
	assert.Equal(t, day(0), span.Start)
	assert.Equal(t, day(3), span.Due)
}

func TestResolve_FinishToFinish(t *testing.T) {
	pred := datedTask("p", 2, 10)
	dep := durationTask("d", 4)

	span, ok := Resolve(pred, dep, domain.FinishToFinish, 5)

	require.True(t, ok)
	assert.Equal(t, day(6), span.Start)
	assert.Equal(t, day(10), span.Due)
}

func TestResolve_PredecessorWithoutBothDates(t *testing.T) {
	pred := domain.NewTask("p", "P", domain.TaskDetail{})
	pred.Due = dayPtr(4)

	_, ok := Resolve(pred, durationTask("d", 3), domain.FinishToStart, 5)
	assert.False(t, ok)
}

func TestResolve_DependentDatesWinOverStoredDuration(t *testing.T) {
	pred := datedTask("p", 0, 4)
	dep := datedTask("d", 20, 22)
	dep.Task.DurationDays = intPtr(9)

	span, ok := Resolve(pred, dep, domain.FinishToStart, 5)

	require.True(t, ok)
	assert.Equal(t, day(5), span.Start)
	assert.Equal(t, day(7), span.Due, "duration comes from the dependent's own dates")
}

func TestResolve_DefaultDurationWhenUnknown(t *testing.T) {
	pred := datedTask("p", 0, 4)
	dep := domain.NewMilestone("m", "Handover")

	span, ok := Resolve(pred, dep, domain.FinishToStart, 5)

	require.True(t, ok)
	assert.Equal(t, day(5), span.Start)
	assert.Equal(t, day(10), span.Due)
}

func TestResolve_UnknownConstraintType(t *testing.T) {
	_, ok := Resolve(datedTask("p", 0, 4), durationTask("d", 1), "start_to_finish", 5)
	assert.False(t, ok)
}
