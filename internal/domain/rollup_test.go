package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollups(t *testing.T) {
	shell := NewDeliverable("d1", "Shell")
	empty := NewDeliverable("d2", "Fit-out")
	dig := NewTask("t1", "Dig", TaskDetail{Status: TaskDone, PercentComplete: 40})
	pour := NewTask("t2", "Pour", TaskDetail{PercentComplete: 50})
	gate := NewMilestone("m1", "Gate")
	for _, n := range []*Node{dig, pour, gate} {
		parent := "d1"
		n.ParentID = &parent
	}

	got := Rollups(NewGraph([]*Node{shell, dig, pour, gate, empty}, nil))

	require.Len(t, got, 2)
	assert.Equal(t, Rollup{DeliverableID: "d1", Title: "Shell", Tasks: 2, Done: 1, PercentComplete: 75}, got[0])
	assert.Equal(t, Rollup{DeliverableID: "d2", Title: "Fit-out"}, got[1])
}
