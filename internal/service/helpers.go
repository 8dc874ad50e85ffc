package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
)

// loadGraph reads one schedule's nodes and edges.
func loadGraph(ctx context.Context, nodes repository.NodeRepo, edges repository.EdgeRepo, scheduleID string) (*domain.Graph, error) {
	ns, err := nodes.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	es, err := edges.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}
	return domain.NewGraph(ns, es), nil
}

// persistDates writes the dates (and derived duration) of every listed node.
func persistDates(ctx context.Context, nodes repository.NodeRepo, changed []*domain.Node) error {
	for _, n := range changed {
		var dur *int
		if n.IsTask() {
			dur = n.Task.DurationDays
		}
		if err := nodes.UpdateDates(ctx, n.ID, n.Start, n.Due, dur); err != nil {
			return fmt.Errorf("saving dates of %q: %w", n.Title, err)
		}
	}
	return nil
}

func formatValidationErrors(errs []error) error {
	return fmt.Errorf("import validation failed (%d errors): %w", len(errs), errors.Join(errs...))
}
