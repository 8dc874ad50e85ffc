package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/girder/internal/domain"
	"github.com/alexanderramin/girder/internal/repository"
	"github.com/google/uuid"
)

type scheduleService struct {
	schedules repository.ScheduleRepo
}

func NewScheduleService(schedules repository.ScheduleRepo) ScheduleService {
	return &scheduleService{schedules: schedules}
}

func (s *scheduleService) Create(ctx context.Context, sched *domain.Schedule) error {
	if err := sched.ValidateShortID(); err != nil {
		return err
	}
	if sched.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidSchedule)
	}
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}
	if sched.Status == "" {
		sched.Status = domain.ScheduleActive
	}
	if sched.AnchorDate != nil {
		sched.AnchorDate = domain.DayPtr(*sched.AnchorDate)
	}
	now := time.Now().UTC()
	sched.CreatedAt = now
	sched.UpdatedAt = now
	return s.schedules.Create(ctx, sched)
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *scheduleService) Resolve(ctx context.Context, ref string) (*domain.Schedule, error) {
	sched, err := s.schedules.GetByShortID(ctx, ref)
	if err == nil {
		return sched, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	sched, err = s.schedules.GetByID(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("schedule %q: %w", ref, repository.ErrNotFound)
		}
		return nil, err
	}
	return sched, nil
}

func (s *scheduleService) List(ctx context.Context, includeArchived bool) ([]*domain.Schedule, error) {
	return s.schedules.List(ctx, includeArchived)
}

func (s *scheduleService) Update(ctx context.Context, sched *domain.Schedule) error {
	if err := sched.ValidateShortID(); err != nil {
		return err
	}
	sched.UpdatedAt = time.Now().UTC()
	return s.schedules.Update(ctx, sched)
}

func (s *scheduleService) Archive(ctx context.Context, id string) error {
	return s.schedules.Archive(ctx, id)
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	return s.schedules.Delete(ctx, id)
}
