package services

import (
	"context"
	"fmt"

	"github.com/ritmohq/ritmo/internal/core/domain"
	"github.com/ritmohq/ritmo/internal/core/workers"
)

type HabitService struct {
	repo   domain.HabitRepository
	worker *workers.StatsWorker
}

func NewHabitService(repo domain.HabitRepository, worker *workers.StatsWorker) *HabitService {
	return &HabitService{
		repo:   repo,
		worker: worker,
	}
}

type CreateHabitInput struct {
	UserID            string
	Name              string
	Description       string
	PeriodUnit        string
	PeriodLength      int
	RequiredCheckoffs int
}

type UpdateHabitInput struct {
	ID                string
	UserID            string
	Description       *string
	PeriodUnit        *string
	PeriodLength      *int
	RequiredCheckoffs *int
	Version           int
}

// PeriodicityFilter selects habits by exact periodicity configuration.
type PeriodicityFilter struct {
	PeriodUnit        string
	PeriodLength      int
	RequiredCheckoffs int
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.UserID, domain.HabitConfig{
		Name:              input.Name,
		Description:       input.Description,
		PeriodUnit:        input.PeriodUnit,
		PeriodLength:      input.PeriodLength,
		RequiredCheckoffs: input.RequiredCheckoffs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// ListByPeriodicity returns the user's habits that match the filter exactly.
// Filtering happens in memory; per-user habit lists are small.
func (s *HabitService) ListByPeriodicity(ctx context.Context, userID string, filter PeriodicityFilter) ([]*domain.Habit, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Habit, 0)
	for _, h := range habits {
		if h.MatchesPeriodicity(filter.PeriodUnit, filter.PeriodLength, filter.RequiredCheckoffs) {
			matched = append(matched, h)
		}
	}
	return matched, nil
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if habit.UserID != input.UserID {
		return nil, domain.ErrHabitNotFound
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	periodicityChanged := input.PeriodUnit != nil || input.PeriodLength != nil || input.RequiredCheckoffs != nil

	err = habit.Edit(domain.EditHabitChanges{
		Description:       input.Description,
		PeriodUnit:        input.PeriodUnit,
		PeriodLength:      input.PeriodLength,
		RequiredCheckoffs: input.RequiredCheckoffs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	// A new periodicity redraws every bucket boundary, so the stored
	// streak figures are stale until the worker recomputes them.
	if periodicityChanged {
		s.worker.Enqueue(habit.ID)
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	return s.repo.Delete(ctx, id)
}
