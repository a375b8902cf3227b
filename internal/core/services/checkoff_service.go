package services

import (
	"context"
	"time"

	"github.com/ritmohq/ritmo/internal/core/domain"
	"github.com/ritmohq/ritmo/internal/core/workers"
)

type CheckoffService struct {
	repo      domain.CheckoffRepository
	habitRepo domain.HabitRepository
	worker    *workers.StatsWorker
	now       func() time.Time
}

// NewCheckoffService wires the checkoff recorder. A nil now falls back to
// the wall clock; tests inject a frozen one.
func NewCheckoffService(repo domain.CheckoffRepository, habitRepo domain.HabitRepository, worker *workers.StatsWorker, now func() time.Time) *CheckoffService {
	if now == nil {
		now = time.Now
	}
	return &CheckoffService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
		now:       now,
	}
}

type RecordCheckoffInput struct {
	HabitID   string
	UserID    string
	CheckedAt time.Time
}

func (s *CheckoffService) Record(ctx context.Context, input RecordCheckoffInput) (*domain.Checkoff, error) {
	habit, err := s.habitRepo.GetByID(ctx, input.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != input.UserID {
		return nil, domain.ErrUnauthorized
	}

	checkedAt := input.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = s.now()
	}

	checkoff := domain.NewCheckoff(input.HabitID, input.UserID, checkedAt)

	if err := checkoff.ValidateAgainst(habit, s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, checkoff); err != nil {
		return nil, err
	}

	s.worker.Enqueue(habit.ID)

	return checkoff, nil
}

// ListByHabitID returns the habit's checkoffs with from <= checked_at <= to,
// ascending. A zero to means "up to now".
func (s *CheckoffService) ListByHabitID(ctx context.Context, habitID string, userID string, from, to time.Time) ([]*domain.Checkoff, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	if to.IsZero() {
		to = s.now().UTC()
	}

	return s.repo.ListByHabitID(ctx, habitID, from, to)
}

func (s *CheckoffService) Delete(ctx context.Context, id string, userID string) error {
	checkoff, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if checkoff.UserID != userID {
		return domain.ErrUnauthorized
	}

	habitID := checkoff.HabitID

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(habitID)

	return nil
}
