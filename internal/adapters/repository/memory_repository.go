package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ritmohq/ritmo/internal/core/domain"
)

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[habit.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if stored.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	clone := *habit
	clone.Version++
	clone.UpdatedAt = time.Now().UTC()
	r.store[habit.ID] = &clone

	habit.Version = clone.Version
	habit.UpdatedAt = clone.UpdatedAt
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	habit.UpdatedAt = now
	habit.Version++
	return nil
}

func (r *InMemoryHabitRepository) UpdateAnalysis(ctx context.Context, id string, maxStreak, activeStreak int, successRate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	habit.MaxStreak = maxStreak
	habit.ActiveStreak = activeStreak
	habit.SuccessRate = successRate
	habit.UpdatedAt = time.Now().UTC()
	return nil
}

type InMemoryCheckoffRepository struct {
	store map[string]*domain.Checkoff

	mu sync.RWMutex
}

func NewInMemoryCheckoffRepository() *InMemoryCheckoffRepository {
	return &InMemoryCheckoffRepository{
		store: make(map[string]*domain.Checkoff),
	}
}

func (r *InMemoryCheckoffRepository) Create(ctx context.Context, checkoff *domain.Checkoff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.store {
		if c.HabitID == checkoff.HabitID && c.CheckedAt.Equal(checkoff.CheckedAt) && c.DeletedAt == nil {
			return domain.ErrDuplicateCheckoff
		}
	}

	if checkoff.ID == "" {
		checkoff.ID = uuid.NewString()
	}
	clone := *checkoff
	r.store[checkoff.ID] = &clone
	return nil
}

func (r *InMemoryCheckoffRepository) GetByID(ctx context.Context, id string) (*domain.Checkoff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkoff, ok := r.store[id]
	if !ok || checkoff.DeletedAt != nil {
		return nil, domain.ErrCheckoffNotFound
	}
	clone := *checkoff
	return &clone, nil
}

func (r *InMemoryCheckoffRepository) ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Checkoff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkoffs := []*domain.Checkoff{}
	for _, c := range r.store {
		if c.HabitID != habitID || c.DeletedAt != nil {
			continue
		}
		if c.CheckedAt.Before(from) || c.CheckedAt.After(to) {
			continue
		}
		clone := *c
		checkoffs = append(checkoffs, &clone)
	}

	sort.Slice(checkoffs, func(i, j int) bool {
		return checkoffs[i].CheckedAt.Before(checkoffs[j].CheckedAt)
	})

	return checkoffs, nil
}

func (r *InMemoryCheckoffRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	checkoff, ok := r.store[id]
	if !ok || checkoff.DeletedAt != nil || checkoff.UserID != userID {
		return domain.ErrCheckoffNotFound
	}

	now := time.Now().UTC()
	checkoff.DeletedAt = &now
	return nil
}
