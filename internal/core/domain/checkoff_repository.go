package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCheckoffNotFound = errors.New("checkoff not found")
)

type CheckoffRepository interface {
	// Create persists a new checkoff. A second checkoff with the same
	// timestamp for the same habit must fail with ErrDuplicateCheckoff.
	Create(ctx context.Context, checkoff *Checkoff) error

	// GetByID retrieves a single active (non-deleted) checkoff.
	GetByID(ctx context.Context, id string) (*Checkoff, error)

	// ListByHabitID retrieves active checkoffs of a habit with
	// from <= checked_at <= to, in ascending timestamp order. The analyzer
	// depends on that order.
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*Checkoff, error)

	// Delete soft-deletes a checkoff. The userID guards against deleting
	// somebody else's record.
	Delete(ctx context.Context, id string, userID string) error
}
