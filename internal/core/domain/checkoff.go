package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrCheckoffInFuture       = errors.New("checkoff timestamp cannot be in the future")
	ErrCheckoffBeforeCreation = errors.New("checkoff timestamp cannot precede habit creation")
	ErrDuplicateCheckoff      = errors.New("checkoff with this timestamp already exists")
)

// Checkoff is a single timestamped completion of a habit. Timestamps are
// stored at minute precision; the recorder rejects duplicates, future-dated
// checkoffs and checkoffs before the habit existed, so the analyzer can rely
// on an ascending, unique, in-range sequence.
type Checkoff struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	CheckedAt time.Time `json:"checked_at" db:"checked_at"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewCheckoff(habitID, userID string, checkedAt time.Time) *Checkoff {
	now := time.Now().UTC()

	return &Checkoff{
		HabitID:   habitID,
		UserID:    userID,
		CheckedAt: checkedAt.UTC().Truncate(time.Minute),
		CreatedAt: now,
	}
}

func (c *Checkoff) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if c.CheckedAt.IsZero() {
		return errors.New("checked_at is required")
	}
	return nil
}

// ValidateAgainst enforces the recorder contract relative to the habit and
// the current time.
func (c *Checkoff) ValidateAgainst(habit *Habit, now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CheckedAt.After(now) {
		return ErrCheckoffInFuture
	}
	if c.CheckedAt.Before(habit.CreatedAt) {
		return ErrCheckoffBeforeCreation
	}
	return nil
}
