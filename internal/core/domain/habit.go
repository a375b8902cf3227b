package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty           = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong         = errors.New("habit name is too long (max 100 chars)")
	ErrHabitDescTooLong         = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID       = errors.New("invalid user id")
	ErrInvalidPeriodLength      = errors.New("period length must be a positive integer")
	ErrInvalidRequiredCheckoffs = errors.New("required checkoffs must be a positive integer")
)

const (
	PeriodUnitDays   = "days"
	PeriodUnitWeeks  = "weeks"
	PeriodUnitMonths = "months"

	MaxNameLen = 100
	MaxDescLen = 500
)

type Habit struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`

	PeriodUnit        string `json:"period_unit" db:"period_unit"`
	PeriodLength      int    `json:"period_length" db:"period_length"`
	RequiredCheckoffs int    `json:"required_checkoffs" db:"required_checkoffs"`

	// Read-model columns kept fresh by the stats worker. The analysis
	// endpoints always recompute from checkoffs; these exist so list views
	// don't have to.
	MaxStreak    int     `json:"max_streak" db:"max_streak"`
	ActiveStreak int     `json:"active_streak" db:"active_streak"`
	SuccessRate  float64 `json:"success_rate" db:"success_rate"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// HabitConfig carries the optional fields of a new habit. Zero values get
// defaults: unit "days", length 1, required checkoffs 1, CreatedAt now.
// The unit is deliberately not validated against the known set; anything the
// analyzer does not recognize is interpreted day-based.
type HabitConfig struct {
	Name              string
	Description       string
	PeriodUnit        string
	PeriodLength      int
	RequiredCheckoffs int
	CreatedAt         time.Time
}

func validateNameAndDesc(name, desc string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return "", ErrHabitDescTooLong
	}
	return trimmed, nil
}

func NewHabit(userID string, cfg HabitConfig) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	name, err := validateNameAndDesc(cfg.Name, cfg.Description)
	if err != nil {
		return nil, err
	}

	if cfg.PeriodLength < 0 {
		return nil, ErrInvalidPeriodLength
	}
	if cfg.RequiredCheckoffs < 0 {
		return nil, ErrInvalidRequiredCheckoffs
	}

	unit := cfg.PeriodUnit
	if unit == "" {
		unit = PeriodUnitDays
	}
	length := cfg.PeriodLength
	if length == 0 {
		length = 1
	}
	required := cfg.RequiredCheckoffs
	if required == 0 {
		required = 1
	}

	now := time.Now().UTC()
	createdAt := cfg.CreatedAt
	if createdAt.IsZero() {
		// Minute precision, matching checkoff timestamps.
		createdAt = now.Truncate(time.Minute)
	}

	return &Habit{
		ID:                uuid.New().String(),
		UserID:            userID,
		Name:              name,
		Description:       strings.TrimSpace(cfg.Description),
		PeriodUnit:        unit,
		PeriodLength:      length,
		RequiredCheckoffs: required,
		Version:           1,
		CreatedAt:         createdAt,
		UpdatedAt:         now,
	}, nil
}

// EditHabitChanges holds partial edits. Nil pointers leave the field as is.
type EditHabitChanges struct {
	Description       *string
	PeriodUnit        *string
	PeriodLength      *int
	RequiredCheckoffs *int
}

// Edit applies the non-nil changes. Changing the periodicity reshapes every
// bucket boundary, so callers should expect streak numbers to move.
func (h *Habit) Edit(changes EditHabitChanges) error {
	if changes.Description != nil {
		desc := strings.TrimSpace(*changes.Description)
		if len(desc) > MaxDescLen {
			return ErrHabitDescTooLong
		}
		h.Description = desc
	}
	if changes.PeriodUnit != nil && *changes.PeriodUnit != "" {
		h.PeriodUnit = *changes.PeriodUnit
	}
	if changes.PeriodLength != nil {
		if *changes.PeriodLength < 1 {
			return ErrInvalidPeriodLength
		}
		h.PeriodLength = *changes.PeriodLength
	}
	if changes.RequiredCheckoffs != nil {
		if *changes.RequiredCheckoffs < 1 {
			return ErrInvalidRequiredCheckoffs
		}
		h.RequiredCheckoffs = *changes.RequiredCheckoffs
	}

	h.UpdatedAt = time.Now().UTC()
	return nil
}

// MatchesPeriodicity reports whether the habit has exactly the given
// periodicity configuration.
func (h *Habit) MatchesPeriodicity(unit string, length, required int) bool {
	return h.PeriodUnit == unit && h.PeriodLength == length && h.RequiredCheckoffs == required
}
