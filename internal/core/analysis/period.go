// Package analysis computes streak and success-rate figures for habits by
// bucketing checkoff timestamps into fixed-width periods. Everything in this
// package is a pure function of its inputs; the current time is always passed
// in, never read from the clock.
package analysis

import (
	"errors"
	"time"
)

const (
	UnitDays   = "days"
	UnitWeeks  = "weeks"
	UnitMonths = "months"
)

var ErrInvalidPeriodicity = errors.New("analysis: period length and required checkoffs must be positive")

// Periodicity is the configuration that shapes a habit's buckets: how wide a
// period is and how many checkoffs inside one make it count as successful.
type Periodicity struct {
	Unit              string
	Length            int
	RequiredCheckoffs int
}

func (p Periodicity) Validate() error {
	if p.Length < 1 || p.RequiredCheckoffs < 1 {
		return ErrInvalidPeriodicity
	}
	return nil
}

// Duration is the fixed span of one period. Months are a flat 30 days, not
// calendar months, and an unrecognized unit is interpreted day-based. Both
// are long-standing behaviour; keep them.
func (p Periodicity) Duration() time.Duration {
	return PeriodDuration(p.Unit, p.Length)
}

func PeriodDuration(unit string, length int) time.Duration {
	switch unit {
	case UnitWeeks:
		return time.Duration(length) * 7 * 24 * time.Hour
	case UnitMonths:
		return time.Duration(length) * 30 * 24 * time.Hour
	default:
		return time.Duration(length) * 24 * time.Hour
	}
}

// PeriodIndex maps a timestamp to the zero-based index of the period
// containing it, counted from start. Index 0 covers [start, start+period).
// The division floors toward negative infinity, so a timestamp before start
// yields a negative index; with a properly clamped start that never happens.
func PeriodIndex(ts, start time.Time, period time.Duration) int {
	diff := ts.Sub(start)
	idx := diff / period
	if diff < 0 && diff%period != 0 {
		idx--
	}
	return int(idx)
}

// ResolveStart picks the later of the requested start and the habit's
// creation time, truncated to midnight of that calendar day. Clamping to
// creation avoids phantom unsuccessful periods from before the habit existed.
func ResolveStart(createdAt, requested time.Time) time.Time {
	start := requested
	if createdAt.After(start) {
		start = createdAt
	}
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}
