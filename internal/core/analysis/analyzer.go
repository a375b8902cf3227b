package analysis

import (
	"math"
	"sort"
	"time"
)

// Subject is the view of a habit the analyzer needs. Checkoffs must return
// timestamps with from <= ts <= to, ascending and unique; the recorder is
// responsible for that invariant.
type Subject interface {
	Periodicity() Periodicity
	CreatedAt() time.Time
	Checkoffs(from, to time.Time) []time.Time
}

// Result holds the derived figures for one habit over one analysis window.
type Result struct {
	MaxStreak    int     `json:"max_streak"`
	ActiveStreak int     `json:"active_streak"`
	SuccessRate  float64 `json:"success_rate"`
}

// BatchEntry pairs a subject with its result in a batch analysis.
type BatchEntry struct {
	Subject Subject
	Result  Result
}

// bucketCheckoffs accumulates checkoff counts per period index. Only periods
// with at least one checkoff appear as keys; countOrZero reads the rest.
// Timestamps before start are skipped; after ResolveStart there should be
// none, the filter is defensive.
func bucketCheckoffs(checkoffs []time.Time, start time.Time, period time.Duration) map[int]int {
	buckets := make(map[int]int)
	for _, ts := range checkoffs {
		if ts.Before(start) {
			continue
		}
		buckets[PeriodIndex(ts, start, period)]++
	}
	return buckets
}

// countOrZero treats absent period indices as zero-count periods. The streak
// scan leans on that: a gap of absent periods reads as failures.
func countOrZero(buckets map[int]int, idx int) int {
	return buckets[idx]
}

// Analyze computes max streak, active streak and success rate for a subject
// between requestedStart (clamped to the habit's creation) and now.
//
// The success-rate denominator counts every period elapsed since the resolved
// start, including the still-running one, so the rate dips right after a new
// period opens. That is intentional: it reflects time elapsed, today included.
func Analyze(s Subject, requestedStart, now time.Time) (Result, error) {
	p := s.Periodicity()
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	start := ResolveStart(s.CreatedAt(), requestedStart)
	period := p.Duration()

	buckets := bucketCheckoffs(s.Checkoffs(start, now), start, period)
	if len(buckets) == 0 {
		// No qualifying checkoffs: no streaks, 0% success.
		return Result{}, nil
	}

	// The last period is the running one that includes now.
	lastPeriod := PeriodIndex(now, start, period)
	totalPeriods := lastPeriod + 1

	indices := make([]int, 0, len(buckets))
	for idx := range buckets {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var maxStreak, activeStreak, currentStreak, successCount int

	for _, idx := range indices {
		success := countOrZero(buckets, idx) >= p.RequiredCheckoffs
		// Only the immediate next index counts, not the next visited one;
		// unvisited periods in between are failures and break the streak.
		nextSuccess := countOrZero(buckets, idx+1) >= p.RequiredCheckoffs

		if success {
			currentStreak++
			successCount++
		}
		if !nextSuccess && currentStreak > 0 {
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
			// The streak is active when its last successful period is the
			// running period or the one right before it.
			if lastPeriod-idx <= 1 {
				activeStreak = currentStreak
			}
			currentStreak = 0
		}
	}

	var successRate float64
	if totalPeriods > 0 {
		successRate = round2(float64(successCount) / float64(totalPeriods))
	}

	return Result{
		MaxStreak:    maxStreak,
		ActiveStreak: activeStreak,
		SuccessRate:  successRate,
	}, nil
}

// AnalyzeAll analyzes every subject independently; the output order matches
// the input order. Subjects never interact, so callers may fan this out
// concurrently if they want to.
func AnalyzeAll(subjects []Subject, requestedStart, now time.Time) ([]BatchEntry, error) {
	batch := make([]BatchEntry, 0, len(subjects))
	for _, s := range subjects {
		result, err := Analyze(s, requestedStart, now)
		if err != nil {
			return nil, err
		}
		batch = append(batch, BatchEntry{Subject: s, Result: result})
	}
	return batch, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
