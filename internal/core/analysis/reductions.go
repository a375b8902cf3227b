package analysis

import "errors"

var ErrEmptyBatch = errors.New("analysis: batch is empty")

// MaxStreakLeaders returns the batch maximum of max streaks and every entry
// achieving it. Ties keep all entries.
func MaxStreakLeaders(batch []BatchEntry) (int, []BatchEntry, error) {
	if len(batch) == 0 {
		return 0, nil, ErrEmptyBatch
	}

	maxStreak := batch[0].Result.MaxStreak
	for _, e := range batch[1:] {
		if e.Result.MaxStreak > maxStreak {
			maxStreak = e.Result.MaxStreak
		}
	}

	var leaders []BatchEntry
	for _, e := range batch {
		if e.Result.MaxStreak == maxStreak {
			leaders = append(leaders, e)
		}
	}
	return maxStreak, leaders, nil
}

// ActiveStreakHolders returns the entries with a running streak. The subset
// may be empty; only an empty input batch is an error.
func ActiveStreakHolders(batch []BatchEntry) ([]BatchEntry, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}

	var holders []BatchEntry
	for _, e := range batch {
		if e.Result.ActiveStreak > 0 {
			holders = append(holders, e)
		}
	}
	return holders, nil
}

// MinSuccessRateStrugglers returns the batch minimum success rate and every
// entry at it. Ties keep all entries.
func MinSuccessRateStrugglers(batch []BatchEntry) (float64, []BatchEntry, error) {
	if len(batch) == 0 {
		return 0, nil, ErrEmptyBatch
	}

	minRate := batch[0].Result.SuccessRate
	for _, e := range batch[1:] {
		if e.Result.SuccessRate < minRate {
			minRate = e.Result.SuccessRate
		}
	}

	var strugglers []BatchEntry
	for _, e := range batch {
		if e.Result.SuccessRate == minRate {
			strugglers = append(strugglers, e)
		}
	}
	return minRate, strugglers, nil
}
