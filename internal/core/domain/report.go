package domain

// HabitReport joins a habit with its freshly computed analysis figures. It is
// built per request and never stored.
type HabitReport struct {
	Habit        *Habit  `json:"habit"`
	MaxStreak    int     `json:"max_streak"`
	ActiveStreak int     `json:"active_streak"`
	SuccessRate  float64 `json:"success_rate"`
}

// StreakLeaders is the answer to "which habits share the longest max streak".
type StreakLeaders struct {
	MaxStreak int            `json:"max_streak"`
	Habits    []*HabitReport `json:"habits"`
}

// RateStrugglers is the answer to "which habits have the lowest success rate".
type RateStrugglers struct {
	SuccessRate float64        `json:"success_rate"`
	Habits      []*HabitReport `json:"habits"`
}
