package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmohq/ritmo/internal/core/analysis"
	"github.com/ritmohq/ritmo/internal/core/domain"
	"github.com/ritmohq/ritmo/internal/core/services"
)

var analysisNow = time.Date(2024, 1, 30, 19, 0, 0, 0, time.UTC)

func frozenClock() time.Time { return analysisNow }

// seedWeeklyHabit stores a weekly habit whose checkoff timeline yields a max
// streak of 2, an active streak of 2 and a 0.56 success rate as of analysisNow.
func seedWeeklyHabit(t *testing.T, hRepo *MockHabitRepo, cRepo *MockCheckoffRepo, userID string) *domain.Habit {
	t.Helper()

	h, err := domain.NewHabit(userID, domain.HabitConfig{
		Name:       "climb_weekly",
		PeriodUnit: domain.PeriodUnitWeeks,
		CreatedAt:  time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, hRepo.Create(context.Background(), h))

	for _, ts := range []time.Time{
		time.Date(2023, 12, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, cRepo.Create(context.Background(), domain.NewCheckoff(h.ID, userID, ts)))
	}
	return h
}

// seedIdleHabit stores a habit that was never checked off.
func seedIdleHabit(t *testing.T, hRepo *MockHabitRepo, userID string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, domain.HabitConfig{
		Name:      "untouched",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, hRepo.Create(context.Background(), h))
	return h
}

func newAnalysisFixture(t *testing.T) (*services.AnalysisService, *MockHabitRepo, *MockCheckoffRepo) {
	t.Helper()
	hRepo := NewMockHabitRepo()
	cRepo := NewMockCheckoffRepo()
	return services.NewAnalysisService(hRepo, cRepo, frozenClock), hRepo, cRepo
}

func TestAnalysisService_AnalyzeHabit(t *testing.T) {
	ctx := context.Background()

	t.Run("Full history report", func(t *testing.T) {
		svc, hRepo, cRepo := newAnalysisFixture(t)
		habit := seedWeeklyHabit(t, hRepo, cRepo, "user-1")

		report, err := svc.AnalyzeHabit(ctx, habit.ID, "user-1", time.Time{})

		assert.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, habit.ID, report.Habit.ID)
		assert.Equal(t, 2, report.MaxStreak)
		assert.Equal(t, 2, report.ActiveStreak)
		assert.Equal(t, 0.56, report.SuccessRate)
	})

	t.Run("Later start narrows the window", func(t *testing.T) {
		svc, hRepo, cRepo := newAnalysisFixture(t)
		habit := seedWeeklyHabit(t, hRepo, cRepo, "user-1")

		report, err := svc.AnalyzeHabit(ctx, habit.ID, "user-1", time.Date(2023, 12, 7, 0, 0, 0, 0, time.UTC))

		assert.NoError(t, err)
		assert.Equal(t, 2, report.MaxStreak)
		assert.Equal(t, 2, report.ActiveStreak)
		assert.Equal(t, 0.5, report.SuccessRate)
	})

	t.Run("Habit without checkoffs reports zeros", func(t *testing.T) {
		svc, hRepo, _ := newAnalysisFixture(t)
		habit := seedIdleHabit(t, hRepo, "user-1")

		report, err := svc.AnalyzeHabit(ctx, habit.ID, "user-1", time.Time{})

		assert.NoError(t, err)
		assert.Equal(t, 0, report.MaxStreak)
		assert.Equal(t, 0, report.ActiveStreak)
		assert.Equal(t, 0.0, report.SuccessRate)
	})

	t.Run("Fail: Another user's habit reads as not found", func(t *testing.T) {
		svc, hRepo, cRepo := newAnalysisFixture(t)
		habit := seedWeeklyHabit(t, hRepo, cRepo, "user-1")

		_, err := svc.AnalyzeHabit(ctx, habit.ID, "user-2", time.Time{})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestAnalysisService_AnalyzeAll(t *testing.T) {
	ctx := context.Background()

	t.Run("One report per habit", func(t *testing.T) {
		svc, hRepo, cRepo := newAnalysisFixture(t)
		seedWeeklyHabit(t, hRepo, cRepo, "user-1")
		seedIdleHabit(t, hRepo, "user-1")

		reports, err := svc.AnalyzeAll(ctx, "user-1", time.Time{})

		assert.NoError(t, err)
		require.Len(t, reports, 2)

		byName := make(map[string]*domain.HabitReport)
		for _, r := range reports {
			byName[r.Habit.Name] = r
		}
		assert.Equal(t, 2, byName["climb_weekly"].MaxStreak)
		assert.Equal(t, 0, byName["untouched"].MaxStreak)
	})

	t.Run("User without habits gets an empty slice", func(t *testing.T) {
		svc, _, _ := newAnalysisFixture(t)

		reports, err := svc.AnalyzeAll(ctx, "user-999", time.Time{})

		assert.NoError(t, err)
		assert.Len(t, reports, 0)
	})
}

func TestAnalysisService_Reductions(t *testing.T) {
	ctx := context.Background()

	t.Run("StreakLeaders keeps only the top streak", func(t *testing.T) {
		svc, hRepo, cRepo := newAnalysisFixture(t)
		weekly := seedWeeklyHabit(t, hRepo, cRepo, "user-1")
		seedIdleHabit(t, hRepo, "user-1")

		leaders, err := svc.StreakLeaders(ctx, "user-1", time.Time{})

		assert.NoError(t, err)
		require.NotNil(t, leaders)
		assert.Equal(t, 2, leaders.MaxStreak)
		require.Len(t, leaders.Habits, 1)
		assert.Equal(t, weekly.ID, leaders.Habits[0].Habit.ID)
	})

	t.Run("ActiveStreakHolders filters out idle habits", func(t *testing.T) {
		svc, hRepo, cRepo := newAnalysisFixture(t)
		weekly := seedWeeklyHabit(t, hRepo, cRepo, "user-1")
		seedIdleHabit(t, hRepo, "user-1")

		holders, err := svc.ActiveStreakHolders(ctx, "user-1", time.Time{})

		assert.NoError(t, err)
		require.Len(t, holders, 1)
		assert.Equal(t, weekly.ID, holders[0].Habit.ID)
		assert.Equal(t, 2, holders[0].ActiveStreak)
	})

	t.Run("ActiveStreakHolders may be empty without being an error", func(t *testing.T) {
		svc, hRepo, _ := newAnalysisFixture(t)
		seedIdleHabit(t, hRepo, "user-1")

		holders, err := svc.ActiveStreakHolders(ctx, "user-1", time.Time{})

		assert.NoError(t, err)
		assert.Len(t, holders, 0)
	})

	t.Run("RateStrugglers finds the lowest rate", func(t *testing.T) {
		svc, hRepo, cRepo := newAnalysisFixture(t)
		seedWeeklyHabit(t, hRepo, cRepo, "user-1")
		idle := seedIdleHabit(t, hRepo, "user-1")

		strugglers, err := svc.RateStrugglers(ctx, "user-1", time.Time{})

		assert.NoError(t, err)
		require.NotNil(t, strugglers)
		assert.Equal(t, 0.0, strugglers.SuccessRate)
		require.Len(t, strugglers.Habits, 1)
		assert.Equal(t, idle.ID, strugglers.Habits[0].Habit.ID)
	})

	t.Run("Fail: Reductions over a user without habits", func(t *testing.T) {
		svc, _, _ := newAnalysisFixture(t)

		_, err := svc.StreakLeaders(ctx, "user-999", time.Time{})
		assert.ErrorIs(t, err, analysis.ErrEmptyBatch)

		_, err = svc.ActiveStreakHolders(ctx, "user-999", time.Time{})
		assert.ErrorIs(t, err, analysis.ErrEmptyBatch)

		_, err = svc.RateStrugglers(ctx, "user-999", time.Time{})
		assert.ErrorIs(t, err, analysis.ErrEmptyBatch)
	})
}
