package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/ritmohq/ritmo/internal/adapters/handler/http"
	"github.com/ritmohq/ritmo/internal/adapters/repository"
	"github.com/ritmohq/ritmo/internal/core/domain"
	"github.com/ritmohq/ritmo/internal/core/services"
)

var analysisHandlerNow = time.Date(2024, 1, 30, 19, 0, 0, 0, time.UTC)

type analysisFixture struct {
	router       *gin.Engine
	habitRepo    *repository.InMemoryHabitRepository
	checkoffRepo *repository.InMemoryCheckoffRepository
}

func setupAnalysisRouter() analysisFixture {
	gin.SetMode(gin.TestMode)

	habitRepo := repository.NewInMemoryHabitRepository()
	checkoffRepo := repository.NewInMemoryCheckoffRepository()
	clock := func() time.Time { return analysisHandlerNow }

	svc := services.NewAnalysisService(habitRepo, checkoffRepo, clock)
	handler := adapterHTTP.NewAnalysisHandler(svc)

	r := gin.New()
	r.Use(userContextMiddleware())
	handler.RegisterRoutes(r.Group("/api/v1"))
	return analysisFixture{router: r, habitRepo: habitRepo, checkoffRepo: checkoffRepo}
}

// seedWeeklyHabit plants a weekly habit created 2023-12-01 with six checkoffs.
// Full-history analysis yields max streak 2, active streak 2, rate 0.56.
func (f analysisFixture) seedWeeklyHabit(t *testing.T, userID string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, domain.HabitConfig{
		Name:       "Weekly review",
		PeriodUnit: domain.PeriodUnitWeeks,
		CreatedAt:  time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, f.habitRepo.Create(context.Background(), h))

	for _, day := range []time.Time{
		time.Date(2023, 12, 6, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 22, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 18, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 24, 10, 0, 0, 0, time.UTC),
	} {
		c := domain.NewCheckoff(h.ID, userID, day)
		require.NoError(t, f.checkoffRepo.Create(context.Background(), c))
	}
	return h
}

func (f analysisFixture) seedIdleHabit(t *testing.T, userID string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, domain.HabitConfig{
		Name:      "Untouched",
		CreatedAt: analysisHandlerNow.AddDate(0, 0, -10),
	})
	require.NoError(t, err)
	require.NoError(t, f.habitRepo.Create(context.Background(), h))
	return h
}

func TestAnalyzeHabitEndpoint(t *testing.T) {
	t.Run("Success: 200 OK with full-history report", func(t *testing.T) {
		f := setupAnalysisRouter()
		h := f.seedWeeklyHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/habits/"+h.ID+"/analysis", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var report domain.HabitReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 2, report.MaxStreak)
		assert.Equal(t, 2, report.ActiveStreak)
		assert.InDelta(t, 0.56, report.SuccessRate, 0.001)
		assert.Equal(t, h.ID, report.Habit.ID)
	})

	t.Run("Success: 200 OK with a narrowed start date", func(t *testing.T) {
		f := setupAnalysisRouter()
		h := f.seedWeeklyHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/habits/"+h.ID+"/analysis?start=2023-12-07", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var report domain.HabitReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 2, report.MaxStreak)
		assert.Equal(t, 2, report.ActiveStreak)
		assert.InDelta(t, 0.5, report.SuccessRate, 0.001)
	})

	t.Run("Success: 200 OK with zeros for an idle habit", func(t *testing.T) {
		f := setupAnalysisRouter()
		h := f.seedIdleHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/habits/"+h.ID+"/analysis", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var report domain.HabitReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 0, report.MaxStreak)
		assert.Equal(t, 0, report.ActiveStreak)
		assert.Zero(t, report.SuccessRate)
	})

	t.Run("Fail: 400 Bad Request for malformed start", func(t *testing.T) {
		f := setupAnalysisRouter()
		h := f.seedWeeklyHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/habits/"+h.ID+"/analysis?start=last-tuesday", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 404 Not Found (IDOR protection)", func(t *testing.T) {
		f := setupAnalysisRouter()
		h := f.seedWeeklyHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/habits/"+h.ID+"/analysis", nil)
		req.Header.Set("X-User-ID", "user-2")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAnalyzeAllEndpoint(t *testing.T) {
	t.Run("Success: 200 OK with one report per habit", func(t *testing.T) {
		f := setupAnalysisRouter()
		f.seedWeeklyHabit(t, "user-1")
		f.seedIdleHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/analysis", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var reports []*domain.HabitReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
		assert.Len(t, reports, 2)
	})

	t.Run("Success: 200 OK with empty list for a fresh user", func(t *testing.T) {
		f := setupAnalysisRouter()

		req, _ := http.NewRequest("GET", "/api/v1/analysis", nil)
		req.Header.Set("X-User-ID", "user-999")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})
}

func TestStreakLeadersEndpoint(t *testing.T) {
	t.Run("Success: 200 OK with the max-streak winners", func(t *testing.T) {
		f := setupAnalysisRouter()
		f.seedWeeklyHabit(t, "user-1")
		f.seedIdleHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/analysis/max-streak", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var leaders domain.StreakLeaders
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leaders))
		assert.Equal(t, 2, leaders.MaxStreak)
		require.Len(t, leaders.Habits, 1)
		assert.Equal(t, "Weekly review", leaders.Habits[0].Habit.Name)
	})

	t.Run("Fail: 404 Not Found when the user has no habits", func(t *testing.T) {
		f := setupAnalysisRouter()

		req, _ := http.NewRequest("GET", "/api/v1/analysis/max-streak", nil)
		req.Header.Set("X-User-ID", "user-999")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestActiveStreakHoldersEndpoint(t *testing.T) {
	t.Run("Success: 200 OK with only habits on an active streak", func(t *testing.T) {
		f := setupAnalysisRouter()
		f.seedWeeklyHabit(t, "user-1")
		f.seedIdleHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/analysis/active-streaks", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var holders []*domain.HabitReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &holders))
		require.Len(t, holders, 1)
		assert.Equal(t, "Weekly review", holders[0].Habit.Name)
		assert.Equal(t, 2, holders[0].ActiveStreak)
	})
}

func TestRateStrugglersEndpoint(t *testing.T) {
	t.Run("Success: 200 OK with the lowest-rate habits", func(t *testing.T) {
		f := setupAnalysisRouter()
		f.seedWeeklyHabit(t, "user-1")
		f.seedIdleHabit(t, "user-1")

		req, _ := http.NewRequest("GET", "/api/v1/analysis/strugglers", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var strugglers domain.RateStrugglers
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &strugglers))
		assert.Zero(t, strugglers.SuccessRate)
		require.Len(t, strugglers.Habits, 1)
		assert.Equal(t, "Untouched", strugglers.Habits[0].Habit.Name)
	})

	t.Run("Fail: 404 Not Found when the user has no habits", func(t *testing.T) {
		f := setupAnalysisRouter()

		req, _ := http.NewRequest("GET", "/api/v1/analysis/strugglers", nil)
		req.Header.Set("X-User-ID", "user-999")

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
