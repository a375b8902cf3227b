package services

import (
	"context"
	"time"

	"github.com/ritmohq/ritmo/internal/core/analysis"
	"github.com/ritmohq/ritmo/internal/core/domain"
)

// AnalysisService answers analytical questions by recomputing from the raw
// checkoff timeline on every call. The denormalized columns on the habit row
// are a worker-maintained convenience for list views, never a source here.
type AnalysisService struct {
	habitRepo    domain.HabitRepository
	checkoffRepo domain.CheckoffRepository
	now          func() time.Time
}

func NewAnalysisService(habitRepo domain.HabitRepository, checkoffRepo domain.CheckoffRepository, now func() time.Time) *AnalysisService {
	if now == nil {
		now = time.Now
	}
	return &AnalysisService{
		habitRepo:    habitRepo,
		checkoffRepo: checkoffRepo,
		now:          now,
	}
}

// habitSubject is the Subject view over a stored habit. Keeping the habit
// pointer lets batch reductions map entries back to their habits.
type habitSubject struct {
	habit *domain.Habit
	times []time.Time
}

func (s habitSubject) Periodicity() analysis.Periodicity {
	return analysis.Periodicity{
		Unit:              s.habit.PeriodUnit,
		Length:            s.habit.PeriodLength,
		RequiredCheckoffs: s.habit.RequiredCheckoffs,
	}
}

func (s habitSubject) CreatedAt() time.Time { return s.habit.CreatedAt }

func (s habitSubject) Checkoffs(from, to time.Time) []time.Time {
	var out []time.Time
	for _, ts := range s.times {
		if ts.Before(from) || ts.After(to) {
			continue
		}
		out = append(out, ts)
	}
	return out
}

func (s *AnalysisService) loadSubject(ctx context.Context, habit *domain.Habit, now time.Time) (habitSubject, error) {
	checkoffs, err := s.checkoffRepo.ListByHabitID(ctx, habit.ID, habit.CreatedAt, now)
	if err != nil {
		return habitSubject{}, err
	}

	times := make([]time.Time, 0, len(checkoffs))
	for _, c := range checkoffs {
		times = append(times, c.CheckedAt)
	}

	return habitSubject{habit: habit, times: times}, nil
}

// AnalyzeHabit computes the report for a single habit. A zero start means
// full history; a later start narrows the window (it never widens past the
// habit's creation).
func (s *AnalysisService) AnalyzeHabit(ctx context.Context, habitID string, userID string, start time.Time) (*domain.HabitReport, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	now := s.now().UTC()

	subject, err := s.loadSubject(ctx, habit, now)
	if err != nil {
		return nil, err
	}

	result, err := analysis.Analyze(subject, start, now)
	if err != nil {
		return nil, err
	}

	return reportFrom(habit, result), nil
}

// AnalyzeAll computes a report per habit of the user, in the repository's
// list order. Users without habits get an empty slice, not an error.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, userID string, start time.Time) ([]*domain.HabitReport, error) {
	batch, err := s.analyzeBatch(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.HabitReport, 0, len(batch))
	for _, e := range batch {
		reports = append(reports, reportFromEntry(e))
	}
	return reports, nil
}

// StreakLeaders returns the habits sharing the user's longest max streak.
// A user without habits gets analysis.ErrEmptyBatch.
func (s *AnalysisService) StreakLeaders(ctx context.Context, userID string, start time.Time) (*domain.StreakLeaders, error) {
	batch, err := s.analyzeBatch(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	maxStreak, leaders, err := analysis.MaxStreakLeaders(batch)
	if err != nil {
		return nil, err
	}

	return &domain.StreakLeaders{
		MaxStreak: maxStreak,
		Habits:    reportsFromEntries(leaders),
	}, nil
}

// ActiveStreakHolders returns the habits with a streak still running. The
// list may be empty; only a user without habits is an error.
func (s *AnalysisService) ActiveStreakHolders(ctx context.Context, userID string, start time.Time) ([]*domain.HabitReport, error) {
	batch, err := s.analyzeBatch(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	holders, err := analysis.ActiveStreakHolders(batch)
	if err != nil {
		return nil, err
	}

	return reportsFromEntries(holders), nil
}

// RateStrugglers returns the habits at the user's lowest success rate.
func (s *AnalysisService) RateStrugglers(ctx context.Context, userID string, start time.Time) (*domain.RateStrugglers, error) {
	batch, err := s.analyzeBatch(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	minRate, strugglers, err := analysis.MinSuccessRateStrugglers(batch)
	if err != nil {
		return nil, err
	}

	return &domain.RateStrugglers{
		SuccessRate: minRate,
		Habits:      reportsFromEntries(strugglers),
	}, nil
}

func (s *AnalysisService) analyzeBatch(ctx context.Context, userID string, start time.Time) ([]analysis.BatchEntry, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	subjects := make([]analysis.Subject, 0, len(habits))
	for _, h := range habits {
		subject, err := s.loadSubject(ctx, h, now)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	return analysis.AnalyzeAll(subjects, start, now)
}

func reportFrom(habit *domain.Habit, result analysis.Result) *domain.HabitReport {
	return &domain.HabitReport{
		Habit:        habit,
		MaxStreak:    result.MaxStreak,
		ActiveStreak: result.ActiveStreak,
		SuccessRate:  result.SuccessRate,
	}
}

func reportFromEntry(e analysis.BatchEntry) *domain.HabitReport {
	return reportFrom(e.Subject.(habitSubject).habit, e.Result)
}

func reportsFromEntries(entries []analysis.BatchEntry) []*domain.HabitReport {
	reports := make([]*domain.HabitReport, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, reportFromEntry(e))
	}
	return reports
}
