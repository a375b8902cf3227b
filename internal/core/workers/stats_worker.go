package workers

import (
	"context"
	"log"
	"time"

	"github.com/ritmohq/ritmo/internal/core/analysis"
	"github.com/ritmohq/ritmo/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateAnalysis(ctx context.Context, id string, maxStreak, activeStreak int, successRate float64) error
}

type CheckoffRepository interface {
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Checkoff, error)
}

type StatsJob struct {
	HabitID string
}

// StatsWorker refreshes the denormalized streak/rate columns of a habit after
// its checkoffs change. The analysis endpoints never read these columns; list
// views do.
type StatsWorker struct {
	habitRepo    HabitRepository
	checkoffRepo CheckoffRepository
	jobs         chan StatsJob
	now          func() time.Time
}

func NewStatsWorker(hRepo HabitRepository, cRepo CheckoffRepository, now func() time.Time) *StatsWorker {
	if now == nil {
		now = time.Now
	}
	return &StatsWorker{
		habitRepo:    hRepo,
		checkoffRepo: cRepo,
		jobs:         make(chan StatsJob, 100),
		now:          now,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Stats Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Stats Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StatsWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StatsJob{HabitID: habitID}:
	default:
		log.Printf("Stats Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StatsWorker) processJob(ctx context.Context, job StatsJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	now := w.now().UTC()

	checkoffs, err := w.checkoffRepo.ListByHabitID(ctx, habit.ID, habit.CreatedAt, now)
	if err != nil {
		log.Printf("Worker Error fetching checkoffs for %s: %v", job.HabitID, err)
		return
	}

	times := make([]time.Time, 0, len(checkoffs))
	for _, c := range checkoffs {
		times = append(times, c.CheckedAt)
	}

	subject := analysis.TimelineSubject{
		Config: analysis.Periodicity{
			Unit:              habit.PeriodUnit,
			Length:            habit.PeriodLength,
			RequiredCheckoffs: habit.RequiredCheckoffs,
		},
		Created: habit.CreatedAt,
		Times:   times,
	}

	// Full-history analysis; the zero start clamps to habit creation.
	result, err := analysis.Analyze(subject, time.Time{}, now)
	if err != nil {
		log.Printf("Worker Error analyzing habit %s: %v", job.HabitID, err)
		return
	}

	if habit.MaxStreak == result.MaxStreak &&
		habit.ActiveStreak == result.ActiveStreak &&
		habit.SuccessRate == result.SuccessRate {
		return
	}

	if err := w.habitRepo.UpdateAnalysis(ctx, habit.ID, result.MaxStreak, result.ActiveStreak, result.SuccessRate); err != nil {
		log.Printf("Worker Failed to update analysis for %s: %v", job.HabitID, err)
		return
	}
	log.Printf("Analysis updated for %s: Max=%d, Active=%d, Rate=%.2f",
		habit.Name, result.MaxStreak, result.ActiveStreak, result.SuccessRate)
}
