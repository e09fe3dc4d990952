package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPatch carries the fields of a logged workout to change. Nil fields are left as they are.
type WorkoutPatch struct {
	CompletedAt     *time.Time
	Discipline      *domain.Discipline
	Title           *string
	DurationMinutes *int
	DistanceKm      *float64
	AvgHeartRate    *int
	PerceivedEffort *int
	Notes           *string
}

type DisciplineStats struct {
	Count           int     `json:"count"`
	DurationMinutes int     `json:"durationMinutes"`
	DistanceKm      float64 `json:"distanceKm"`
}

// WeeklyStats aggregates the completed workouts of one Monday-to-Sunday week.
type WeeklyStats struct {
	WeekStart      string                                `json:"weekStart"`
	ByDiscipline   map[domain.Discipline]DisciplineStats `json:"byDiscipline"`
	Total          DisciplineStats                       `json:"total"`
	PlannedCount   int                                   `json:"plannedCount"`
	PlannedMinutes int                                   `json:"plannedMinutes"`
}

type WorkoutService interface {
	LogWorkout(ctx context.Context, userID string, w *domain.ActualWorkout) (*domain.ActualWorkout, error)
	ListWorkouts(ctx context.Context, userID string, r repository.DateRange) ([]domain.ActualWorkout, error)
	UpdateWorkout(ctx context.Context, userID string, id primitive.ObjectID, patch WorkoutPatch) (*domain.ActualWorkout, error)
	DeleteWorkout(ctx context.Context, userID string, id primitive.ObjectID) error

	ListPlanned(ctx context.Context, userID string, r repository.DateRange) ([]domain.PlannedWorkout, error)
	// CreatePlanned validates and stores workouts in one batch, optionally attached to a plan.
	CreatePlanned(ctx context.Context, userID string, planID *primitive.ObjectID, workouts []plan.Workout) ([]domain.PlannedWorkout, error)
	DeletePlanned(ctx context.Context, userID string, id primitive.ObjectID) error

	WeeklyStats(ctx context.Context, userID string, day time.Time) (*WeeklyStats, error)
}

type workoutService struct {
	actual  repository.ActualWorkoutRepository
	planned repository.PlannedWorkoutRepository
	plans   repository.TrainingPlanRepository
	now     func() time.Time
}

func NewWorkoutService(
	actual repository.ActualWorkoutRepository,
	planned repository.PlannedWorkoutRepository,
	plans repository.TrainingPlanRepository,
) WorkoutService {
	return &workoutService{
		actual:  actual,
		planned: planned,
		plans:   plans,
		now:     time.Now,
	}
}

func validateActual(w *domain.ActualWorkout) error {
	if !w.Discipline.Valid() {
		return fmt.Errorf("%w: unknown discipline %q", ErrInvalidInput, w.Discipline)
	}
	if w.DurationMinutes < 0 || w.DistanceKm < 0 {
		return fmt.Errorf("%w: duration and distance must not be negative", ErrInvalidInput)
	}
	if w.PerceivedEffort != nil && (*w.PerceivedEffort < 1 || *w.PerceivedEffort > 10) {
		return fmt.Errorf("%w: perceived effort must be between 1 and 10", ErrInvalidInput)
	}
	if w.AvgHeartRate != nil && *w.AvgHeartRate <= 0 {
		return fmt.Errorf("%w: average heart rate must be positive", ErrInvalidInput)
	}
	return nil
}

func (s *workoutService) LogWorkout(ctx context.Context, userID string, w *domain.ActualWorkout) (*domain.ActualWorkout, error) {
	w.UserID = userID
	if w.CompletedAt.IsZero() {
		w.CompletedAt = s.now().UTC()
	}
	if err := validateActual(w); err != nil {
		return nil, err
	}
	if _, err := s.actual.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID string, r repository.DateRange) ([]domain.ActualWorkout, error) {
	return s.actual.List(ctx, userID, r)
}

func (s *workoutService) UpdateWorkout(ctx context.Context, userID string, id primitive.ObjectID, patch WorkoutPatch) (*domain.ActualWorkout, error) {
	w, err := s.actual.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if patch.CompletedAt != nil {
		w.CompletedAt = patch.CompletedAt.UTC()
	}
	if patch.Discipline != nil {
		w.Discipline = *patch.Discipline
	}
	if patch.Title != nil {
		w.Title = *patch.Title
	}
	if patch.DurationMinutes != nil {
		w.DurationMinutes = *patch.DurationMinutes
	}
	if patch.DistanceKm != nil {
		w.DistanceKm = *patch.DistanceKm
	}
	if patch.AvgHeartRate != nil {
		w.AvgHeartRate = patch.AvgHeartRate
	}
	if patch.PerceivedEffort != nil {
		w.PerceivedEffort = patch.PerceivedEffort
	}
	if patch.Notes != nil {
		w.Notes = *patch.Notes
	}
	if err := validateActual(w); err != nil {
		return nil, err
	}

	if err := s.actual.Update(ctx, w); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, userID string, id primitive.ObjectID) error {
	err := s.actual.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

func (s *workoutService) ListPlanned(ctx context.Context, userID string, r repository.DateRange) ([]domain.PlannedWorkout, error) {
	return s.planned.List(ctx, userID, r)
}

func (s *workoutService) CreatePlanned(ctx context.Context, userID string, planID *primitive.ObjectID, workouts []plan.Workout) ([]domain.PlannedWorkout, error) {
	if len(workouts) == 0 {
		return nil, fmt.Errorf("%w: at least one workout is required", ErrInvalidInput)
	}

	var pid primitive.ObjectID
	if planID != nil {
		if _, err := s.plans.GetByID(ctx, *planID, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		pid = *planID
	}

	// same validation and ordering as a plan import
	merged, err := plan.MergeSchedules([]plan.Source{{Workouts: workouts}}, "", "", 0)
	if err != nil {
		return nil, err
	}

	planned := make([]domain.PlannedWorkout, len(merged.Workouts))
	for i, w := range merged.Workouts {
		planned[i] = w.ToPlanned(userID, pid)
	}
	if _, err := s.planned.CreateMany(ctx, planned); err != nil {
		return nil, err
	}
	return planned, nil
}

func (s *workoutService) DeletePlanned(ctx context.Context, userID string, id primitive.ObjectID) error {
	err := s.planned.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

// WeeklyStats reports the Monday-to-Sunday week containing day.
func (s *workoutService) WeeklyStats(ctx context.Context, userID string, day time.Time) (*WeeklyStats, error) {
	if day.IsZero() {
		day = s.now()
	}
	start := plan.WeekStart(day)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	r := repository.DateRange{Start: start, End: end}

	done, err := s.actual.List(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.planned.List(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(done)
	stats.WeekStart = plan.FormatDate(start)
	for _, p := range scheduled {
		if p.Discipline == domain.DisciplineRest {
			continue
		}
		stats.PlannedCount++
		if p.TargetDurationMinutes != nil {
			stats.PlannedMinutes += int(math.Round(*p.TargetDurationMinutes))
		}
	}
	return stats, nil
}

// ComputeStats aggregates workouts per discipline. Every training discipline is present in the
// result even without workouts; unknown disciplines only count towards the total.
func ComputeStats(workouts []domain.ActualWorkout) *WeeklyStats {
	stats := &WeeklyStats{ByDiscipline: map[domain.Discipline]DisciplineStats{}}
	for _, d := range domain.Disciplines {
		if d != domain.DisciplineRest {
			stats.ByDiscipline[d] = DisciplineStats{}
		}
	}

	for _, w := range workouts {
		if ds, ok := stats.ByDiscipline[w.Discipline]; ok {
			ds.Count++
			ds.DurationMinutes += w.DurationMinutes
			ds.DistanceKm = round1(ds.DistanceKm + w.DistanceKm)
			stats.ByDiscipline[w.Discipline] = ds
		}
		stats.Total.Count++
		stats.Total.DurationMinutes += w.DurationMinutes
		stats.Total.DistanceKm = round1(stats.Total.DistanceKm + w.DistanceKm)
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
